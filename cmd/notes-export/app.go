package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"notes-organizer/internal/classify"
	"notes-organizer/internal/config"
	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/notesource"
	"notes-organizer/internal/output"
	"notes-organizer/internal/service"
	"notes-organizer/internal/storage"
	"notes-organizer/internal/taxonomy"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	service service.ExportService
	printer *output.Printer
	db      *sql.DB
}

// newApp loads the environment configuration, applies flag overrides and builds the export service.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if !verbose {
		// -v wins over LOG_LEVEL and LOG_FORMAT
		slog.SetDefault(cfg.NewLogger())
	}

	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	source, err := notesource.New(notesource.Options{
		Kind:    cfg.NotesSource,
		Dir:     cfg.NotesDir,
		Exclude: cfg.NotesExclude,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notes source: %w", err)
	}

	a := &app{
		cfg: cfg,
		printer: output.NewPrinter(cmd.OutOrStdout(), jsonOutput, output.IsTTY(cmd.OutOrStdout())).
			WithStderr(cmd.ErrOrStderr()),
	}

	var runs storage.RunStore
	if !noHistory {
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := storage.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.db = db
		runs = storage.NewRunRepo(db)
		slog.Debug("Run history enabled", "path", cfg.DBPath)
	}

	a.service = service.NewExportService(source, runs, service.Config{
		Taxonomy:  tax,
		Threshold: cfg.AcceptanceThreshold,
		Format:    cfg.OutputFormat,
		Workers:   cfg.Workers,
		OutputDir: cfg.ExportDir,
	})
	logger := slog.Default().With("command", cmd.Name())
	cmd.SetContext(contextutil.WithLogger(cmd.Context(), logger))
	logger.Debug("Export service configured",
		"source", cfg.NotesSource,
		"threshold", cfg.AcceptanceThreshold,
		"format", cfg.OutputFormat,
		"workers", cfg.Workers,
		"folders", tax.Len(),
	)
	return a, nil
}

// applyFlags overrides configuration values with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		if err := classify.ValidateThreshold(threshold); err != nil {
			return fmt.Errorf("invalid --threshold: %w", err)
		}
		cfg.AcceptanceThreshold = threshold
	}
	if flags.Changed("taxonomy") {
		cfg.TaxonomyPath = taxonomyPath
	}
	if flags.Changed("workers") {
		if workers <= 0 {
			return fmt.Errorf("--workers must be greater than 0")
		}
		cfg.Workers = workers
	}
	if useSample {
		cfg.NotesSource = notesource.KindSample
	}
	if notesDir != "" {
		cfg.NotesSource = notesource.KindDirectory
		cfg.NotesDir = notesDir
	}
	if flags.Changed("exclude") {
		if err := notesource.ValidatePatterns(excludes); err != nil {
			return fmt.Errorf("--exclude: %w", err)
		}
		cfg.NotesExclude = excludes
	}
	return nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
