package main

import (
	_ "embed"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"notes-organizer/internal/config"
	"notes-organizer/internal/http"
	"notes-organizer/internal/notesource"
	"notes-organizer/internal/service"
	"notes-organizer/internal/storage"
	"notes-organizer/internal/taxonomy"
)

//go:embed index.html
var indexHTML string

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		log.Fatalf("Failed to load taxonomy: %v", err)
	}
	slog.Info("Taxonomy loaded", "path", cfg.TaxonomyPath, "folders", tax.Len())

	source, err := notesource.New(notesource.Options{
		Kind:    cfg.NotesSource,
		Dir:     cfg.NotesDir,
		Exclude: cfg.NotesExclude,
	})
	if err != nil {
		log.Fatalf("Failed to create notes source: %v", err)
	}

	exportService := service.NewExportService(source, storage.NewRunRepo(db), service.Config{
		Taxonomy:  tax,
		Threshold: cfg.AcceptanceThreshold,
		Format:    cfg.OutputFormat,
		Workers:   cfg.Workers,
		OutputDir: cfg.ExportDir,
	})

	// Create router with dependencies
	deps := &http.Deps{
		ExportService: exportService,
		DB:            db,
		IndexHTML:     indexHTML,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Export configuration",
		"source", cfg.NotesSource,
		"threshold", cfg.AcceptanceThreshold,
		"format", cfg.OutputFormat,
		"workers", cfg.Workers,
		"export_dir", cfg.ExportDir,
	)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
