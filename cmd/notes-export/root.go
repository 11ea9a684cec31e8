package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"notes-organizer/internal/output"
)

var (
	verbose      bool
	jsonOutput   bool
	outputDir    string
	formatName   string
	threshold    float64
	taxonomyPath string
	workers      int
	dryRun       bool
	useSample    bool
	notesDir     string
	excludes     []string
	noHistory    bool
)

// rootCmd exports every note when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "notes-export",
	Short: "Export Apple Notes into suggested folders",
	Long: `notes-export reads notes from the Notes app, suggests a destination folder for
each one by keyword matching against a taxonomy, converts the body to markdown,
text or html, and writes one file per note under the output directory.

Settings default to the environment (ACCEPTANCE_THRESHOLD, OUTPUT_FORMAT,
TAXONOMY_PATH, WORKERS, EXPORT_DIR, NOTES_SOURCE, NOTES_DIR, DB_PATH); flags
override them.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
	RunE: runExport,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.NewPrinter(os.Stdout, jsonOutput, output.IsTTY(os.Stdout)).WithStderr(os.Stderr).Error(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Float64Var(&threshold, "threshold", 0, "Minimum confidence to accept a suggested folder, in [0, 1]")
	rootCmd.PersistentFlags().StringVar(&taxonomyPath, "taxonomy", "", "YAML taxonomy file (default: built-in taxonomy)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Notes processed concurrently (default: number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&useSample, "sample", false, "Use the built-in sample notes instead of the Notes app")
	rootCmd.PersistentFlags().StringVar(&notesDir, "dir", "", "Read notes from .html, .md and .txt files under this directory")
	rootCmd.PersistentFlags().StringSliceVar(&excludes, "exclude", nil, "Skip files matching these patterns with --dir (e.g. 'Archive/**')")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history database")

	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: EXPORT_DIR or notes-export)")
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format: markdown, text or html")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify and convert without writing files")
}
