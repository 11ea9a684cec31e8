package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"notes-organizer/internal/classify"
	"notes-organizer/internal/notesource"
	"notes-organizer/internal/transform"
)

// Config holds all configuration for the application.
type Config struct {
	AcceptanceThreshold float64
	OutputFormat        transform.Format
	TaxonomyPath        string // Empty selects the built-in taxonomy
	Workers             int
	ExportDir           string
	NotesSource         string
	NotesDir            string   // Required when NotesSource is "directory"
	NotesExclude        []string // Exclude patterns for the directory source
	DBPath              string
	APIPort             string
	LogLevel            slog.Level
	LogFormat           string // "text" or "json"
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates every field.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		TaxonomyPath: getEnv("TAXONOMY_PATH", ""),
		ExportDir:    getEnv("EXPORT_DIR", "notes-export"),
		NotesSource:  strings.ToLower(getEnv("NOTES_SOURCE", notesource.KindAuto)),
		NotesDir:     getEnv("NOTES_DIR", ""),
		NotesExclude: splitList(getEnv("NOTES_EXCLUDE", "")),
		DBPath:       getEnv("DB_PATH", "./data/notes-organizer.db"),
		APIPort:      getEnv("API_PORT", "9000"),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	threshold, err := strconv.ParseFloat(getEnv("ACCEPTANCE_THRESHOLD", strconv.FormatFloat(classify.DefaultThreshold, 'f', -1, 64)), 64)
	if err != nil {
		return nil, fmt.Errorf("ACCEPTANCE_THRESHOLD must be a number: %w", err)
	}
	if err := classify.ValidateThreshold(threshold); err != nil {
		return nil, fmt.Errorf("invalid ACCEPTANCE_THRESHOLD: %w", err)
	}
	cfg.AcceptanceThreshold = threshold

	format, err := transform.ParseFormat(getEnv("OUTPUT_FORMAT", transform.DefaultFormat.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTPUT_FORMAT: %w", err)
	}
	cfg.OutputFormat = format

	workers, err := strconv.Atoi(getEnv("WORKERS", strconv.Itoa(runtime.NumCPU())))
	if err != nil {
		return nil, fmt.Errorf("WORKERS must be a valid integer: %w", err)
	}
	if workers <= 0 {
		return nil, fmt.Errorf("WORKERS must be greater than 0")
	}
	cfg.Workers = workers

	switch cfg.NotesSource {
	case notesource.KindAuto, notesource.KindAppleScript, notesource.KindSample:
	case notesource.KindDirectory:
		if cfg.NotesDir == "" {
			return nil, fmt.Errorf("NOTES_DIR is required when NOTES_SOURCE is %s", notesource.KindDirectory)
		}
		if err := notesource.ValidatePatterns(cfg.NotesExclude); err != nil {
			return nil, fmt.Errorf("invalid NOTES_EXCLUDE: %w", err)
		}
	default:
		return nil, fmt.Errorf("NOTES_SOURCE must be one of %s, %s, %s, %s: got %q",
			notesource.KindAuto, notesource.KindAppleScript, notesource.KindSample, notesource.KindDirectory, cfg.NotesSource)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json: got %q", cfg.LogFormat)
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
