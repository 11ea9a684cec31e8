package storage

import "time"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusCancelled = "cancelled"
	RunStatusFailed    = "failed"
)

// RunRecord is one export run in the history.
type RunRecord struct {
	ID         string    // UUID
	StartedAt  time.Time
	FinishedAt time.Time // Zero while the run is in progress
	Status     string
	Format     string
	Threshold  float64
	OutputDir  string
	DryRun     bool
	Total      int // Notes fetched
	Exported   int // Notes written (or that would be written on a dry run)
	Failed     int // Notes that failed processing or writing
}

// RunStats are the final counters of a run.
type RunStats struct {
	Status     string
	Total      int
	Exported   int
	Failed     int
	FinishedAt time.Time
}

// SuggestionRecord is the folder suggestion recorded for one note in a run.
type SuggestionRecord struct {
	RunID        string
	NoteID       string
	Title        string
	Folder       string
	Confidence   float64
	Accepted     bool
	SourceFolder string
	Path         string // Written file, empty on dry runs
}
