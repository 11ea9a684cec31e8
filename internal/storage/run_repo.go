package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks notes-organizer/internal/storage RunStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// timeFormat is fixed width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// RunStore defines the interface for export run history.
type RunStore interface {
	// CreateRun inserts a new run. A UUID is assigned if run.ID is empty.
	CreateRun(ctx context.Context, run *RunRecord) error
	// SaveSuggestions stores the per-note suggestions of a run in one transaction.
	SaveSuggestions(ctx context.Context, runID string, suggestions []SuggestionRecord) error
	// FinishRun records the final counters of a run.
	// Returns ErrNotFound if the run does not exist.
	FinishRun(ctx context.Context, runID string, stats RunStats) error
	// GetRun gets a run by ID.
	// Returns nil and ErrNotFound if not found.
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	// ListSuggestions returns the suggestions of a run ordered by folder, then title.
	ListSuggestions(ctx context.Context, runID string) ([]SuggestionRecord, error)
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}

// RunRepo provides methods for run history operations.
// It implements the RunStore interface.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// CreateRun inserts a new run with status running.
func (r *RunRepo) CreateRun(ctx context.Context, run *RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, status, format, threshold, output_dir, dry_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(timeFormat), run.Status, run.Format, run.Threshold, run.OutputDir, run.DryRun,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// SaveSuggestions stores suggestions for runID, replacing any earlier
// suggestion for the same note in that run.
func (r *RunRepo) SaveSuggestions(ctx context.Context, runID string, suggestions []SuggestionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO suggestions (run_id, note_id, title, folder, confidence, accepted, source_folder, path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id, note_id) DO UPDATE SET
		 title = excluded.title, folder = excluded.folder, confidence = excluded.confidence,
		 accepted = excluded.accepted, source_folder = excluded.source_folder, path = excluded.path`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare suggestion insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range suggestions {
		if _, err := stmt.ExecContext(ctx, runID, s.NoteID, s.Title, s.Folder, s.Confidence, s.Accepted, s.SourceFolder, s.Path); err != nil {
			return fmt.Errorf("failed to insert suggestion for note %s: %w", s.NoteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit suggestions: %w", err)
	}
	return nil
}

// FinishRun records the final counters of a run.
func (r *RunRepo) FinishRun(ctx context.Context, runID string, stats RunStats) error {
	finishedAt := stats.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}
	status := stats.Status
	if status == "" {
		status = RunStatusCompleted
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, total = ?, exported = ?, failed = ? WHERE id = ?`,
		finishedAt.UTC().Format(timeFormat), status, stats.Total, stats.Exported, stats.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const runColumns = "id, started_at, finished_at, status, format, threshold, output_dir, dry_run, total, exported, failed"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var run RunRecord
	var startedAt string
	var finishedAt sql.NullString

	if err := row.Scan(&run.ID, &startedAt, &finishedAt, &run.Status, &run.Format, &run.Threshold,
		&run.OutputDir, &run.DryRun, &run.Total, &run.Exported, &run.Failed); err != nil {
		return nil, err
	}

	var err error
	run.StartedAt, err = parseTimestamp(startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at timestamp: %w", err)
	}
	if finishedAt.Valid && finishedAt.String != "" {
		run.FinishedAt, err = parseTimestamp(finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at timestamp: %w", err)
		}
	}
	return &run, nil
}

// parseTimestamp accepts RFC 3339 and the SQLite DATETIME format.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// Try alternative format (SQLite CURRENT_TIMESTAMP)
		t, err = time.Parse("2006-01-02 15:04:05", s)
	}
	return t, err
}

// GetRun gets a run by ID.
func (r *RunRepo) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListSuggestions returns the suggestions stored for runID.
func (r *RunRepo) ListSuggestions(ctx context.Context, runID string) ([]SuggestionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, note_id, title, folder, confidence, accepted, COALESCE(source_folder, ''), COALESCE(path, '')
		 FROM suggestions WHERE run_id = ? ORDER BY folder, title, note_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []SuggestionRecord
	for rows.Next() {
		var s SuggestionRecord
		if err := rows.Scan(&s.RunID, &s.NoteID, &s.Title, &s.Folder, &s.Confidence, &s.Accepted, &s.SourceFolder, &s.Path); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}
	return suggestions, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit returns all runs.
func (r *RunRepo) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}
