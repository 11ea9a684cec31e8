package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_export_service.go -package=mocks -mock_names=ExportService=MockExportService notes-organizer/internal/service ExportService

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"notes-organizer/internal/classify"
	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/export"
	"notes-organizer/internal/notes"
	"notes-organizer/internal/notesource"
	"notes-organizer/internal/storage"
	"notes-organizer/internal/taxonomy"
	"notes-organizer/internal/transform"
	"notes-organizer/internal/writer"
)

// Config is the per-process export configuration.
type Config struct {
	Taxonomy  taxonomy.Taxonomy
	Threshold float64
	Format    transform.Format
	Workers   int
	OutputDir string
}

// NoteView is one note with its folder suggestion.
type NoteView struct {
	ID           string
	Title        string
	SourceFolder string
	ModifiedAt   time.Time
	Suggestion   classify.Suggestion
	Candidates   []classify.Candidate
	Reason       string
}

// FailureView is a note that could not be processed.
type FailureView struct {
	NoteID string
	Title  string
	Error  string
}

// Preview is the classification of every note without writing anything.
type Preview struct {
	Notes         []NoteView
	SourceFolders []string // Distinct source folders, sorted
	Failures      []FailureView
}

// NotePreview is one note's body rendered in an export format.
type NotePreview struct {
	NoteID     string
	Title      string
	Folder     string
	Confidence float64
	Format     transform.Format
	Body       string
}

// ExportRequest is a request to export all notes.
type ExportRequest struct {
	OutputDir string            // Defaults to Config.OutputDir
	Format    string            // Defaults to Config.Format
	Overrides map[string]string // Note ID to destination folder
	DryRun    bool
}

// FolderCount is the number of notes exported to one folder.
type FolderCount struct {
	Folder string
	Count  int
}

// ExportSummary is the outcome of an export run.
type ExportSummary struct {
	RunID      string
	OutputDir  string
	Format     transform.Format
	DryRun     bool
	Total      int
	Exported   int
	Folders    []FolderCount
	Paths      []string
	Failures   []FailureView
	Assessment export.Assessment
	Sample     *export.Item // First exported item, set on dry runs
}

// RunDetail is a recorded run with its suggestions.
type RunDetail struct {
	Run         storage.RunRecord
	Suggestions []storage.SuggestionRecord
}

// ExportService classifies and exports notes.
type ExportService interface {
	// Preview classifies every note without writing anything.
	Preview(ctx context.Context) (*Preview, error)
	// PreviewNote renders one note in the given format ("" for the configured default).
	PreviewNote(ctx context.Context, noteID, format string) (*NotePreview, error)
	// Assess summarizes suggestions per destination folder.
	Assess(ctx context.Context) (export.Assessment, error)
	// Export classifies, transforms and writes every note, and records the run.
	Export(ctx context.Context, req ExportRequest) (*ExportSummary, error)
	// Runs lists recent export runs, newest first.
	Runs(ctx context.Context, limit int) ([]storage.RunRecord, error)
	// Run returns a recorded run by ID.
	Run(ctx context.Context, id string) (*RunDetail, error)
}

// exportService implements ExportService.
type exportService struct {
	source notesource.Source
	runs   storage.RunStore
	cfg    Config
	now    func() time.Time
}

// NewExportService creates a new ExportService. runs may be nil, in which
// case runs are not recorded.
func NewExportService(source notesource.Source, runs storage.RunStore, cfg Config) ExportService {
	return &exportService{
		source: source,
		runs:   runs,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *exportService) pipeline(format transform.Format, overrides map[string]string) (*export.Pipeline, error) {
	p, err := export.NewPipeline(export.Options{
		Taxonomy:  s.cfg.Taxonomy,
		Threshold: s.cfg.Threshold,
		Format:    format,
		Workers:   s.cfg.Workers,
		Overrides: overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return p, nil
}

func (s *exportService) fetch(ctx context.Context) ([]notes.Note, error) {
	fetched, err := s.source.Fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: failed to fetch notes: %w", ErrExternalService, err)
	}
	return fetched, nil
}

// classifyAll runs the pipeline over every note in the configured format.
func (s *exportService) classifyAll(ctx context.Context) (*export.Result, error) {
	p, err := s.pipeline(s.cfg.Format, nil)
	if err != nil {
		return nil, WrapError(err, "invalid export configuration")
	}
	fetched, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, fetched)
}

// Preview classifies every note.
func (s *exportService) Preview(ctx context.Context) (*Preview, error) {
	logger := contextutil.LoggerFromContext(ctx)

	result, err := s.classifyAll(ctx)
	if err != nil {
		return nil, err
	}

	preview := &Preview{
		Notes:    make([]NoteView, 0, len(result.Explanations)),
		Failures: failureViews(result.Failures),
	}
	folders := make(map[string]struct{})
	for i, e := range result.Explanations {
		preview.Notes = append(preview.Notes, NoteView{
			ID:           e.NoteID,
			Title:        e.Title,
			SourceFolder: e.SourceFolder,
			ModifiedAt:   result.Items[i].ModifiedAt,
			Suggestion:   e.Suggestion,
			Candidates:   e.Candidates,
			Reason:       e.Reason(),
		})
		if e.SourceFolder != "" {
			folders[e.SourceFolder] = struct{}{}
		}
	}
	for f := range folders {
		preview.SourceFolders = append(preview.SourceFolders, f)
	}
	sort.Strings(preview.SourceFolders)

	logger.InfoContext(ctx, "previewed notes", "notes", len(preview.Notes), "failures", len(preview.Failures))
	return preview, nil
}

// PreviewNote renders a single note.
func (s *exportService) PreviewNote(ctx context.Context, noteID, format string) (*NotePreview, error) {
	f := s.cfg.Format
	if strings.TrimSpace(format) != "" {
		parsed, err := transform.ParseFormat(format)
		if err != nil {
			return nil, &ValidationError{Field: "format", Message: err.Error()}
		}
		f = parsed
	}

	p, err := s.pipeline(f, nil)
	if err != nil {
		return nil, WrapError(err, "invalid export configuration")
	}

	fetched, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	for _, n := range fetched {
		if n.ID != noteID {
			continue
		}
		result, err := p.Run(ctx, []notes.Note{n})
		if err != nil {
			return nil, err
		}
		if len(result.Failures) > 0 {
			return nil, WrapError(result.Failures[0], "failed to render note")
		}
		item := result.Items[0]
		return &NotePreview{
			NoteID:     item.NoteID,
			Title:      item.Title,
			Folder:     item.Folder,
			Confidence: item.Confidence,
			Format:     item.Format,
			Body:       item.Body,
		}, nil
	}

	return nil, fmt.Errorf("%w: note %s", ErrNotFound, noteID)
}

// Assess summarizes suggestions per folder.
func (s *exportService) Assess(ctx context.Context) (export.Assessment, error) {
	result, err := s.classifyAll(ctx)
	if err != nil {
		return export.Assessment{}, err
	}
	return export.Assess(result.Explanations), nil
}

func (s *exportService) validate(req ExportRequest) (string, transform.Format, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = s.cfg.OutputDir
	}
	if outputDir == "" && !req.DryRun {
		return "", "", &ValidationError{Field: "output_dir", Message: "cannot be empty"}
	}
	if rest, ok := strings.CutPrefix(outputDir, "~"); ok && (rest == "" || strings.HasPrefix(rest, "/")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", &ValidationError{Field: "output_dir", Message: "cannot expand ~: " + err.Error()}
		}
		outputDir = filepath.Join(home, rest)
	}

	format := s.cfg.Format
	if strings.TrimSpace(req.Format) != "" {
		parsed, err := transform.ParseFormat(req.Format)
		if err != nil {
			return "", "", &ValidationError{Field: "format", Message: err.Error()}
		}
		format = parsed
	}
	return outputDir, format, nil
}

// Export runs a full export.
func (s *exportService) Export(ctx context.Context, req ExportRequest) (*ExportSummary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	outputDir, format, err := s.validate(req)
	if err != nil {
		logger.WarnContext(ctx, "invalid export request", "error", err)
		return nil, err
	}

	p, err := s.pipeline(format, req.Overrides)
	if err != nil {
		if errors.Is(err, export.ErrInvalidOverride) {
			return nil, &ValidationError{Field: "overrides", Message: err.Error()}
		}
		return nil, WrapError(err, "invalid export configuration")
	}

	fetched, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	// Bookkeeping must survive cancellation of the request.
	bookCtx := context.WithoutCancel(ctx)

	run := &storage.RunRecord{
		StartedAt: s.now(),
		Format:    string(format),
		Threshold: s.cfg.Threshold,
		OutputDir: outputDir,
		DryRun:    req.DryRun,
	}
	if s.runs != nil {
		if err := s.runs.CreateRun(bookCtx, run); err != nil {
			return nil, WrapError(err, "failed to record export run")
		}
	}

	result, runErr := p.Run(ctx, fetched)

	summary := &ExportSummary{
		RunID:      run.ID,
		OutputDir:  outputDir,
		Format:     format,
		DryRun:     req.DryRun,
		Total:      len(fetched),
		Failures:   failureViews(result.Failures),
		Assessment: export.Assess(result.Explanations),
	}

	groups := result.Grouped()
	for _, g := range groups {
		summary.Folders = append(summary.Folders, FolderCount{Folder: g.Folder, Count: len(g.Items)})
	}

	var writeErr error
	paths := make(map[string]string)
	if req.DryRun {
		summary.Exported = len(result.Items)
		if len(result.Items) > 0 {
			first := result.Items[0]
			summary.Sample = &first
		}
	} else if runErr == nil {
		w := writer.New(outputDir)
		w.Now = s.now
		summary.Paths, writeErr = w.Write(ctx, groups)
		summary.Exported = len(summary.Paths)

		written := 0
		for _, g := range groups {
			for _, item := range g.Items {
				if written < len(summary.Paths) {
					paths[item.NoteID] = summary.Paths[written]
				}
				written++
			}
		}
	}

	status := storage.RunStatusCompleted
	switch {
	case runErr != nil || errors.Is(writeErr, context.Canceled) || errors.Is(writeErr, context.DeadlineExceeded):
		status = storage.RunStatusCancelled
	case writeErr != nil:
		status = storage.RunStatusFailed
	}

	if s.runs != nil {
		records := make([]storage.SuggestionRecord, 0, len(result.Items))
		for i, item := range result.Items {
			records = append(records, storage.SuggestionRecord{
				NoteID:       item.NoteID,
				Title:        item.Title,
				Folder:       item.Folder,
				Confidence:   item.Confidence,
				Accepted:     result.Explanations[i].Suggestion.Accepted,
				SourceFolder: item.SourceFolder,
				Path:         paths[item.NoteID],
			})
		}
		if err := s.runs.SaveSuggestions(bookCtx, run.ID, records); err != nil {
			logger.ErrorContext(ctx, "failed to save suggestions", "run_id", run.ID, "error", err)
		}
		stats := storage.RunStats{
			Status:     status,
			Total:      summary.Total,
			Exported:   summary.Exported,
			Failed:     len(result.Failures),
			FinishedAt: s.now(),
		}
		if err := s.runs.FinishRun(bookCtx, run.ID, stats); err != nil {
			logger.ErrorContext(ctx, "failed to finish run", "run_id", run.ID, "error", err)
		}
	}

	logger.InfoContext(ctx, "export finished",
		"run_id", run.ID,
		"status", status,
		"total", summary.Total,
		"exported", summary.Exported,
		"failed", len(summary.Failures),
		"dry_run", req.DryRun,
	)

	if runErr != nil {
		return summary, runErr
	}
	if writeErr != nil {
		return summary, WrapError(writeErr, "failed to write export")
	}
	return summary, nil
}

// Runs lists recent runs.
func (s *exportService) Runs(ctx context.Context, limit int) ([]storage.RunRecord, error) {
	if s.runs == nil {
		return []storage.RunRecord{}, nil
	}
	runs, err := s.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, WrapError(err, "failed to list runs")
	}
	return runs, nil
}

// Run returns one run with its suggestions.
func (s *exportService) Run(ctx context.Context, id string) (*RunDetail, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	run, err := s.runs.GetRun(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, WrapError(err, "failed to get run")
	}
	suggestions, err := s.runs.ListSuggestions(ctx, id)
	if err != nil {
		return nil, WrapError(err, "failed to list suggestions")
	}
	return &RunDetail{Run: *run, Suggestions: suggestions}, nil
}

func failureViews(failures []export.Failure) []FailureView {
	views := make([]FailureView, 0, len(failures))
	for _, f := range failures {
		views = append(views, FailureView{NoteID: f.NoteID, Title: f.Title, Error: f.Err.Error()})
	}
	return views
}
