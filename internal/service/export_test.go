package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notes-organizer/internal/classify"
	"notes-organizer/internal/notes"
	"notes-organizer/internal/notesource"
	"notes-organizer/internal/storage"
	storage_mocks "notes-organizer/internal/storage/mocks"
	"notes-organizer/internal/taxonomy"
	"notes-organizer/internal/transform"

	"go.uber.org/mock/gomock"
)

type failingSource struct{ err error }

func (s failingSource) Fetch(ctx context.Context) ([]notes.Note, error) {
	return nil, s.err
}

func testConfig(outputDir string) Config {
	return Config{
		Taxonomy:  taxonomy.Default(),
		Threshold: classify.DefaultThreshold,
		Format:    transform.Markdown,
		Workers:   2,
		OutputDir: outputDir,
	}
}

func sampleIDs(t *testing.T) []string {
	t.Helper()
	sample, err := notesource.SampleSource{}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("SampleSource.Fetch() error = %v", err)
	}
	ids := make([]string, len(sample))
	for i, n := range sample {
		ids[i] = n.ID
	}
	return ids
}

func TestExportService_Preview(t *testing.T) {
	svc := NewExportService(notesource.SampleSource{}, nil, testConfig(""))

	preview, err := svc.Preview(context.Background())
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(preview.Notes) != 3 {
		t.Fatalf("Preview() returned %d notes, want 3", len(preview.Notes))
	}

	wantFolders := []string{"Work", "Personal", "Ideas"}
	for i, n := range preview.Notes {
		if n.Suggestion.Folder != wantFolders[i] || !n.Suggestion.Accepted {
			t.Errorf("note %q suggestion = %+v, want accepted %s", n.Title, n.Suggestion, wantFolders[i])
		}
		if !strings.HasPrefix(n.Reason, "Matched ") {
			t.Errorf("note %q reason = %q", n.Title, n.Reason)
		}
		if len(n.Candidates) != taxonomy.Default().Len() {
			t.Errorf("note %q has %d candidates", n.Title, len(n.Candidates))
		}
		if n.ModifiedAt.IsZero() {
			t.Errorf("note %q has zero modified time", n.Title)
		}
	}

	if got := strings.Join(preview.SourceFolders, ","); got != "Ideas,Inbox,Personal" {
		t.Errorf("Preview() source folders = %s", got)
	}
}

func TestExportService_Preview_SourceError(t *testing.T) {
	svc := NewExportService(failingSource{err: notesource.ErrNotesUnavailable}, nil, testConfig(""))

	_, err := svc.Preview(context.Background())
	if !errors.Is(err, ErrExternalService) {
		t.Errorf("Preview() error = %v, want ErrExternalService", err)
	}
	if !errors.Is(err, notesource.ErrNotesUnavailable) {
		t.Errorf("Preview() error = %v, want wrapped ErrNotesUnavailable", err)
	}
}

func TestExportService_PreviewNote(t *testing.T) {
	svc := NewExportService(notesource.SampleSource{}, nil, testConfig(""))
	ids := sampleIDs(t)

	tests := []struct {
		name     string
		noteID   string
		format   string
		wantBody string
		wantErr  func(error) bool
	}{
		{
			name:     "default format",
			noteID:   ids[1],
			wantBody: "- Chicken bowls\n- Vegetarian chili",
		},
		{
			name:     "text format",
			noteID:   ids[1],
			format:   "txt",
			wantBody: "Chicken bowls Vegetarian chili",
		},
		{
			name:    "unknown note",
			noteID:  "missing",
			wantErr: func(err error) bool { return errors.Is(err, ErrNotFound) },
		},
		{
			name:   "unknown format",
			noteID: ids[0],
			format: "pdf",
			wantErr: func(err error) bool {
				var v *ValidationError
				return errors.As(err, &v) && v.Field == "format"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.PreviewNote(context.Background(), tt.noteID, tt.format)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Errorf("PreviewNote() error = %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PreviewNote() error = %v", err)
			}
			if got.Body != tt.wantBody {
				t.Errorf("PreviewNote() body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.Folder != "Personal" {
				t.Errorf("PreviewNote() folder = %s, want Personal", got.Folder)
			}
		})
	}
}

func TestExportService_Assess(t *testing.T) {
	svc := NewExportService(notesource.SampleSource{}, nil, testConfig(""))

	assessment, err := svc.Assess(context.Background())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if assessment.Total != 3 || assessment.Accepted != 3 {
		t.Errorf("Assess() = %+v", assessment)
	}
	if len(assessment.Buckets) != 3 || assessment.Buckets[0].Folder != "Ideas" {
		t.Errorf("Assess() buckets = %+v", assessment.Buckets)
	}
}

func TestExportService_Export_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage_mocks.NewMockRunStore(ctrl)
	store.EXPECT().
		CreateRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, run *storage.RunRecord) error {
			if !run.DryRun || run.Format != "text" || run.OutputDir != "out" {
				t.Errorf("CreateRun() run = %+v", run)
			}
			run.ID = "run-1"
			return nil
		})
	store.EXPECT().
		SaveSuggestions(gomock.Any(), "run-1", gomock.Len(3)).
		DoAndReturn(func(ctx context.Context, runID string, records []storage.SuggestionRecord) error {
			for _, r := range records {
				if r.Path != "" {
					t.Errorf("dry run recorded path %s", r.Path)
				}
			}
			return nil
		})
	store.EXPECT().
		FinishRun(gomock.Any(), "run-1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, runID string, stats storage.RunStats) error {
			if stats.Status != storage.RunStatusCompleted || stats.Total != 3 || stats.Exported != 3 || stats.Failed != 0 {
				t.Errorf("FinishRun() stats = %+v", stats)
			}
			return nil
		})

	svc := NewExportService(notesource.SampleSource{}, store, testConfig("out"))
	summary, err := svc.Export(context.Background(), ExportRequest{Format: "text", DryRun: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if summary.RunID != "run-1" || summary.Exported != 3 || len(summary.Paths) != 0 {
		t.Errorf("Export() summary = %+v", summary)
	}
	if summary.Sample == nil || summary.Sample.Format != transform.Text {
		t.Errorf("Export() sample = %+v", summary.Sample)
	}
	if len(summary.Folders) != 3 || summary.Folders[0].Folder != "Ideas" {
		t.Errorf("Export() folders = %+v", summary.Folders)
	}
	if _, err := os.Stat("out"); !os.IsNotExist(err) {
		t.Error("dry run should not create the output directory")
	}
}

func TestExportService_Export_Writes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	store := storage_mocks.NewMockRunStore(ctrl)
	store.EXPECT().CreateRun(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().
		SaveSuggestions(gomock.Any(), gomock.Any(), gomock.Len(3)).
		DoAndReturn(func(ctx context.Context, runID string, records []storage.SuggestionRecord) error {
			for _, r := range records {
				if !strings.HasPrefix(r.Path, dir) {
					t.Errorf("suggestion %s path = %q, want under %s", r.NoteID, r.Path, dir)
				}
			}
			return nil
		})
	store.EXPECT().FinishRun(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	ids := sampleIDs(t)
	svc := NewExportService(notesource.SampleSource{}, store, testConfig(dir))
	summary, err := svc.Export(context.Background(), ExportRequest{
		Format:    "html",
		Overrides: map[string]string{ids[2]: classify.Uncategorized},
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if len(summary.Paths) != 3 || summary.Exported != 3 {
		t.Fatalf("Export() paths = %v", summary.Paths)
	}
	for _, p := range summary.Paths {
		if !strings.HasSuffix(p, ".html") {
			t.Errorf("path %s, want .html", p)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Stat(%s) error = %v", p, err)
		}
	}
	if last := summary.Folders[len(summary.Folders)-1]; last.Folder != classify.Uncategorized || last.Count != 1 {
		t.Errorf("Export() folders = %+v, want overridden note in Uncategorized", summary.Folders)
	}
}

func TestExportService_Export_Validation(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		req       ExportRequest
		wantField string
	}{
		{name: "unknown format", cfg: testConfig("out"), req: ExportRequest{Format: "docx"}, wantField: "format"},
		{name: "no output directory", cfg: testConfig(""), req: ExportRequest{}, wantField: "output_dir"},
		{name: "unknown override folder", cfg: testConfig("out"), req: ExportRequest{Overrides: map[string]string{"n": "Nowhere"}}, wantField: "overrides"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			store := storage_mocks.NewMockRunStore(ctrl) // No calls expected

			svc := NewExportService(notesource.SampleSource{}, store, tt.cfg)
			_, err := svc.Export(context.Background(), tt.req)

			var v *ValidationError
			if !errors.As(err, &v) {
				t.Fatalf("Export() error = %v, want ValidationError", err)
			}
			if v.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %s, want %s", v.Field, tt.wantField)
			}
		})
	}
}

func TestExportService_Export_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	svc := NewExportService(notesource.SampleSource{}, nil, testConfig(""))
	summary, err := svc.Export(context.Background(), ExportRequest{OutputDir: "~/notes", DryRun: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if want := filepath.Join(home, "notes"); summary.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", summary.OutputDir, want)
	}
}

func TestExportService_Export_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	store := storage_mocks.NewMockRunStore(ctrl)
	store.EXPECT().
		CreateRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *storage.RunRecord) error {
			cancel()
			return nil
		})
	store.EXPECT().SaveSuggestions(gomock.Any(), gomock.Any(), gomock.Len(0)).Return(nil)
	store.EXPECT().
		FinishRun(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, runID string, stats storage.RunStats) error {
			if ctx.Err() != nil {
				t.Error("FinishRun() received a cancelled context")
			}
			if stats.Status != storage.RunStatusCancelled {
				t.Errorf("FinishRun() status = %s, want cancelled", stats.Status)
			}
			return nil
		})

	svc := NewExportService(notesource.SampleSource{}, store, testConfig(t.TempDir()))
	summary, err := svc.Export(ctx, ExportRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Export() error = %v, want context.Canceled", err)
	}
	if summary == nil || summary.Exported != 0 {
		t.Errorf("Export() summary = %+v", summary)
	}
}

func TestExportService_Runs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	store := storage_mocks.NewMockRunStore(ctrl)
	store.EXPECT().ListRuns(gomock.Any(), 10).Return([]storage.RunRecord{{ID: "r1", StartedAt: started}}, nil)
	store.EXPECT().GetRun(gomock.Any(), "r1").Return(&storage.RunRecord{ID: "r1"}, nil)
	store.EXPECT().ListSuggestions(gomock.Any(), "r1").Return([]storage.SuggestionRecord{{NoteID: "n1"}}, nil)
	store.EXPECT().GetRun(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)

	svc := NewExportService(notesource.SampleSource{}, store, testConfig(""))

	runs, err := svc.Runs(context.Background(), 10)
	if err != nil || len(runs) != 1 || runs[0].ID != "r1" {
		t.Errorf("Runs() = %v, %v", runs, err)
	}

	detail, err := svc.Run(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if detail.Run.ID != "r1" || len(detail.Suggestions) != 1 {
		t.Errorf("Run() = %+v", detail)
	}

	if _, err := svc.Run(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Run() error = %v, want ErrNotFound", err)
	}
}

func TestExportService_Runs_WithoutStore(t *testing.T) {
	svc := NewExportService(notesource.SampleSource{}, nil, testConfig(""))

	runs, err := svc.Runs(context.Background(), 5)
	if err != nil || len(runs) != 0 {
		t.Errorf("Runs() = %v, %v, want empty", runs, err)
	}
	if _, err := svc.Run(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Run() error = %v, want ErrNotFound", err)
	}
}
