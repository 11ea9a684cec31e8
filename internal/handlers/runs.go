package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/service"
	"notes-organizer/internal/storage"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

// RunsHandler serves the export run history.
type RunsHandler struct {
	exportService service.ExportService
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(exportService service.ExportService) *RunsHandler {
	return &RunsHandler{exportService: exportService}
}

// RunResponse is one export run.
type RunResponse struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"`
	Format     string     `json:"format"`
	Threshold  float64    `json:"threshold"`
	OutputDir  string     `json:"output_dir"`
	DryRun     bool       `json:"dry_run"`
	Total      int        `json:"total"`
	Exported   int        `json:"exported"`
	Failed     int        `json:"failed"`
}

// SuggestionResponse is the suggestion recorded for one note in a run.
type SuggestionResponse struct {
	NoteID       string  `json:"note_id"`
	Title        string  `json:"title"`
	Folder       string  `json:"folder"`
	Confidence   float64 `json:"confidence"`
	Accepted     bool    `json:"accepted"`
	SourceFolder string  `json:"source_folder,omitempty"`
	Path         string  `json:"path,omitempty"`
}

// RunDetailResponse is a run with its suggestions.
type RunDetailResponse struct {
	RunResponse
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// List handles GET /api/runs?limit=.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			logger.WarnContext(ctx, "invalid limit", "limit", raw)
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxRunsLimit)
	}

	runs, err := h.exportService.Runs(ctx, limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list runs")
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run))
	}
	writeJSON(w, ctx, http.StatusOK, resp)
}

// Get handles GET /api/runs/{id}.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "run id is required")
		return
	}

	detail, err := h.exportService.Run(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get run")
		return
	}

	resp := RunDetailResponse{
		RunResponse: toRunResponse(detail.Run),
		Suggestions: make([]SuggestionResponse, 0, len(detail.Suggestions)),
	}
	for _, s := range detail.Suggestions {
		resp.Suggestions = append(resp.Suggestions, SuggestionResponse{
			NoteID:       s.NoteID,
			Title:        s.Title,
			Folder:       s.Folder,
			Confidence:   s.Confidence,
			Accepted:     s.Accepted,
			SourceFolder: s.SourceFolder,
			Path:         s.Path,
		})
	}
	writeJSON(w, ctx, http.StatusOK, resp)
}

func toRunResponse(run storage.RunRecord) RunResponse {
	resp := RunResponse{
		ID:        run.ID,
		StartedAt: run.StartedAt,
		Status:    run.Status,
		Format:    run.Format,
		Threshold: run.Threshold,
		OutputDir: run.OutputDir,
		DryRun:    run.DryRun,
		Total:     run.Total,
		Exported:  run.Exported,
		Failed:    run.Failed,
	}
	if !run.FinishedAt.IsZero() {
		finished := run.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}
