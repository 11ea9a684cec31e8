package handlers

import (
	"encoding/json"
	"net/http"

	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/export"
	"notes-organizer/internal/service"
)

// ExportHandler handles HTTP requests for exporting notes.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportRequest represents the HTTP request payload for an export.
type ExportRequest struct {
	OutputDir string            `json:"output_dir"`
	Format    string            `json:"format"`
	Overrides map[string]string `json:"overrides"`
	DryRun    bool              `json:"dry_run"`
}

// FolderCountResponse is the number of notes exported to one folder.
type FolderCountResponse struct {
	Folder string `json:"folder"`
	Count  int    `json:"count"`
}

// ExportResponse represents the HTTP response payload for an export.
type ExportResponse struct {
	RunID      string                `json:"run_id,omitempty"`
	Count      int                   `json:"count"`
	Total      int                   `json:"total"`
	OutputDir  string                `json:"output_dir"`
	Format     string                `json:"format"`
	DryRun     bool                  `json:"dry_run"`
	Folders    []FolderCountResponse `json:"folders"`
	Paths      []string              `json:"paths,omitempty"`
	Failures   []FailureResponse     `json:"failures,omitempty"`
	Assessment export.Assessment     `json:"assessment"`
	Sample     *export.Item          `json:"sample,omitempty"`
}

// ServeHTTP handles POST /api/export.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	summary, err := h.exportService.Export(ctx, service.ExportRequest{
		OutputDir: req.OutputDir,
		Format:    req.Format,
		Overrides: req.Overrides,
		DryRun:    req.DryRun,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to export notes")
		return
	}

	resp := ExportResponse{
		RunID:      summary.RunID,
		Count:      summary.Exported,
		Total:      summary.Total,
		OutputDir:  summary.OutputDir,
		Format:     summary.Format.String(),
		DryRun:     summary.DryRun,
		Folders:    make([]FolderCountResponse, 0, len(summary.Folders)),
		Paths:      summary.Paths,
		Failures:   toFailureResponses(summary.Failures),
		Assessment: summary.Assessment,
		Sample:     summary.Sample,
	}
	for _, f := range summary.Folders {
		resp.Folders = append(resp.Folders, FolderCountResponse{Folder: f.Folder, Count: f.Count})
	}

	logger.InfoContext(ctx, "export completed via API", "run_id", summary.RunID, "count", summary.Exported)
	writeJSON(w, ctx, http.StatusOK, resp)
}
