package handlers

import (
	"net/http"

	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/service"
)

// AssessHandler summarizes folder suggestions.
type AssessHandler struct {
	exportService service.ExportService
}

// NewAssessHandler creates a new AssessHandler.
func NewAssessHandler(exportService service.ExportService) *AssessHandler {
	return &AssessHandler{exportService: exportService}
}

// ServeHTTP handles GET /api/assess.
func (h *AssessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	assessment, err := h.exportService.Assess(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to assess notes")
		return
	}

	writeJSON(w, ctx, http.StatusOK, assessment)
}
