package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/service"
	"notes-organizer/internal/transform"
)

// PreviewHandler renders one note in an export format.
type PreviewHandler struct {
	exportService service.ExportService
	markdown      goldmark.Markdown
}

// NewPreviewHandler creates a new PreviewHandler.
func NewPreviewHandler(exportService service.ExportService) *PreviewHandler {
	return &PreviewHandler{
		exportService: exportService,
		markdown:      newMarkdownParser(),
	}
}

// PreviewResponse is the response of GET /api/notes/{id}/preview.
type PreviewResponse struct {
	NoteID     string  `json:"note_id"`
	Title      string  `json:"title"`
	Folder     string  `json:"folder"`
	Confidence float64 `json:"confidence"`
	Format     string  `json:"format"`
	Body       string  `json:"body"`
	// HTML is a browser-ready rendering of Body for markdown and html formats.
	HTML string `json:"html,omitempty"`
}

// ServeHTTP handles GET /api/notes/{id}/preview?format=.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	noteID, err := url.PathUnescape(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil || noteID == "" {
		writeError(w, http.StatusBadRequest, "Invalid note id")
		return
	}

	preview, err := h.exportService.PreviewNote(ctx, noteID, r.URL.Query().Get("format"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to preview note")
		return
	}

	resp := PreviewResponse{
		NoteID:     preview.NoteID,
		Title:      preview.Title,
		Folder:     preview.Folder,
		Confidence: preview.Confidence,
		Format:     preview.Format.String(),
		Body:       preview.Body,
	}

	if preview.Format != transform.Text {
		rendered, err := renderBody(h.markdown, preview.Format, preview.Body)
		if err != nil {
			logger.ErrorContext(ctx, "failed to render markdown", "note_id", noteID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render note")
			return
		}
		resp.HTML = rendered
	}

	writeJSON(w, ctx, http.StatusOK, resp)
}
