package handlers

import (
	"net/http"
	"time"

	"notes-organizer/internal/classify"
	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/service"
)

// NotesHandler lists notes with their folder suggestions.
type NotesHandler struct {
	exportService service.ExportService
}

// NewNotesHandler creates a new NotesHandler.
func NewNotesHandler(exportService service.ExportService) *NotesHandler {
	return &NotesHandler{exportService: exportService}
}

// NoteResponse is one note with its suggestion.
type NoteResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Folder          string               `json:"folder"`
	ModifiedAt      *time.Time           `json:"modified_at,omitempty"`
	SuggestedFolder string               `json:"suggested_folder"`
	Confidence      float64              `json:"confidence"`
	Accepted        bool                 `json:"accepted"`
	Reason          string               `json:"reason"`
	Candidates      []classify.Candidate `json:"candidates"`
}

// FailureResponse is a note that could not be processed.
type FailureResponse struct {
	NoteID string `json:"note_id"`
	Title  string `json:"title"`
	Error  string `json:"error"`
}

// NotesResponse is the response of GET /api/notes.
type NotesResponse struct {
	Notes    []NoteResponse    `json:"notes"`
	Folders  []string          `json:"folders"`
	Failures []FailureResponse `json:"failures,omitempty"`
}

// ServeHTTP handles GET /api/notes.
func (h *NotesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	preview, err := h.exportService.Preview(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list notes")
		return
	}

	resp := NotesResponse{
		Notes:    make([]NoteResponse, 0, len(preview.Notes)),
		Folders:  preview.SourceFolders,
		Failures: toFailureResponses(preview.Failures),
	}
	if resp.Folders == nil {
		resp.Folders = []string{}
	}
	for _, n := range preview.Notes {
		note := NoteResponse{
			ID:              n.ID,
			Title:           n.Title,
			Folder:          n.SourceFolder,
			SuggestedFolder: n.Suggestion.Folder,
			Confidence:      n.Suggestion.Confidence,
			Accepted:        n.Suggestion.Accepted,
			Reason:          n.Reason,
			Candidates:      n.Candidates,
		}
		if !n.ModifiedAt.IsZero() {
			modified := n.ModifiedAt
			note.ModifiedAt = &modified
		}
		resp.Notes = append(resp.Notes, note)
	}

	writeJSON(w, ctx, http.StatusOK, resp)
}

func toFailureResponses(failures []service.FailureView) []FailureResponse {
	if len(failures) == 0 {
		return nil
	}
	out := make([]FailureResponse, 0, len(failures))
	for _, f := range failures {
		out = append(out, FailureResponse{NoteID: f.NoteID, Title: f.Title, Error: f.Error})
	}
	return out
}
