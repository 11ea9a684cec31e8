package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notes-organizer/internal/handlers"
	"notes-organizer/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ExportService service.ExportService
	DB            handlers.Pinger // nil when run history is disabled
	IndexHTML     string          // Embedded HTML content
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	// Add CORS middleware
	r.Use(CORS)

	notesHandler := handlers.NewNotesHandler(deps.ExportService)
	previewHandler := handlers.NewPreviewHandler(deps.ExportService)
	assessHandler := handlers.NewAssessHandler(deps.ExportService)
	exportHandler := handlers.NewExportHandler(deps.ExportService)
	runsHandler := handlers.NewRunsHandler(deps.ExportService)
	healthHandler := handlers.NewHealthHandler(deps.DB)
	noteHandler := handlers.NewNoteHandler(deps.ExportService)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/notes", notesHandler)
		r.Method(http.MethodGet, "/notes/{id}/preview", previewHandler)
		r.Method(http.MethodGet, "/assess", assessHandler)
		r.Method(http.MethodPost, "/export", exportHandler)
		r.Get("/runs", runsHandler.List)
		r.Get("/runs/{id}", runsHandler.Get)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	// Rendered note pages
	r.Method(http.MethodGet, "/notes/{id}", noteHandler)

	// Serve HTML page at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(deps.IndexHTML))
	})

	return r
}
