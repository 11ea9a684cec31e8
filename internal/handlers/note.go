package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/service"
	"notes-organizer/internal/transform"
)

// NoteHandler serves an exported note as a rendered HTML page.
type NoteHandler struct {
	exportService service.ExportService
	parser        goldmark.Markdown
	template      *template.Template
}

// notePageData holds template data for rendered note pages.
type notePageData struct {
	Title      string
	Folder     string
	Confidence float64
	Format     string
	Content    template.HTML
}

// newMarkdownParser returns the goldmark instance used to render markdown exports.
func newMarkdownParser() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.TaskList,
			extension.Strikethrough,
			extension.Linkify,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			ghhtml.WithUnsafe(),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// NewNoteHandler creates a new handler for serving exported note pages.
func NewNoteHandler(exportService service.ExportService) *NoteHandler {
	tmpl := template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} - {{.Folder}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    article {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
      box-shadow: 0 15px 35px rgba(2, 6, 23, 0.8);
    }
    article h2, article h3, article h4 {
      color: #c7d2fe;
      margin-top: 1.5rem;
    }
    article p {
      color: #cbd5f5;
    }
    pre {
      background: #0f172a;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.2);
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
      background: rgba(99, 102, 241, 0.18);
      padding: 2px 5px;
      border-radius: 6px;
      color: #cbd5ff;
    }
    pre.plain {
      white-space: pre-wrap;
      color: #cbd5f5;
    }
    pre code {
      background: transparent;
      padding: 0;
    }
    blockquote {
      border-left: 4px solid rgba(96, 165, 250, 0.6);
      padding-left: 1rem;
      margin-left: 0;
      color: #93c5fd;
      background: rgba(59, 130, 246, 0.08);
      border-radius: 6px;
    }
    a {
      color: #60a5fa;
      text-decoration: none;
    }
    a:hover {
      text-decoration: underline;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
      article {
        padding: 1.25rem;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Folder: {{.Folder}} &middot; Confidence: {{printf "%.2f" .Confidence}} &middot; Format: {{.Format}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &NoteHandler{
		exportService: exportService,
		parser:        newMarkdownParser(),
		template:      tmpl,
	}
}

// ServeHTTP renders the requested note, as it would be exported, as HTML.
func (h *NoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	noteID, err := url.PathUnescape(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}
	if noteID == "" {
		http.Error(w, "note id is required", http.StatusBadRequest)
		return
	}

	preview, err := h.exportService.PreviewNote(ctx, noteID, r.URL.Query().Get("format"))
	if err != nil {
		logger.WarnContext(ctx, "failed to preview note", "note_id", noteID, "error", err)
		status, message := pageStatus(err)
		http.Error(w, message, status)
		return
	}

	content, err := renderBody(h.parser, preview.Format, preview.Body)
	if err != nil {
		logger.ErrorContext(ctx, "failed to render note body", "note_id", noteID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	pageData := notePageData{
		Title:      preview.Title,
		Folder:     preview.Folder,
		Confidence: preview.Confidence,
		Format:     preview.Format.String(),
		Content:    template.HTML(content),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, pageData); err != nil {
		logger.ErrorContext(ctx, "failed to execute note template", "note_id", noteID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}
}

// renderBody converts an exported body into HTML for display.
func renderBody(md goldmark.Markdown, format transform.Format, body string) (string, error) {
	switch format {
	case transform.Markdown:
		return renderMarkdown(md, []byte(body))
	case transform.HTML:
		return body, nil
	default:
		return `<pre class="plain">` + template.HTMLEscapeString(body) + `</pre>`, nil
	}
}

func renderMarkdown(md goldmark.Markdown, content []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func pageStatus(err error) (int, string) {
	switch {
	case isNotFound(err):
		return http.StatusNotFound, "note not found"
	case isInvalid(err):
		return http.StatusBadRequest, "invalid request"
	case isUnavailable(err):
		return http.StatusBadGateway, "notes application unavailable"
	default:
		return http.StatusInternalServerError, "failed to render note"
	}
}
