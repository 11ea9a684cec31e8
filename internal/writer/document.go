package writer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"notes-organizer/internal/export"
	"notes-organizer/internal/transform"
)

const dateLayout = "2006-01-02 15:04"

type frontMatter struct {
	Title        string  `yaml:"title"`
	Folder       string  `yaml:"folder"`
	SourceFolder string  `yaml:"source_folder,omitempty"`
	Modified     string  `yaml:"modified,omitempty"`
	Exported     string  `yaml:"exported"`
	Confidence   float64 `yaml:"confidence"`
}

// Render builds the full document for item: a format-specific header
// followed by the item's body.
func Render(item export.Item, exportedAt time.Time) ([]byte, error) {
	modified := ""
	if !item.ModifiedAt.IsZero() {
		modified = item.ModifiedAt.Format(dateLayout)
	}
	exported := exportedAt.Format(dateLayout)

	var buf bytes.Buffer
	switch item.Format {
	case transform.Markdown:
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(frontMatter{
			Title:        item.Title,
			Folder:       item.Folder,
			SourceFolder: item.SourceFolder,
			Modified:     modified,
			Exported:     exported,
			Confidence:   item.Confidence,
		}); err != nil {
			return nil, fmt.Errorf("failed to encode front matter: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode front matter: %w", err)
		}
		buf.WriteString("---\n\n")
		fmt.Fprintf(&buf, "# %s\n\n", item.Title)

	case transform.Text:
		fmt.Fprintf(&buf, "%s\n", item.Title)
		fmt.Fprintf(&buf, "Folder: %s\n", item.Folder)
		if item.SourceFolder != "" {
			fmt.Fprintf(&buf, "Source folder: %s\n", item.SourceFolder)
		}
		if modified != "" {
			fmt.Fprintf(&buf, "Modified: %s\n", modified)
		}
		fmt.Fprintf(&buf, "Exported: %s\n\n", exported)

	case transform.HTML:
		fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(item.Title))
		fields := []string{"<strong>Folder:</strong> " + html.EscapeString(item.Folder)}
		if item.SourceFolder != "" {
			fields = append(fields, "<strong>Source folder:</strong> "+html.EscapeString(item.SourceFolder))
		}
		if modified != "" {
			fields = append(fields, "<strong>Modified:</strong> "+modified)
		}
		fields = append(fields, "<strong>Exported:</strong> "+exported)
		fmt.Fprintf(&buf, "<p>%s</p>\n", strings.Join(fields, "<br/>"))

	default:
		return nil, item.Format.Validate()
	}

	buf.WriteString(item.Body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
