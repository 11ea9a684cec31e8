package notesource

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"notes-organizer/internal/notes"
)

// DirectorySource reads notes from files under Root, such as an earlier export
// or notes saved from another application. Each .html, .htm, .md, .markdown or
// .txt file is one note; its parent directory relative to Root is the source folder.
type DirectorySource struct {
	Root string
	// Exclude holds doublestar patterns, such as "Archive/**", matched against
	// slash-separated paths relative to Root.
	Exclude []string
}

// ValidatePatterns reports the first malformed exclude pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

func (s *DirectorySource) excluded(relPath string) bool {
	for _, p := range s.Exclude {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}

// Fetch walks Root and returns one note per supported file, in walk order.
func (s *DirectorySource) Fetch(ctx context.Context) ([]notes.Note, error) {
	root := filepath.Clean(s.Root)
	if err := ValidatePatterns(s.Exclude); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotesUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotesUnavailable, root)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var result []notes.Note
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path == root {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			// Hidden directories hold application state, not notes
			if strings.HasPrefix(d.Name(), ".") || s.excluded(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isNoteFile(ext) || strings.HasPrefix(d.Name(), exportTempPrefix) || s.excluded(relPath) {
			return nil
		}

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read note %s: %w", relPath, err)
		}
		body, err := toHTML(md, ext, data)
		if err != nil {
			return fmt.Errorf("failed to convert note %s: %w", relPath, err)
		}

		fileInfo, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat note %s: %w", relPath, err)
		}

		result = append(result, notes.Note{
			ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte("file:"+relPath)).String(),
			Title:        strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath)),
			BodyHTML:     body,
			SourceFolder: folder,
			ModifiedAt:   fileInfo.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// exportTempPrefix marks partially written export files, which are never read back.
const exportTempPrefix = ".notes-export-tmp-"

func isNoteFile(ext string) bool {
	switch ext {
	case ".html", ".htm", ".md", ".markdown", ".txt":
		return true
	default:
		return false
	}
}

// toHTML converts a file body to the HTML form notes carry.
func toHTML(md goldmark.Markdown, ext string, data []byte) (string, error) {
	switch ext {
	case ".md", ".markdown":
		var buf bytes.Buffer
		if err := md.Convert(stripFrontMatter(data), &buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	case ".txt":
		return textToHTML(string(data)), nil
	default:
		return string(data), nil
	}
}

// stripFrontMatter drops a leading YAML front matter block.
func stripFrontMatter(data []byte) []byte {
	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return data
	}
	rest := data[len(delim):]
	end := bytes.Index(rest, []byte("\n"+delim))
	if end < 0 {
		return data
	}
	return rest[end+len("\n"+delim):]
}

// textToHTML turns blank-line separated paragraphs into <p> elements.
func textToHTML(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
