package transform

import (
	"errors"
	"fmt"
	"strings"
)

// Format is an export output format.
type Format string

const (
	// Markdown renders the note body as CommonMark-style markdown.
	Markdown Format = "markdown"
	// Text renders the note body as plain text.
	Text Format = "text"
	// HTML renders the note body as normalized HTML.
	HTML Format = "html"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = Markdown

// ErrUnknownFormat is returned for formats outside markdown, text and html.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{Markdown, Text, HTML}
}

// ParseFormat parses a format name. It accepts the aliases "md", "txt" and "htm".
// An empty string yields DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultFormat, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt", "plain":
		return Text, nil
	case "html", "htm":
		return HTML, nil
	default:
		return "", fmt.Errorf("%w: %q (want one of markdown, text, html)", ErrUnknownFormat, s)
	}
}

// Validate returns ErrUnknownFormat if f is not a supported format.
func (f Format) Validate() error {
	switch f {
	case Markdown, Text, HTML:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case Text:
		return ".txt"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

func (f Format) String() string {
	return string(f)
}
