package transform

import (
	"strings"

	"golang.org/x/net/html"
)

// spaceElements are block-level elements whose boundaries collapse to a
// single space in plain text output, so adjacent words never fuse. Only p and
// br produce newlines.
var spaceElements = map[string]bool{
	"div": true, "li": true, "tr": true, "ul": true, "ol": true,
	"table": true, "td": true, "th": true, "blockquote": true,
	"section": true, "article": true, "header": true, "footer": true, "pre": true,
	"dl": true, "dt": true, "dd": true, "figure": true, "figcaption": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// PlainText strips all markup from body, decodes entities and normalizes whitespace.
// Paragraphs are separated by a blank line and <br> ends a line. Other
// block boundaries and whitespace runs become a single space.
func PlainText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	var raw strings.Builder
	raw.Grow(len(body))
	z := html.NewTokenizer(strings.NewReader(body))
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return normalizeLines(raw.String())

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			raw.WriteString(collapseSpace(string(z.Text())))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenName(z)
			if skippedElements[name] && tt == html.StartTagToken {
				skipDepth++
				continue
			}
			writeTextBoundary(&raw, name)

		case html.EndTagToken:
			name, _ := tokenName(z)
			if skippedElements[name] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			writeTextBoundary(&raw, name)
		}
	}
}

func writeTextBoundary(raw *strings.Builder, name string) {
	switch {
	case name == "p":
		raw.WriteString("\n\n")
	case name == "br":
		raw.WriteByte('\n')
	case spaceElements[name]:
		raw.WriteByte(' ')
	}
}

// normalizeLines trims every line, collapses spaces within lines and keeps at
// most one blank line between non-empty lines.
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
