// Package transform converts HTML note bodies into export formats.
//
// All conversions are best effort: malformed markup never produces an error,
// unmatched closing tags are ignored and unclosed tags are closed at the end
// of input. Text content is never dropped, only markup.
package transform

import (
	"strings"

	"golang.org/x/net/html"
)

// Transform converts body into the requested format.
// The only error it returns is ErrUnknownFormat.
func Transform(body string, f Format) (string, error) {
	switch f {
	case Markdown:
		return ToMarkdown(body), nil
	case Text:
		return PlainText(body), nil
	case HTML:
		return NormalizeHTML(body), nil
	default:
		return "", f.Validate()
	}
}

// skippedElements hold content that is never part of the note's text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"title":    true,
	"noscript": true,
	"template": true,
}

// voidElements never have content or closing tags.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// collapseSpace replaces every whitespace run with a single space,
// keeping a leading or trailing space if the input had one.
func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	var b strings.Builder
	b.Grow(len(s))
	if isSpaceByte(s, 0) {
		b.WriteByte(' ')
	}
	b.WriteString(strings.Join(fields, " "))
	if isSpaceByte(s, len(s)-1) {
		b.WriteByte(' ')
	}
	return b.String()
}

func isSpaceByte(s string, i int) bool {
	switch s[i] {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	// Non-breaking space (U+00A0) is encoded as 0xC2 0xA0.
	if s[i] == 0xA0 && i > 0 && s[i-1] == 0xC2 {
		return true
	}
	if s[i] == 0xC2 && i+1 < len(s) && s[i+1] == 0xA0 {
		return true
	}
	return false
}

// tokenName returns the lower-cased tag name of the current token.
func tokenName(z *html.Tokenizer) (string, bool) {
	name, hasAttr := z.TagName()
	return string(name), hasAttr
}

// tokenAttrs reads all attributes of the current tag token.
func tokenAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	if !hasAttr {
		return nil
	}
	attrs := make(map[string]string)
	for {
		key, val, more := z.TagAttr()
		attrs[string(key)] = string(val)
		if !more {
			break
		}
	}
	return attrs
}
