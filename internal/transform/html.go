package transform

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NormalizeHTML parses body as a fragment of a <body> element and renders it
// back, which closes unclosed elements, drops stray closing tags and fixes
// misnested markup. Text and element semantics are left unchanged.
// If the body cannot be parsed it is returned as is.
func NormalizeHTML(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(body), context)
	if err != nil {
		return body
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return body
		}
	}
	return strings.TrimSpace(b.String())
}
