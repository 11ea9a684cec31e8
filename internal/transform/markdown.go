package transform

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// inlineMarkers maps inline elements to their markdown delimiters.
var inlineMarkers = map[string]string{
	"b":      "**",
	"strong": "**",
	"i":      "*",
	"em":     "*",
	"s":      "~~",
	"strike": "~~",
	"del":    "~~",
	"code":   "`",
}

// blockElements start and end a markdown block (blank-line separated).
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true,
	"footer": true, "table": true, "figure": true, "dl": true,
}

type breakKind int

const (
	breakNone breakKind = iota
	breakLine
	breakBlock
)

type listFrame struct {
	ordered bool
	count   int
	base    string // indentation of this list's item markers
	child   string // indentation of content nested under the current item
}

type openElement struct {
	name   string
	opener string
	closer string
	inline bool
	opened bool // opener written on the current line
}

// mdWriter renders a token stream into markdown lines.
type mdWriter struct {
	out     strings.Builder
	line    strings.Builder
	pending breakKind

	prefix string // list marker waiting for the first content on the line

	stack      []openElement
	lists      []listFrame
	quoteDepth int
	skipDepth  int

	pre strings.Builder
	inPre int
}

// ToMarkdown converts an HTML body into markdown.
//
// Mapping: b/strong → **, i/em → *, s/del → ~~, code → `, a[href] → [text](href),
// h1-h6 → # headings, ul/ol items → "- " / "N. " lines, blockquote → "> ",
// pre → fenced code, hr → ---, img → ![alt](src), p/div/br → blank-line separated
// blocks. Unmapped tags are dropped and their text kept. Markdown syntax
// characters in the text are backslash-escaped, and inline spans that cross a
// block break are closed before it and reopened after it.
func ToMarkdown(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	w := &mdWriter{}
	z := html.NewTokenizer(strings.NewReader(body))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return w.finish()

		case html.TextToken:
			if w.skipDepth > 0 {
				continue
			}
			if w.inPre > 0 {
				w.pre.Write(z.Text())
				continue
			}
			w.text(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenName(z)
			attrs := tokenAttrs(z, hasAttr)
			if w.skipDepth > 0 {
				if skippedElements[name] && tt == html.StartTagToken {
					w.skipDepth++
				}
				continue
			}
			w.open(name, attrs, tt == html.SelfClosingTagToken)

		case html.EndTagToken:
			name, _ := tokenName(z)
			if w.skipDepth > 0 {
				if skippedElements[name] {
					w.skipDepth--
				}
				continue
			}
			w.close(name)
		}
	}
}

func (w *mdWriter) open(name string, attrs map[string]string, selfClosing bool) {
	if skippedElements[name] {
		if !selfClosing {
			w.skipDepth++
		}
		return
	}

	if w.inPre > 0 {
		switch name {
		case "br":
			w.pre.WriteByte('\n')
		case "pre":
			w.inPre++
			w.push(name)
		default:
			if !voidElements[name] && !selfClosing {
				w.push(name)
			}
		}
		return
	}

	switch {
	case name == "br":
		w.breakLine(breakBlock)
		return
	case name == "hr":
		w.breakLine(breakBlock)
		w.emitLine("---")
		w.breakLine(breakBlock)
		return
	case name == "img":
		if alt, src := attrs["alt"], attrs["src"]; src != "" {
			w.write("!["+escapeInline(alt)+"]("+linkDestination(src)+")", false)
		} else if alt != "" {
			w.text(alt)
		}
		return
	case voidElements[name] || selfClosing:
		return
	}

	switch {
	case inlineMarkers[name] != "":
		marker := inlineMarkers[name]
		w.pushInline(name, marker, marker)

	case name == "a":
		href := strings.TrimSpace(attrs["href"])
		if href == "" {
			w.push(name)
			return
		}
		w.pushInline(name, "[", "]("+linkDestination(href)+")")

	case isHeading(name):
		w.breakLine(breakBlock)
		level := int(name[1] - '0')
		w.prefix = strings.Repeat("#", level) + " "
		w.push(name)

	case name == "ul" || name == "ol":
		if len(w.lists) > 0 {
			w.breakLine(breakLine)
		} else {
			w.breakLine(breakBlock)
		}
		base := ""
		if n := len(w.lists); n > 0 {
			base = w.lists[n-1].child
		}
		w.lists = append(w.lists, listFrame{ordered: name == "ol", base: base, child: base + "  "})
		w.push(name)

	case name == "li":
		w.closeOpenItem()
		w.breakLine(breakLine)
		marker := "- "
		base := ""
		if n := len(w.lists); n > 0 {
			frame := &w.lists[n-1]
			frame.count++
			if frame.ordered {
				marker = strconv.Itoa(frame.count) + ". "
			}
			base = frame.base
			frame.child = base + strings.Repeat(" ", len(marker))
		}
		w.prefix = base + marker
		w.push(name)

	case name == "blockquote":
		w.breakLine(breakBlock)
		w.quoteDepth++
		w.push(name)

	case name == "pre":
		w.breakLine(breakBlock)
		w.inPre++
		w.pre.Reset()
		w.push(name)

	case name == "p":
		w.closeOpen("p", blockElements)
		w.breakLine(breakBlock)
		w.push(name)

	case blockElements[name]:
		w.breakLine(breakBlock)
		w.push(name)

	case name == "tr":
		w.breakLine(breakLine)
		w.push(name)

	case name == "td" || name == "th":
		w.text(" ")
		w.push(name)

	default:
		w.push(name)
	}
}

func (w *mdWriter) close(name string) {
	idx := -1
	for i := len(w.stack) - 1; i >= 0; i-- {
		if w.stack[i].name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Unmatched closing tag.
		return
	}
	for len(w.stack) > idx {
		w.pop()
	}
}

func (w *mdWriter) push(name string) {
	w.stack = append(w.stack, openElement{name: name})
}

// pushInline opens a span whose opener is written with its first text.
func (w *mdWriter) pushInline(name, opener, closer string) {
	w.stack = append(w.stack, openElement{name: name, opener: opener, closer: closer, inline: true})
}

// pop closes the innermost open element.
func (w *mdWriter) pop() {
	n := len(w.stack)
	if n == 0 {
		return
	}
	el := w.stack[n-1]
	w.stack = w.stack[:n-1]

	if el.name == "pre" {
		w.inPre--
		if w.inPre == 0 {
			w.flushPre()
		}
		return
	}
	if w.inPre > 0 {
		return
	}

	switch {
	case el.inline:
		if el.opened {
			w.appendCloser(el.closer)
		}
	case isHeading(el.name):
		w.prefix = ""
		w.breakLine(breakBlock)
	case el.name == "ul" || el.name == "ol":
		if len(w.lists) > 0 {
			w.lists = w.lists[:len(w.lists)-1]
		}
		if len(w.lists) > 0 {
			w.breakLine(breakLine)
		} else {
			w.breakLine(breakBlock)
		}
	case el.name == "li":
		w.breakLine(breakLine)
	case el.name == "blockquote":
		w.breakLine(breakBlock)
		if w.quoteDepth > 0 {
			w.quoteDepth--
		}
	case el.name == "p" || blockElements[el.name]:
		w.breakLine(breakBlock)
	case el.name == "tr":
		w.breakLine(breakLine)
	}
}

// appendCloser writes the closing delimiter of an inline span. Trailing spaces
// move outside the delimiter.
func (w *mdWriter) appendCloser(closer string) {
	if w.line.Len() == 0 {
		return
	}
	current := w.line.String()
	trimmed := strings.TrimRight(current, " ")
	w.line.Reset()
	w.line.WriteString(trimmed)
	w.line.WriteString(closer)
	if len(trimmed) < len(current) {
		w.line.WriteByte(' ')
	}
}

// suspendInline closes the spans open on the current line, innermost first.
// They reopen with the next text.
func (w *mdWriter) suspendInline() {
	for i := len(w.stack) - 1; i >= 0; i-- {
		if el := &w.stack[i]; el.inline && el.opened {
			w.appendCloser(el.closer)
			el.opened = false
		}
	}
}

// writeOpeners writes the openers of spans not yet open on the current line,
// outermost first, and reports whether any were written.
func (w *mdWriter) writeOpeners() bool {
	wrote := false
	for i := range w.stack {
		if el := &w.stack[i]; el.inline && !el.opened {
			w.line.WriteString(el.opener)
			el.opened = true
			wrote = true
		}
	}
	return wrote
}

func (w *mdWriter) inCode() bool {
	for _, el := range w.stack {
		if el.inline && el.name == "code" {
			return true
		}
	}
	return false
}

// closeOpenItem implicitly closes a previous <li> in the same list.
func (w *mdWriter) closeOpenItem() {
	for i := len(w.stack) - 1; i >= 0; i-- {
		switch w.stack[i].name {
		case "ul", "ol":
			return
		case "li":
			for len(w.stack) > i {
				w.pop()
			}
			return
		}
	}
}

// closeOpen implicitly closes an open element named name unless a boundary
// element is open inside it.
func (w *mdWriter) closeOpen(name string, boundary map[string]bool) {
	for i := len(w.stack) - 1; i >= 0; i-- {
		el := w.stack[i].name
		if el == name {
			for len(w.stack) > i {
				w.pop()
			}
			return
		}
		if boundary[el] || el == "li" || el == "blockquote" || el == "td" || el == "th" {
			return
		}
	}
}

func (w *mdWriter) text(s string) {
	w.write(s, !w.inCode())
}

// write appends s to the current line. With escape set, markdown syntax in s
// is escaped so it renders as literal text.
func (w *mdWriter) write(s string, escape bool) {
	s = collapseSpace(s)
	if s == "" {
		return
	}
	if strings.TrimSpace(s) == "" {
		// Whitespace only matters between words on the same line.
		if w.line.Len() > 0 && !strings.HasSuffix(w.line.String(), " ") {
			w.line.WriteByte(' ')
		}
		return
	}

	atStart := w.line.Len() == 0
	if atStart {
		s = strings.TrimLeft(s, " ")
		w.startLine()
	} else if strings.HasPrefix(s, " ") {
		if !strings.HasSuffix(w.line.String(), " ") {
			w.line.WriteByte(' ')
		}
		s = strings.TrimLeft(s, " ")
	}

	opened := w.writeOpeners()
	if escape {
		s = escapeInline(s)
		if atStart && !opened {
			s = escapeLineStart(s)
		}
	}
	w.line.WriteString(s)
}

// startLine writes separators and prefixes before the first content of a line.
func (w *mdWriter) startLine() {
	if w.out.Len() > 0 {
		switch w.pending {
		case breakBlock:
			w.out.WriteString("\n")
			if q := w.quotePrefix(); q != "" {
				w.out.WriteString(strings.TrimRight(q, " "))
			}
			w.out.WriteString("\n")
		default:
			w.out.WriteString("\n")
		}
	}
	w.pending = breakNone
	w.line.WriteString(w.quotePrefix())
	w.line.WriteString(w.prefix)
	w.prefix = ""
}

func (w *mdWriter) quotePrefix() string {
	return strings.Repeat("> ", w.quoteDepth)
}

// breakLine ends the current line and records the strongest break requested
// before the next content.
func (w *mdWriter) breakLine(kind breakKind) {
	w.flushLine()
	if kind > w.pending {
		w.pending = kind
	}
}

func (w *mdWriter) flushLine() {
	if w.line.Len() == 0 {
		return
	}
	w.suspendInline()
	line := strings.TrimRight(w.line.String(), " ")
	w.line.Reset()
	if strings.TrimSpace(line) == strings.TrimSpace(w.quotePrefix()) {
		return
	}
	w.out.WriteString(line)
}

// emitLine writes a complete line verbatim.
func (w *mdWriter) emitLine(s string) {
	w.flushLine()
	saved := w.prefix
	w.prefix = ""
	w.startLine()
	w.prefix = saved
	w.line.WriteString(s)
	w.flushLine()
}

func (w *mdWriter) flushPre() {
	code := strings.Trim(w.pre.String(), "\n")
	w.pre.Reset()
	w.breakLine(breakBlock)
	w.emitLine("```")
	if code != "" {
		for _, line := range strings.Split(code, "\n") {
			w.pending = breakLine
			w.emitLine(line)
		}
	}
	w.pending = breakLine
	w.emitLine("```")
	w.breakLine(breakBlock)
}

func (w *mdWriter) finish() string {
	// Unclosed elements are closed implicitly at end of input.
	for len(w.stack) > 0 {
		w.pop()
	}
	w.flushLine()
	return strings.TrimRight(w.out.String(), "\n ")
}

func isHeading(name string) bool {
	return len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6'
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

// escapeLineStart escapes a leading character that would otherwise start a
// heading, quote, list item, thematic break or fence.
func escapeLineStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '>', '-', '+', '=', '~':
		return `\` + s
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return s[:digits] + `\` + s[digits:]
	}
	return s
}

// linkDestination wraps destinations containing spaces, parentheses or angle
// brackets in <...>.
func linkDestination(href string) string {
	if !strings.ContainsAny(href, " ()<>") {
		return href
	}
	href = strings.NewReplacer("<", `\<`, ">", `\>`).Replace(href)
	return "<" + href + ">"
}
