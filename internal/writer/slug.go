package writer

import (
	"regexp"
	"strings"
)

var (
	slugInvalid    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\-\s]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// Slugify converts a folder name or title into a file system friendly name.
// It keeps lower-cased letters and digits from any script plus hyphens, and
// turns whitespace runs into a single hyphen. A blank value becomes
// "untitled". A value made only of punctuation becomes "untitled-" plus a
// short hash of the value, so distinct names never share a slug.
func Slugify(value string) string {
	trimmed := strings.TrimSpace(value)
	slug := strings.ToLower(trimmed)
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(strings.TrimSpace(slug), "-")
	switch {
	case slug != "":
		return slug
	case trimmed == "":
		return "untitled"
	default:
		return "untitled-" + shortID(trimmed)
	}
}
