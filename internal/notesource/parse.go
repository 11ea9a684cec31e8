package notesource

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"notes-organizer/internal/notes"
)

const (
	recordSeparator = "\x1e"
	fieldSeparator  = "\x1f"
)

// timeLayouts are tried in order when parsing note timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Monday, 2 January 2006 at 15:04:05",
	"Monday, January 2, 2006 at 3:04:05 PM",
}

// Parse splits raw export output into notes. Blank records and records with
// fewer than four fields are skipped. Five-field records carry
// id, folder, title, modified, body; four-field records omit the id.
func Parse(raw string) []notes.Note {
	var parsed []notes.Note
	for _, record := range strings.Split(raw, recordSeparator) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.Split(record, fieldSeparator)

		var id, folder, title, modified, body string
		switch {
		case len(fields) >= 5:
			id, folder, title, modified = fields[0], fields[1], fields[2], fields[3]
			body = strings.Join(fields[4:], fieldSeparator)
		case len(fields) == 4:
			folder, title, modified, body = fields[0], fields[1], fields[2], fields[3]
		default:
			continue
		}

		folder = strings.TrimSpace(folder)
		title = strings.TrimSpace(title)
		modified = strings.TrimSpace(modified)

		id = strings.TrimSpace(id)
		if id == "" {
			id = deriveID(folder, title, modified)
		}

		parsed = append(parsed, notes.Note{
			ID:           id,
			Title:        title,
			BodyHTML:     strings.TrimSpace(body),
			SourceFolder: folder,
			ModifiedAt:   parseTime(modified),
		})
	}
	return parsed
}

// deriveID returns a stable id for notes the host did not identify.
func deriveID(folder, title, modified string) string {
	name := strings.Join([]string{folder, title, modified}, fieldSeparator)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// parseTime parses s with the known layouts, returning the zero time if none match.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
