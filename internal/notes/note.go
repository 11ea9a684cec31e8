package notes

import "time"

// Note is a single note as read from the host notes application.
// Notes are read once per export run and never mutated.
type Note struct {
	ID           string    // Stable identifier assigned by the source
	Title        string    // Note title
	BodyHTML     string    // Raw HTML body
	SourceFolder string    // Folder in the host application, empty if unknown
	ModifiedAt   time.Time // Last modification time, zero if unknown
}

// DisplayTitle returns the title, or a placeholder for untitled notes.
func (n Note) DisplayTitle() string {
	if n.Title == "" {
		return "Untitled"
	}
	return n.Title
}
