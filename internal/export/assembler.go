// Package export classifies and transforms batches of notes into export items.
package export

import (
	"time"

	"notes-organizer/internal/classify"
	"notes-organizer/internal/notes"
	"notes-organizer/internal/transform"
)

// Item is one note ready to be written to its destination folder.
type Item struct {
	NoteID       string           `json:"note_id"`
	Folder       string           `json:"folder"`
	Body         string           `json:"body"`
	Format       transform.Format `json:"format"`
	Title        string           `json:"title"`
	SourceFolder string           `json:"source_folder,omitempty"`
	ModifiedAt   time.Time        `json:"modified_at,omitzero"`
	Confidence   float64          `json:"confidence"`
}

// Assemble pairs a note with its suggestion and formatted body.
// Item.Folder is always the suggestion's folder.
func Assemble(note notes.Note, suggestion classify.Suggestion, body string, format transform.Format) Item {
	return Item{
		NoteID:       note.ID,
		Folder:       suggestion.Folder,
		Body:         body,
		Format:       format,
		Title:        note.DisplayTitle(),
		SourceFolder: note.SourceFolder,
		ModifiedAt:   note.ModifiedAt,
		Confidence:   suggestion.Confidence,
	}
}
