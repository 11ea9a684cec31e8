package notesource

import (
	"context"

	"notes-organizer/internal/notes"
)

// SampleSource returns a fixed set of demonstration notes.
type SampleSource struct{}

type sampleNote struct {
	folder, title, created, body string
}

var sampleNotes = []sampleNote{
	{
		folder:  "Inbox",
		title:   "Client meeting follow-up",
		created: "2024-11-02",
		body:    "<p>Send project timeline and updated budget to client.</p>\n<p>Schedule next meeting for Thursday.</p>",
	},
	{
		folder:  "Personal",
		title:   "Weekend meal prep ideas",
		created: "2024-11-01",
		body:    "<ul><li>Chicken bowls</li><li>Vegetarian chili</li></ul>",
	},
	{
		folder:  "Ideas",
		title:   "New product brainstorm",
		created: "2024-10-29",
		body:    "<p>Focus on onboarding UX and real-time insights.</p>",
	},
}

// Fetch returns the sample notes. Each call returns a fresh slice.
func (SampleSource) Fetch(ctx context.Context) ([]notes.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]notes.Note, 0, len(sampleNotes))
	for _, s := range sampleNotes {
		out = append(out, notes.Note{
			ID:           deriveID(s.folder, s.title, s.created),
			Title:        s.title,
			BodyHTML:     s.body,
			SourceFolder: s.folder,
			ModifiedAt:   parseTime(s.created),
		})
	}
	return out, nil
}
