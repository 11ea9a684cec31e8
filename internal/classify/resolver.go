package classify

import (
	"fmt"
	"math"

	"notes-organizer/internal/notes"
	"notes-organizer/internal/taxonomy"
)

// Uncategorized is the destination for notes without a confident suggestion.
const Uncategorized = taxonomy.Uncategorized

// DefaultThreshold is the default minimum confidence for accepting a suggestion.
const DefaultThreshold = 0.35

// Suggestion is the resolved destination folder for one note.
type Suggestion struct {
	NoteID     string  `json:"note_id"`
	Folder     string  `json:"folder"`
	Confidence float64 `json:"confidence"`
	Accepted   bool    `json:"accepted"`
}

// Reason returns a short human-readable explanation of the suggestion.
func (s Suggestion) Reason(ranked []Candidate) string {
	if !s.Accepted {
		if len(ranked) == 0 || ranked[0].Confidence == 0 {
			return "No keyword match"
		}
		return fmt.Sprintf("Best match %s (%.2f) is below the acceptance threshold", ranked[0].Folder, ranked[0].Confidence)
	}
	for _, c := range ranked {
		if c.Folder == s.Folder {
			return fmt.Sprintf("Matched %d keyword(s) for %s", len(c.MatchedKeywords), s.Folder)
		}
	}
	return fmt.Sprintf("Assigned to %s", s.Folder)
}

// Resolve picks the top-ranked candidate if its confidence reaches threshold,
// otherwise Uncategorized. The top candidate's confidence is kept either way.
func Resolve(noteID string, ranked []Candidate, threshold float64) Suggestion {
	if len(ranked) == 0 {
		return Suggestion{NoteID: noteID, Folder: Uncategorized}
	}

	top := ranked[0]
	if top.Confidence > 0 && top.Confidence >= threshold {
		return Suggestion{
			NoteID:     noteID,
			Folder:     top.Folder,
			Confidence: top.Confidence,
			Accepted:   true,
		}
	}

	return Suggestion{
		NoteID:     noteID,
		Folder:     Uncategorized,
		Confidence: top.Confidence,
	}
}

// ValidateThreshold returns an error if threshold is outside [0, 1].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("acceptance threshold must be within [0, 1], got %v", threshold)
	}
	return nil
}

// Classifier scores and resolves notes against one run's taxonomy and threshold.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	taxonomy  taxonomy.Taxonomy
	threshold float64
}

// NewClassifier creates a Classifier. It fails if threshold is outside [0, 1].
func NewClassifier(tax taxonomy.Taxonomy, threshold float64) (*Classifier, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	return &Classifier{taxonomy: tax, threshold: threshold}, nil
}

// Taxonomy returns the classifier's taxonomy.
func (c *Classifier) Taxonomy() taxonomy.Taxonomy {
	return c.taxonomy
}

// Threshold returns the acceptance threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify extracts features from note, scores them and resolves a suggestion.
// The full ranking is returned for explainability.
func (c *Classifier) Classify(note notes.Note) (Suggestion, []Candidate) {
	ranked := Score(Extract(note), c.taxonomy)
	return Resolve(note.ID, ranked, c.threshold), ranked
}
