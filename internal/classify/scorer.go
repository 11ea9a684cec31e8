package classify

import (
	"sort"

	"notes-organizer/internal/taxonomy"
)

// Candidate is one folder's confidence for a note.
type Candidate struct {
	Folder          string   `json:"folder"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// Score ranks every taxonomy folder against a FeatureSet.
//
// For each entry the raw score is the sum of weight × count over its keywords.
// Confidence is the raw score divided by the entry's maximum score (the sum
// of its weights), clamped to 1. Folders with no match are kept at confidence 0.
// The result is sorted by confidence descending, then folder name ascending.
func Score(fs FeatureSet, tax taxonomy.Taxonomy) []Candidate {
	entries := tax.Entries()
	candidates := make([]Candidate, 0, len(entries))

	for _, entry := range entries {
		var raw float64
		matched := []string{}
		for _, kw := range entry.Keywords {
			count := fs.Count(kw.Term)
			if count == 0 {
				continue
			}
			raw += kw.Weight * float64(count)
			matched = append(matched, kw.Term)
		}

		confidence := 0.0
		if maxScore := entry.MaxScore(); maxScore > 0 {
			confidence = raw / maxScore
		}
		if confidence > 1 {
			confidence = 1
		}

		candidates = append(candidates, Candidate{
			Folder:          entry.Folder,
			Confidence:      confidence,
			MatchedKeywords: matched,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Folder < candidates[j].Folder
	})

	return candidates
}
