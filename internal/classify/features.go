package classify

import (
	"notes-organizer/internal/notes"
	"notes-organizer/internal/tokenize"
	"notes-organizer/internal/transform"
)

// TitleWeight is how many times a title token counts relative to a body token.
const TitleWeight = 2

// FeatureSet maps a normalized token to its weighted occurrence count.
type FeatureSet map[string]int

// Count returns the weighted occurrence count of term. A multi-word phrase
// counts as often as its rarest word, and not at all if any word is missing.
func (fs FeatureSet) Count(term string) int {
	if n, ok := fs[term]; ok {
		return n
	}
	words := tokenize.Words(term)
	if len(words) == 0 {
		return 0
	}
	if len(words) == 1 {
		return fs[words[0]]
	}
	count := fs[words[0]]
	for _, w := range words[1:] {
		count = min(count, fs[w])
	}
	return count
}

// Extract reduces a note's title and body to a FeatureSet.
// Title tokens count TitleWeight times. The body is stripped with the same
// tokenizer used for plain text export. Extract never fails; an empty note
// yields an empty FeatureSet.
func Extract(note notes.Note) FeatureSet {
	fs := make(FeatureSet)
	for _, token := range tokenize.Words(note.Title) {
		fs[token] += TitleWeight
	}
	for _, token := range tokenize.Words(transform.PlainText(note.BodyHTML)) {
		fs[token]++
	}
	return fs
}
