// Package tokenize splits text into the normalized words used for keyword matching.
// Note content and taxonomy keywords both go through Words, so a keyword can only
// match what the tokenizer can produce.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLength is the minimum token length in runes.
const MinLength = 2

var stopwords = map[string]struct{}{
	// articles and conjunctions
	"an": {}, "and": {}, "the": {}, "or": {}, "but": {}, "nor": {}, "so": {}, "yet": {},
	// prepositions
	"at": {}, "by": {}, "for": {}, "from": {}, "in": {}, "into": {}, "of": {}, "on": {},
	"to": {}, "with": {}, "about": {}, "as": {}, "up": {}, "out": {}, "off": {}, "over": {},
	// pronouns
	"he": {}, "she": {}, "it": {}, "its": {}, "we": {}, "they": {}, "me": {}, "him": {},
	"her": {}, "us": {}, "them": {}, "my": {}, "your": {}, "his": {}, "our": {}, "their": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "you": {}, "what": {}, "which": {},
	"who": {}, "whom": {},
	// common verbs
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {}, "am": {},
	"do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {}, "can": {},
	"will": {}, "would": {}, "should": {}, "could": {}, "may": {}, "might": {}, "must": {},
	"get": {}, "got": {}, "make": {}, "made": {},
	// misc
	"not": {}, "no": {}, "if": {}, "then": {}, "than": {}, "too": {}, "very": {}, "just": {},
	"also": {}, "all": {}, "any": {}, "some": {},
}

// Words lower-cases text, splits it on non-alphanumeric runes and drops
// tokens shorter than MinLength and stop words.
func Words(text string) []string {
	if text == "" {
		return nil
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	words := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < MinLength || IsStopword(f) {
			continue
		}
		words = append(words, f)
	}
	if len(words) == 0 {
		return nil
	}
	return words
}

// IsStopword reports whether word is dropped by Words.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

// Term normalizes a keyword or phrase into space-separated words.
// It returns false when nothing matchable is left.
func Term(term string) (string, bool) {
	words := Words(term)
	if len(words) == 0 {
		return "", false
	}
	return strings.Join(words, " "), true
}
