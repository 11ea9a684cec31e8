package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"notes-organizer/internal/tokenize"
)

// Uncategorized is the folder used when no taxonomy entry is confident enough.
// It is reserved and cannot be used as a taxonomy folder name.
const Uncategorized = "Uncategorized"

var (
	// ErrInvalidTaxonomy is returned when taxonomy entries fail validation.
	ErrInvalidTaxonomy = errors.New("invalid taxonomy")
)

// Keyword is a weighted term that signals membership in a folder.
type Keyword struct {
	Term   string  `yaml:"term" json:"term"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Entry is a candidate destination folder with its keyword profile.
type Entry struct {
	Folder   string
	Keywords []Keyword
}

// MaxScore returns the sum of all keyword weights, the highest raw score
// a note can reach for this entry when every keyword occurs once.
func (e Entry) MaxScore() float64 {
	var total float64
	for _, kw := range e.Keywords {
		total += kw.Weight
	}
	return total
}

// Taxonomy is the ordered, read-only set of candidate folders for one run.
// It is safe for concurrent use since it is never mutated after construction.
type Taxonomy struct {
	entries []Entry
	index   map[string]int
}

// New validates entries and builds a Taxonomy.
// Keyword terms are normalized with the note tokenizer (lower-cased, split into
// words, short words and stop words dropped) and sorted so scoring is deterministic.
// A term with no word left can never match and is rejected.
// An empty entry list is valid and produces an empty taxonomy.
func New(entries []Entry) (Taxonomy, error) {
	t := Taxonomy{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for i, entry := range entries {
		name := strings.TrimSpace(entry.Folder)
		if name == "" {
			return Taxonomy{}, fmt.Errorf("%w: entry %d has an empty folder name", ErrInvalidTaxonomy, i)
		}
		if strings.EqualFold(name, Uncategorized) {
			return Taxonomy{}, fmt.Errorf("%w: folder name %q is reserved", ErrInvalidTaxonomy, name)
		}
		if _, dup := t.index[name]; dup {
			return Taxonomy{}, fmt.Errorf("%w: duplicate folder %q", ErrInvalidTaxonomy, name)
		}

		merged := make(map[string]float64, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			if strings.TrimSpace(kw.Term) == "" {
				return Taxonomy{}, fmt.Errorf("%w: folder %q has an empty keyword", ErrInvalidTaxonomy, name)
			}
			term, ok := tokenize.Term(kw.Term)
			if !ok {
				return Taxonomy{}, fmt.Errorf("%w: keyword %q in folder %q is a stop word or has no word of at least %d letters or digits",
					ErrInvalidTaxonomy, kw.Term, name, tokenize.MinLength)
			}
			if kw.Weight <= 0 {
				return Taxonomy{}, fmt.Errorf("%w: keyword %q in folder %q must have a positive weight", ErrInvalidTaxonomy, term, name)
			}
			merged[term] += kw.Weight
		}

		keywords := make([]Keyword, 0, len(merged))
		for term, weight := range merged {
			keywords = append(keywords, Keyword{Term: term, Weight: weight})
		}
		sort.Slice(keywords, func(a, b int) bool {
			return keywords[a].Term < keywords[b].Term
		})

		t.index[name] = len(t.entries)
		t.entries = append(t.entries, Entry{Folder: name, Keywords: keywords})
	}

	return t, nil
}

// MustNew is like New but panics on invalid input. It is meant for
// built-in tables and tests.
func MustNew(entries []Entry) Taxonomy {
	t, err := New(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Entries returns a copy of the entries in configuration order.
func (t Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of folders.
func (t Taxonomy) Len() int {
	return len(t.entries)
}

// Folders returns the folder names in configuration order.
func (t Taxonomy) Folders() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Folder
	}
	return names
}

// Lookup returns the entry for a folder name.
func (t Taxonomy) Lookup(folder string) (Entry, bool) {
	i, ok := t.index[folder]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// IsDestination reports whether folder is a valid export destination:
// a taxonomy folder or Uncategorized.
func (t Taxonomy) IsDestination(folder string) bool {
	if folder == Uncategorized {
		return true
	}
	_, ok := t.index[folder]
	return ok
}

// fileFormat is the on-disk YAML layout of a taxonomy file.
type fileFormat struct {
	Folders []struct {
		Name     string             `yaml:"name"`
		Keywords map[string]float64 `yaml:"keywords"`
	} `yaml:"folders"`
}

// Parse decodes a YAML taxonomy document.
//
//	folders:
//	  - name: Travel
//	    keywords: {trip: 3, flight: 2, hotel: 2}
func Parse(data []byte) (Taxonomy, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Taxonomy{}, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Folders))
	for _, f := range doc.Folders {
		entry := Entry{Folder: f.Name}
		for term, weight := range f.Keywords {
			entry.Keywords = append(entry.Keywords, Keyword{Term: term, Weight: weight})
		}
		entries = append(entries, entry)
	}

	return New(entries)
}

// Load reads a taxonomy from a YAML file. An empty path returns the built-in default.
func Load(path string) (Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	return Parse(data)
}
