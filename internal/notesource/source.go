// Package notesource reads notes from the host notes application or a directory of files.
package notesource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notes-organizer/internal/notes"
)

var (
	// ErrNotesUnavailable is returned when the host notes application cannot be read.
	ErrNotesUnavailable = errors.New("notes application unavailable")
	// ErrUnknownSource is returned by New for an unrecognized source kind.
	ErrUnknownSource = errors.New("unknown notes source")
)

// Source kinds accepted by New.
const (
	KindAuto        = "auto"
	KindAppleScript = "applescript"
	KindSample      = "sample"
	KindDirectory   = "directory"
)

// Source fetches all notes to export.
type Source interface {
	Fetch(ctx context.Context) ([]notes.Note, error)
}

// Options selects and configures a Source.
type Options struct {
	Kind    string
	Dir     string   // Root of the directory source
	Exclude []string // Directory source exclude patterns
}

// New returns the Source for opts.Kind. "auto" reads the notes application and
// falls back to the sample notes when it is unavailable or empty.
func New(opts Options) (Source, error) {
	kind := opts.Kind
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindAuto:
		return &FallbackSource{Primary: NewAppleScriptSource(), Fallback: SampleSource{}}, nil
	case KindAppleScript:
		return NewAppleScriptSource(), nil
	case KindSample:
		return SampleSource{}, nil
	case KindDirectory:
		if strings.TrimSpace(opts.Dir) == "" {
			return nil, fmt.Errorf("%w: directory source requires a directory", ErrUnknownSource)
		}
		if err := ValidatePatterns(opts.Exclude); err != nil {
			return nil, err
		}
		return &DirectorySource{Root: opts.Dir, Exclude: opts.Exclude}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want auto, applescript, sample or directory)", ErrUnknownSource, kind)
	}
}
