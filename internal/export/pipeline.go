package export

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"notes-organizer/internal/classify"
	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/notes"
	"notes-organizer/internal/taxonomy"
	"notes-organizer/internal/transform"
)

// ErrInvalidOverride is returned when an override names a folder outside the taxonomy.
var ErrInvalidOverride = errors.New("invalid folder override")

// Options configures a Pipeline. Options are fixed for the lifetime of a run.
type Options struct {
	Taxonomy  taxonomy.Taxonomy
	Threshold float64
	Format    transform.Format
	// Workers bounds concurrent note processing. Zero means runtime.NumCPU().
	Workers int
	// Overrides maps note IDs to a destination folder chosen by the user.
	Overrides map[string]string
}

// Explanation records how a note's destination was chosen.
type Explanation struct {
	NoteID       string               `json:"note_id"`
	Title        string               `json:"title"`
	SourceFolder string               `json:"source_folder,omitempty"`
	Candidates   []classify.Candidate `json:"candidates"`
	Suggestion   classify.Suggestion  `json:"suggestion"`
	Overridden   bool                 `json:"overridden"`
}

// Reason describes the explanation's suggestion in one line.
func (e Explanation) Reason() string {
	if e.Overridden {
		return fmt.Sprintf("Moved to %s by override", e.Suggestion.Folder)
	}
	return e.Suggestion.Reason(e.Candidates)
}

// Failure is a note that could not be processed.
type Failure struct {
	NoteID string
	Title  string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("note %s (%s): %v", f.NoteID, f.Title, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of one pipeline run. Items and Explanations follow
// input order and have one entry per successfully processed note.
type Result struct {
	Items        []Item
	Explanations []Explanation
	Failures     []Failure
}

// Group is the set of items sharing a destination folder.
type Group struct {
	Folder string
	Items  []Item
}

// Grouped groups items by destination folder. Folders are sorted by name with
// Uncategorized last; items keep input order within a folder.
func (r *Result) Grouped() []Group {
	index := make(map[string]int)
	var groups []Group
	for _, item := range r.Items {
		i, ok := index[item.Folder]
		if !ok {
			i = len(groups)
			index[item.Folder] = i
			groups = append(groups, Group{Folder: item.Folder})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Folder, groups[j].Folder
		if a == classify.Uncategorized || b == classify.Uncategorized {
			return b == classify.Uncategorized && a != classify.Uncategorized
		}
		return a < b
	})
	return groups
}

// Pipeline classifies, transforms and assembles notes with a bounded worker pool.
// A Pipeline holds only read-only state and may be reused across runs.
type Pipeline struct {
	classifier *classify.Classifier
	format     transform.Format
	workers    int
	overrides  map[string]string
	transform  func(body string, f transform.Format) (string, error)
}

// NewPipeline validates opts and creates a Pipeline. Configuration errors
// (unknown format, threshold outside [0, 1], overrides naming unknown folders)
// are reported here before any note is processed.
func NewPipeline(opts Options) (*Pipeline, error) {
	if err := opts.Format.Validate(); err != nil {
		return nil, err
	}

	classifier, err := classify.NewClassifier(opts.Taxonomy, opts.Threshold)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string, len(opts.Overrides))
	for noteID, folder := range opts.Overrides {
		if folder != classify.Uncategorized && !opts.Taxonomy.IsDestination(folder) {
			return nil, fmt.Errorf("%w: note %s: folder %q is not in the taxonomy", ErrInvalidOverride, noteID, folder)
		}
		overrides[noteID] = folder
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pipeline{
		classifier: classifier,
		format:     opts.Format,
		workers:    workers,
		overrides:  overrides,
		transform:  transform.Transform,
	}, nil
}

// Format returns the pipeline's output format.
func (p *Pipeline) Format() transform.Format {
	return p.format
}

// Classifier returns the pipeline's classifier.
func (p *Pipeline) Classifier() *classify.Classifier {
	return p.classifier
}

type outcome struct {
	done        bool
	item        Item
	explanation Explanation
	failure     *Failure
}

// Run processes batch concurrently. Errors and panics for individual notes are
// recorded in Result.Failures and do not stop the run. If ctx is cancelled,
// notes not yet started are skipped and the partial Result is returned along
// with ctx.Err().
func (p *Pipeline) Run(ctx context.Context, batch []notes.Note) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "starting export run", "notes", len(batch), "format", p.format, "workers", p.workers)

	outcomes := make([]outcome, len(batch))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range batch {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcomes[i] = p.process(ctx, batch[i])
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{
		Items:        make([]Item, 0, len(batch)),
		Explanations: make([]Explanation, 0, len(batch)),
	}
	skipped := 0
	for _, out := range outcomes {
		switch {
		case out.failure != nil:
			result.Failures = append(result.Failures, *out.failure)
		case out.done:
			result.Items = append(result.Items, out.item)
			result.Explanations = append(result.Explanations, out.explanation)
		default:
			skipped++
		}
	}

	for _, f := range result.Failures {
		logger.ErrorContext(ctx, "failed to process note", "note_id", f.NoteID, "title", f.Title, "error", f.Err)
	}

	if err := ctx.Err(); err != nil {
		logger.WarnContext(ctx, "export run cancelled", "processed", len(result.Items), "failed", len(result.Failures), "skipped", skipped)
		return result, err
	}

	logger.InfoContext(ctx, "export run completed", "processed", len(result.Items), "failed", len(result.Failures))
	return result, nil
}

// process handles one note. A zero outcome means the note was skipped
// because ctx was already done.
func (p *Pipeline) process(ctx context.Context, note notes.Note) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{failure: &Failure{
				NoteID: note.ID,
				Title:  note.DisplayTitle(),
				Err:    fmt.Errorf("panic while processing note: %v", r),
			}}
		}
	}()

	if ctx.Err() != nil {
		return outcome{}
	}

	suggestion, ranked := p.classifier.Classify(note)
	folder, overridden := p.overrides[note.ID]
	if overridden {
		suggestion.Folder = folder
		suggestion.Accepted = folder != classify.Uncategorized
	}

	body, err := p.transform(note.BodyHTML, p.format)
	if err != nil {
		return outcome{failure: &Failure{
			NoteID: note.ID,
			Title:  note.DisplayTitle(),
			Err:    fmt.Errorf("failed to transform body: %w", err),
		}}
	}

	return outcome{
		done: true,
		item: Assemble(note, suggestion, body, p.format),
		explanation: Explanation{
			NoteID:       note.ID,
			Title:        note.DisplayTitle(),
			SourceFolder: note.SourceFolder,
			Candidates:   ranked,
			Suggestion:   suggestion,
			Overridden:   overridden,
		},
	}
}
