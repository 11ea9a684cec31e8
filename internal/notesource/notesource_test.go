package notesource

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"notes-organizer/internal/notes"
)

func record(fields ...string) string {
	return strings.Join(fields, fieldSeparator) + recordSeparator
}

func TestParse(t *testing.T) {
	raw := record("x-coredata://1", " Work ", " Trip to Japan ", "2024-11-02T10:15:00", " <p>Flight</p> ") +
		"\n" + recordSeparator +
		record("Inbox", "Legacy", "2024-10-29", "<p>old</p>") +
		record("too", "short") +
		record("x-coredata://2", "Ideas", "Untimed", "not a date", "a"+fieldSeparator+"b")

	got := Parse(raw)
	if len(got) != 3 {
		t.Fatalf("Parse() returned %d notes, want 3: %+v", len(got), got)
	}

	first := got[0]
	if first.ID != "x-coredata://1" || first.SourceFolder != "Work" || first.Title != "Trip to Japan" || first.BodyHTML != "<p>Flight</p>" {
		t.Errorf("Parse() first = %+v", first)
	}
	if want := time.Date(2024, 11, 2, 10, 15, 0, 0, time.Local); !first.ModifiedAt.Equal(want) {
		t.Errorf("Parse() modified = %v, want %v", first.ModifiedAt, want)
	}

	legacy := got[1]
	if legacy.ID == "" || legacy.SourceFolder != "Inbox" || legacy.Title != "Legacy" {
		t.Errorf("Parse() legacy = %+v", legacy)
	}
	if legacy.ID != deriveID("Inbox", "Legacy", "2024-10-29") {
		t.Errorf("Parse() legacy id = %s, want derived id", legacy.ID)
	}

	third := got[2]
	if !third.ModifiedAt.IsZero() {
		t.Errorf("Parse() unparsable date = %v, want zero", third.ModifiedAt)
	}
	if third.BodyHTML != "a"+fieldSeparator+"b" {
		t.Errorf("Parse() body = %q, want separators in body kept", third.BodyHTML)
	}
}

func TestParse_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", recordSeparator + recordSeparator} {
		if got := Parse(raw); len(got) != 0 {
			t.Errorf("Parse(%q) = %v, want none", raw, got)
		}
	}
}

func TestDeriveID_Stable(t *testing.T) {
	a := deriveID("Inbox", "Title", "2024-01-01")
	b := deriveID("Inbox", "Title", "2024-01-01")
	c := deriveID("Inbox", "Other", "2024-01-01")
	if a != b {
		t.Errorf("deriveID() not stable: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("deriveID() collided for different titles")
	}
}

func TestAppleScriptSource_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		runErr  error
		want    int
		wantErr error
	}{
		{name: "notes", out: record("1", "Work", "A", "", "<p>a</p>") + record("2", "Home", "B", "", "b"), want: 2},
		{name: "empty output", out: "", want: 0},
		{name: "script error", out: "ERROR:-1743:Not authorized", wantErr: ErrNotesUnavailable},
		{name: "command missing", runErr: errors.New("exec: \"osascript\": executable file not found in $PATH"), wantErr: ErrNotesUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotArgs []string
			s := &AppleScriptSource{
				Command: "osascript",
				run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
					gotArgs = append([]string{name}, args...)
					return []byte(tt.out), tt.runErr
				},
			}

			got, err := s.Fetch(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Fetch() returned %d notes, want %d", len(got), tt.want)
			}
			if len(gotArgs) != 5 || gotArgs[0] != "osascript" || gotArgs[1] != "-l" || gotArgs[2] != "AppleScript" || gotArgs[3] != "-e" {
				t.Errorf("Fetch() ran %v", gotArgs[:4])
			}
		})
	}
}

func TestSampleSource_Fetch(t *testing.T) {
	got, err := SampleSource{}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Fetch() returned %d notes, want 3", len(got))
	}
	titles := []string{"Client meeting follow-up", "Weekend meal prep ideas", "New product brainstorm"}
	seen := make(map[string]bool)
	for i, n := range got {
		if n.Title != titles[i] {
			t.Errorf("note %d title = %q, want %q", i, n.Title, titles[i])
		}
		if n.ID == "" || seen[n.ID] {
			t.Errorf("note %d id = %q, want unique non-empty", i, n.ID)
		}
		seen[n.ID] = true
		if n.ModifiedAt.IsZero() {
			t.Errorf("note %d has zero modified time", i)
		}
	}

	again, _ := SampleSource{}.Fetch(context.Background())
	again[0].Title = "changed"
	if got[0].Title == "changed" {
		t.Error("Fetch() should return a fresh slice")
	}
}

type stubSource struct {
	notes []notes.Note
	err   error
	calls int
}

func (s *stubSource) Fetch(ctx context.Context) ([]notes.Note, error) {
	s.calls++
	return s.notes, s.err
}

func TestFallbackSource_Fetch(t *testing.T) {
	primaryNotes := []notes.Note{{ID: "p"}}
	fallbackNotes := []notes.Note{{ID: "f"}}

	tests := []struct {
		name          string
		primary       *stubSource
		fallback      *stubSource
		wantID        string
		wantErr       bool
		wantFallbacks int
	}{
		{name: "primary ok", primary: &stubSource{notes: primaryNotes}, fallback: &stubSource{notes: fallbackNotes}, wantID: "p"},
		{name: "primary error", primary: &stubSource{err: ErrNotesUnavailable}, fallback: &stubSource{notes: fallbackNotes}, wantID: "f", wantFallbacks: 1},
		{name: "primary empty", primary: &stubSource{}, fallback: &stubSource{notes: fallbackNotes}, wantID: "f", wantFallbacks: 1},
		{name: "both fail", primary: &stubSource{err: ErrNotesUnavailable}, fallback: &stubSource{err: errors.New("boom")}, wantErr: true, wantFallbacks: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &FallbackSource{Primary: tt.primary, Fallback: tt.fallback}
			got, err := s.Fetch(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("Fetch() expected error")
				}
			} else {
				if err != nil {
					t.Fatalf("Fetch() error = %v", err)
				}
				if len(got) != 1 || got[0].ID != tt.wantID {
					t.Errorf("Fetch() = %v, want %s", got, tt.wantID)
				}
			}
			if tt.fallback.calls != tt.wantFallbacks {
				t.Errorf("fallback called %d times, want %d", tt.fallback.calls, tt.wantFallbacks)
			}
		})
	}
}

func TestFallbackSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fallback := &stubSource{notes: []notes.Note{{ID: "f"}}}
	s := &FallbackSource{Primary: &stubSource{err: context.Canceled}, Fallback: fallback}
	if _, err := s.Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
	if fallback.calls != 0 {
		t.Error("fallback should not run after cancellation")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind    string
		dir     string
		exclude []string
		want    string
		wantErr bool
	}{
		{kind: "", want: "*notesource.FallbackSource"},
		{kind: "auto", want: "*notesource.FallbackSource"},
		{kind: "AppleScript", want: "*notesource.AppleScriptSource"},
		{kind: "sample", want: "notesource.SampleSource"},
		{kind: "directory", dir: "/tmp/notes", want: "*notesource.DirectorySource"},
		{kind: "directory", wantErr: true},
		{kind: "directory", dir: "/tmp/notes", exclude: []string{"Archive/[a"}, wantErr: true},
		{kind: "evernote", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			s, err := New(Options{Kind: tt.kind, Dir: tt.dir, Exclude: tt.exclude})
			if tt.wantErr {
				if err == nil {
					t.Errorf("New(%q) error = nil, want error", tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error = %v", tt.kind, err)
			}
			if got := typeName(s); got != tt.want {
				t.Errorf("New(%q) = %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *FallbackSource:
		return "*notesource.FallbackSource"
	case *AppleScriptSource:
		return "*notesource.AppleScriptSource"
	case SampleSource:
		return "notesource.SampleSource"
	case *DirectorySource:
		return "*notesource.DirectorySource"
	default:
		return "unknown"
	}
}

func TestNew_UnknownKind(t *testing.T) {
	if _, err := New(Options{Kind: "evernote"}); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("New() error = %v, want ErrUnknownSource", err)
	}
}
