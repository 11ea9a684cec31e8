package notesource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeNoteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func TestDirectorySource_Fetch(t *testing.T) {
	root := t.TempDir()
	writeNoteFile(t, root, "Inbox.html", "<div>Buy milk</div>")
	writeNoteFile(t, root, "Work/Standup.md", "---\ntags: [work]\n---\n# Standup\n\nShip the *release*\n")
	writeNoteFile(t, root, "Travel/Trips/Packing.txt", "socks & shoes\npassport\n\nbook flights")
	writeNoteFile(t, root, ".trash/Old.html", "<p>gone</p>")
	writeNoteFile(t, root, "Work/.notes-export-tmp-123", "<p>partial</p>")
	writeNoteFile(t, root, "Work/image.png", "not a note")

	s := &DirectorySource{Root: root}
	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Fetch() returned %d notes, want 3: %+v", len(got), got)
	}

	byTitle := make(map[string]int)
	for i, n := range got {
		byTitle[n.Title] = i
		if n.ID == "" {
			t.Errorf("note %q has empty ID", n.Title)
		}
		if n.ModifiedAt.IsZero() {
			t.Errorf("note %q has zero ModifiedAt", n.Title)
		}
	}

	tests := []struct {
		title      string
		folder     string
		bodyHas    []string
		bodyHasNot []string
	}{
		{title: "Inbox", folder: "", bodyHas: []string{"<div>Buy milk</div>"}},
		{title: "Standup", folder: "Work", bodyHas: []string{"<h1>Standup</h1>", "<em>release</em>"}, bodyHasNot: []string{"tags:"}},
		{title: "Packing", folder: "Travel/Trips", bodyHas: []string{"<p>socks &amp; shoes<br>passport</p>", "<p>book flights</p>"}},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			i, ok := byTitle[tt.title]
			if !ok {
				t.Fatalf("note %q not found", tt.title)
			}
			n := got[i]
			if n.SourceFolder != tt.folder {
				t.Errorf("SourceFolder = %q, want %q", n.SourceFolder, tt.folder)
			}
			for _, want := range tt.bodyHas {
				if !strings.Contains(n.BodyHTML, want) {
					t.Errorf("BodyHTML = %q, want it to contain %q", n.BodyHTML, want)
				}
			}
			for _, notWant := range tt.bodyHasNot {
				if strings.Contains(n.BodyHTML, notWant) {
					t.Errorf("BodyHTML = %q, should not contain %q", n.BodyHTML, notWant)
				}
			}
		})
	}
}

func TestDirectorySource_StableIDs(t *testing.T) {
	root := t.TempDir()
	writeNoteFile(t, root, "Work/Plan.md", "plan")

	s := &DirectorySource{Root: root}
	first, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	second, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if first[0].ID != second[0].ID {
		t.Errorf("IDs differ across fetches: %q != %q", first[0].ID, second[0].ID)
	}
}

func TestDirectorySource_Errors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "note.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		root string
	}{
		{name: "missing directory", root: filepath.Join(root, "missing")},
		{name: "not a directory", root: file},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &DirectorySource{Root: tt.root}
			if _, err := s.Fetch(context.Background()); !errors.Is(err, ErrNotesUnavailable) {
				t.Errorf("Fetch() error = %v, want ErrNotesUnavailable", err)
			}
		})
	}
}

func TestDirectorySource_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeNoteFile(t, root, "a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &DirectorySource{Root: root}
	if _, err := s.Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}

func TestTextToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "single line", in: "hello", want: "<p>hello</p>"},
		{name: "escapes", in: "a < b", want: "<p>a &lt; b</p>"},
		{name: "paragraphs", in: "one\r\ntwo\r\n\r\nthree", want: "<p>one<br>two</p><p>three</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textToHTML(tt.in); got != tt.want {
				t.Errorf("textToHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDirectorySource_Exclude(t *testing.T) {
	root := t.TempDir()
	writeNoteFile(t, root, "Work/Plan.md", "plan")
	writeNoteFile(t, root, "Archive/2019/Old.md", "old")
	writeNoteFile(t, root, "Work/draft.txt", "draft")

	s := &DirectorySource{Root: root, Exclude: []string{"Archive/**", "**/*.txt"}}
	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Plan" {
		t.Errorf("Fetch() = %+v, want only Plan", got)
	}
}

func TestValidatePatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		wantErr  bool
	}{
		{name: "none", patterns: nil},
		{name: "valid", patterns: []string{"Archive/**", "*.txt", "{a,b}/*"}},
		{name: "unclosed class", patterns: []string{"Archive/[a"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePatterns(tt.patterns); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePatterns() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
