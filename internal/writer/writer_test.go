package writer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"notes-organizer/internal/export"
	"notes-organizer/internal/transform"
)

var fixedNow = time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Client meeting follow-up", "client-meeting-follow-up"},
		{"  Trip   to Japan ", "trip-to-japan"},
		{"Q3 Budget: Draft #2!", "q3-budget-draft-2"},
		{"Uncategorized", "uncategorized"},
		{"Café", "café"},
		{"仕事", "仕事"},
		{"Путешествия 2024", "путешествия-2024"},
		{"旅行 / メモ", "旅行-メモ"},
		{"", "untitled"},
		{"   ", "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_DistinctNamesStayDistinct(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"仕事", "旅行"},
		{"!!!", "???"},
		{"★", "☆"},
	}
	for _, tt := range tests {
		t.Run(tt.a+" "+tt.b, func(t *testing.T) {
			sa, sb := Slugify(tt.a), Slugify(tt.b)
			if sa == sb {
				t.Errorf("Slugify(%q) and Slugify(%q) both = %q", tt.a, tt.b, sa)
			}
			if sa == "untitled" || sb == "untitled" {
				t.Errorf("non-blank names slugged to bare untitled: %q, %q", sa, sb)
			}
		})
	}

	if got := Slugify("!!!"); !strings.HasPrefix(got, "untitled-") || got != Slugify(" !!! ") {
		t.Errorf("Slugify(%q) = %q, want a stable untitled-<hash> slug", "!!!", got)
	}
}

func testItem(format transform.Format, body string) export.Item {
	return export.Item{
		NoteID:       "n1",
		Folder:       "Travel",
		Body:         body,
		Format:       format,
		Title:        "Trip to <Japan>",
		SourceFolder: "Notes",
		ModifiedAt:   time.Date(2024, 11, 2, 10, 15, 0, 0, time.UTC),
		Confidence:   0.83,
	}
}

func TestRender_Markdown(t *testing.T) {
	data, err := Render(testItem(transform.Markdown, "Flight booked"), fixedNow)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc := string(data)

	if !strings.HasPrefix(doc, "---\n") {
		t.Fatalf("Render() = %q, want front matter", doc)
	}
	parts := strings.SplitN(strings.TrimPrefix(doc, "---\n"), "---\n", 2)
	if len(parts) != 2 {
		t.Fatalf("Render() = %q, want closed front matter", doc)
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(parts[0]), &fm); err != nil {
		t.Fatalf("front matter is not valid YAML: %v", err)
	}
	want := frontMatter{
		Title:        "Trip to <Japan>",
		Folder:       "Travel",
		SourceFolder: "Notes",
		Modified:     "2024-11-02 10:15",
		Exported:     "2024-11-05 14:30",
		Confidence:   0.83,
	}
	if fm != want {
		t.Errorf("front matter = %+v, want %+v", fm, want)
	}
	if parts[1] != "\n# Trip to <Japan>\n\nFlight booked\n" {
		t.Errorf("body = %q", parts[1])
	}
}

func TestRender_Text(t *testing.T) {
	data, err := Render(testItem(transform.Text, "Flight booked"), fixedNow)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "Trip to <Japan>\nFolder: Travel\nSource folder: Notes\nModified: 2024-11-02 10:15\nExported: 2024-11-05 14:30\n\nFlight booked\n"
	if string(data) != want {
		t.Errorf("Render() = %q, want %q", data, want)
	}
}

func TestRender_HTML(t *testing.T) {
	item := testItem(transform.HTML, "<p>Flight booked</p>")
	item.SourceFolder = ""
	item.ModifiedAt = time.Time{}

	data, err := Render(item, fixedNow)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "<h1>Trip to &lt;Japan&gt;</h1>\n<p><strong>Folder:</strong> Travel<br/><strong>Exported:</strong> 2024-11-05 14:30</p>\n<p>Flight booked</p>\n"
	if string(data) != want {
		t.Errorf("Render() = %q, want %q", data, want)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(testItem("pdf", ""), fixedNow)
	if !errors.Is(err, transform.ErrUnknownFormat) {
		t.Errorf("Render() error = %v, want ErrUnknownFormat", err)
	}
}

func TestFS_Write(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	w := &FS{Root: root, Now: func() time.Time { return fixedNow }}

	groups := []export.Group{
		{Folder: "Travel", Items: []export.Item{
			{NoteID: "a", Folder: "Travel", Title: "Trip", Body: "one", Format: transform.Text},
			{NoteID: "b", Folder: "Travel", Title: "Trip", Body: "two", Format: transform.Text},
		}},
		{Folder: "Uncategorized", Items: []export.Item{
			{NoteID: "c", Folder: "Uncategorized", Title: "", Body: "three", Format: transform.Text},
		}},
	}

	paths, err := w.Write(context.Background(), groups)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Write() returned %d paths, want 3", len(paths))
	}
	if paths[0] == paths[1] {
		t.Errorf("notes with the same title share a path: %s", paths[0])
	}

	for i, path := range paths {
		rel, _ := filepath.Rel(root, path)
		dir := filepath.Dir(rel)
		wantDir := []string{"travel", "travel", "uncategorized"}[i]
		if dir != wantDir {
			t.Errorf("path %s in %s, want %s", rel, dir, wantDir)
		}
		if filepath.Ext(path) != ".txt" {
			t.Errorf("path %s has extension %s, want .txt", rel, filepath.Ext(path))
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Stat(%s) error = %v", path, err)
		}
	}

	if !strings.HasPrefix(filepath.Base(paths[2]), "untitled-") {
		t.Errorf("untitled note path = %s", paths[2])
	}

	data, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasSuffix(string(data), "\n\ntwo\n") {
		t.Errorf("file content = %q", data)
	}

	entries, err := os.ReadDir(filepath.Join(root, "travel"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), TempFilePrefix) {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFS_Write_Overwrites(t *testing.T) {
	w := &FS{Root: t.TempDir(), Now: func() time.Time { return fixedNow }}
	item := export.Item{NoteID: "a", Folder: "Work", Title: "Plan", Body: "v1", Format: transform.Markdown}

	if _, err := w.Write(context.Background(), []export.Group{{Folder: "Work", Items: []export.Item{item}}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	item.Body = "v2"
	paths, err := w.Write(context.Background(), []export.Group{{Folder: "Work", Items: []export.Item{item}}})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, _ := os.ReadFile(paths[0])
	if !strings.HasSuffix(string(data), "v2\n") {
		t.Errorf("file content = %q, want rewritten", data)
	}
	if paths[0] != w.Path(item) {
		t.Errorf("Write() path = %s, want %s", paths[0], w.Path(item))
	}
}

func TestFS_Write_Cancelled(t *testing.T) {
	w := &FS{Root: t.TempDir(), Now: func() time.Time { return fixedNow }}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	groups := []export.Group{{Folder: "Work", Items: []export.Item{{NoteID: "a", Title: "x", Format: transform.Text}}}}
	paths, err := w.Write(ctx, groups)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Write() error = %v, want context.Canceled", err)
	}
	if len(paths) != 0 {
		t.Errorf("Write() paths = %v, want none", paths)
	}
}
