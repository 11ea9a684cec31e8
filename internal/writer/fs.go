// Package writer writes export items to a directory tree, one directory per folder.
package writer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/export"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = ".notes-export-tmp-"

	dirPerm  = 0o755
	filePerm = 0o644
)

// FS writes grouped export items below Root.
type FS struct {
	Root string
	// Now returns the export timestamp written into document headers.
	Now func() time.Time
}

// New creates an FS rooted at root.
func New(root string) *FS {
	return &FS{Root: root, Now: time.Now}
}

// Path returns the destination path of item below the root.
// File names combine the title slug with a short hash of the note id so that
// notes sharing a title do not overwrite each other.
func (w *FS) Path(item export.Item) string {
	name := Slugify(item.Title) + "-" + shortID(item.NoteID) + item.Format.Extension()
	return filepath.Join(w.Root, Slugify(item.Folder), name)
}

// Write renders and writes every item in groups. It returns the paths written,
// in group order. Cancellation is checked before each file; on error or
// cancellation the paths written so far are returned with the error.
func (w *FS) Write(ctx context.Context, groups []export.Group) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	exportedAt := now()

	if err := os.MkdirAll(w.Root, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", w.Root, err)
	}

	var written []string
	for _, group := range groups {
		dir := filepath.Join(w.Root, Slugify(group.Folder))
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return written, fmt.Errorf("failed to create folder directory %s: %w", dir, err)
		}

		for _, item := range group.Items {
			select {
			case <-ctx.Done():
				return written, ctx.Err()
			default:
			}

			data, err := Render(item, exportedAt)
			if err != nil {
				return written, fmt.Errorf("failed to render note %s: %w", item.NoteID, err)
			}

			path := w.Path(item)
			if err := writeFileAtomic(path, data, filePerm); err != nil {
				return written, err
			}
			written = append(written, path)
			logger.DebugContext(ctx, "wrote note", "note_id", item.NoteID, "path", path)
		}
	}

	logger.InfoContext(ctx, "wrote export", "root", w.Root, "files", len(written), "folders", len(groups))
	return written, nil
}

func shortID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:4])
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
