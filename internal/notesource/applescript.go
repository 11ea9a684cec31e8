package notesource

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/notes"
)

// exportScript emits one record per note: id, folder, title, modified, body.
// Records end with ASCII 30 and fields are separated by ASCII 31.
const exportScript = `
set recordSeparator to ASCII character 30
set fieldSeparator to ASCII character 31
set output to ""

try
    tell application "Notes"
        repeat with f in folders
            set folderName to name of f
            repeat with n in notes of f
                set noteID to id of n
                set noteName to name of n
                set noteBody to body of n
                set noteDate to (modification date of n) as «class isot» as string
                set output to output & noteID & fieldSeparator & folderName & fieldSeparator & noteName & fieldSeparator & noteDate & fieldSeparator & noteBody & recordSeparator
            end repeat
        end repeat
    end tell
on error errMsg number errNum
    return "ERROR:" & errNum & ":" & errMsg
end try

return output
`

// errorPrefix marks a script-level failure reported on stdout.
const errorPrefix = "ERROR:"

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// AppleScriptSource reads notes from the macOS Notes application through osascript.
type AppleScriptSource struct {
	// Command is the osascript binary to run.
	Command string
	run     commandRunner
}

// NewAppleScriptSource creates a source that runs osascript from PATH.
func NewAppleScriptSource() *AppleScriptSource {
	return &AppleScriptSource{Command: "osascript", run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Fetch runs the export script and parses its output.
// Any failure to run the script is reported as ErrNotesUnavailable.
func (s *AppleScriptSource) Fetch(ctx context.Context) ([]notes.Note, error) {
	logger := contextutil.LoggerFromContext(ctx)

	run := s.run
	if run == nil {
		run = runCommand
	}
	command := s.Command
	if command == "" {
		command = "osascript"
	}

	out, err := run(ctx, command, "-l", "AppleScript", "-e", exportScript)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := err.Error()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
				msg = stderr
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotesUnavailable, msg)
	}

	raw := string(out)
	if strings.HasPrefix(raw, errorPrefix) {
		return nil, fmt.Errorf("%w: %s", ErrNotesUnavailable, strings.TrimSpace(raw))
	}

	parsed := Parse(raw)
	logger.DebugContext(ctx, "read notes from notes application", "count", len(parsed), "bytes", len(out))
	return parsed, nil
}
