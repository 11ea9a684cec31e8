package notesource

import (
	"context"
	"fmt"

	"notes-organizer/internal/contextutil"
	"notes-organizer/internal/notes"
)

// FallbackSource reads from Primary and switches to Fallback when Primary
// fails or returns no notes. Cancellation is never masked by the fallback.
type FallbackSource struct {
	Primary  Source
	Fallback Source
}

// Fetch implements Source.
func (s *FallbackSource) Fetch(ctx context.Context) ([]notes.Note, error) {
	logger := contextutil.LoggerFromContext(ctx)

	fetched, err := s.Primary.Fetch(ctx)
	if err == nil && len(fetched) > 0 {
		return fetched, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if err != nil {
		logger.WarnContext(ctx, "primary notes source failed, using fallback", "error", err)
	} else {
		logger.WarnContext(ctx, "primary notes source returned no notes, using fallback")
	}

	fetched, err = s.Fallback.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fallback notes: %w", err)
	}
	return fetched, nil
}
