package domain

import (
	"context"
	"errors"
)

// ErrNoteNotFound is returned when a referenced note id does not exist.
var ErrNoteNotFound = errors.New("note not found")

// NoteStore owns note persistence and id assignment. Every mutation is
// durable before the call returns.
type NoteStore interface {
	// Create persists a new note with a fresh id and no summary.
	// Duplicate content is allowed.
	Create(ctx context.Context, name, content string) (Note, error)
	// Get returns the note with the given id or ErrNoteNotFound.
	Get(ctx context.Context, id int64) (Note, error)
	// ListUnsummarized returns notes whose summary is unset, ordered by id
	// ascending. A limit of 0 means no cap.
	ListUnsummarized(ctx context.Context, limit int) ([]Note, error)
	// ListSummarized returns notes with a usable summary, ordered by id
	// ascending. Error-marked notes are excluded.
	ListSummarized(ctx context.Context) ([]Note, error)
	// UpdateSummary overwrites the summary column. Re-applying the same
	// value is observably a no-op. Returns ErrNoteNotFound for unknown ids.
	UpdateSummary(ctx context.Context, id int64, value string) error
	// ResetFailedSummaries clears error-marked summaries back to unset,
	// making them eligible for another batch pass. Returns the number of
	// notes reset.
	ResetFailedSummaries(ctx context.Context) (int, error)
	// CountNotes returns the total number of stored notes.
	CountNotes(ctx context.Context) (int, error)
	Close() error
}

// Completer is a black-box text-completion service.
type Completer interface {
	Name() string
	// Complete sends prompt with an optional instruction and returns the
	// generated text. Any transport or service failure surfaces as an error.
	Complete(ctx context.Context, instruction, prompt string) (string, error)
}

// Ranker orders summarized notes by relevance to a question. Kept narrow so
// the overlap baseline can be swapped for something smarter later.
type Ranker interface {
	Rank(question string, notes []Note, topK int) []RankedNote
}
