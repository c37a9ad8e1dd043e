// Package scheduler drives summarization passes over the note store.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"chestnut/internal/domain"
	"chestnut/internal/summarizer"
)

// Report describes the outcome of one batch run. It is the only record of a
// run; durable progress lives solely in the note store.
type Report struct {
	Processed int
	Succeeded int
	Failed    int
}

// Scheduler selects candidate notes and summarizes them one at a time, in id
// order. A failed note is recorded as an error-marked summary and the pass
// moves on to the next candidate.
//
// Two concurrent runs may pick the same note and both call the model for it.
// UpdateSummary is idempotent so the store stays consistent, but the duplicate
// model call is wasted; callers that care should avoid overlapping runs.
type Scheduler struct {
	store      domain.NoteStore
	summarizer *summarizer.Summarizer
	log        *slog.Logger
}

// New creates a Scheduler over the given store and summarizer.
func New(store domain.NoteStore, sum *summarizer.Summarizer, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{store: store, summarizer: sum, log: log}
}

// RunAll summarizes every unsummarized note. Zero candidates is a zero-effect
// success, not an error.
func (s *Scheduler) RunAll(ctx context.Context) (Report, error) {
	return s.runLimit(ctx, 0)
}

// RunFirstN summarizes at most n unsummarized notes, oldest id first. Fewer
// than n candidates is not an error; the pass processes what exists.
func (s *Scheduler) RunFirstN(ctx context.Context, n int) (Report, error) {
	if n <= 0 {
		return Report{}, fmt.Errorf("batch size must be positive, got %d", n)
	}
	return s.runLimit(ctx, n)
}

// RunOne summarizes a single note by id. Unknown ids fail with
// domain.ErrNoteNotFound. An already-summarized note is summarized again and
// its prior summary overwritten.
func (s *Scheduler) RunOne(ctx context.Context, id int64) (Report, error) {
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return Report{}, err
	}
	return s.process(ctx, []domain.Note{note})
}

func (s *Scheduler) runLimit(ctx context.Context, limit int) (Report, error) {
	notes, err := s.store.ListUnsummarized(ctx, limit)
	if err != nil {
		return Report{}, fmt.Errorf("list unsummarized: %w", err)
	}
	return s.process(ctx, notes)
}

func (s *Scheduler) process(ctx context.Context, notes []domain.Note) (Report, error) {
	var rep Report
	for _, note := range notes {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		result := s.summarizer.Summarize(ctx, note)
		if err := s.store.UpdateSummary(ctx, note.ID, result.Encode()); err != nil {
			return rep, fmt.Errorf("store summary for note %d: %w", note.ID, err)
		}
		rep.Processed++
		if result.Failed() {
			rep.Failed++
			s.log.Warn("summarization failed", "note", note.ID, "reason", result.Reason())
		} else {
			rep.Succeeded++
			s.log.Debug("note summarized", "note", note.ID)
		}
	}
	return rep, nil
}
