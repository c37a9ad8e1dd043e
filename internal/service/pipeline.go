// Package service wires the note store, scheduler, ranker and synthesizer
// into the operations the CLI exposes.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"chestnut/internal/answer"
	"chestnut/internal/domain"
	"chestnut/internal/importer"
	"chestnut/internal/scheduler"
)

// Answer is the outcome of one question.
type Answer struct {
	Text     string
	Selected []domain.RankedNote
	// NoNotes is set when the store holds no summarized notes; Text is empty
	// and the model was never called.
	NoNotes bool
}

// Pipeline is the application core behind every CLI entry point. It holds an
// explicitly passed store handle, never ambient state, so tests can run it
// against the in-memory store.
type Pipeline struct {
	store     domain.NoteStore
	importer  *importer.Importer
	scheduler *scheduler.Scheduler
	ranker    domain.Ranker
	answerer  *answer.Synthesizer
	log       *slog.Logger
}

// New assembles a Pipeline from its components.
func New(store domain.NoteStore, imp *importer.Importer, sched *scheduler.Scheduler, rank domain.Ranker, ans *answer.Synthesizer, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{store: store, importer: imp, scheduler: sched, ranker: rank, answerer: ans, log: log}
}

// ImportFolder imports every supported file under root.
func (p *Pipeline) ImportFolder(ctx context.Context, root string) (importer.Report, error) {
	return p.importer.ImportFolder(ctx, root)
}

// ImportGlob imports files matching a glob pattern.
func (p *Pipeline) ImportGlob(ctx context.Context, pattern string) (importer.Report, error) {
	return p.importer.ImportGlob(ctx, pattern)
}

// SummarizeAll runs a batch pass over every unsummarized note.
func (p *Pipeline) SummarizeAll(ctx context.Context) (scheduler.Report, error) {
	return p.scheduler.RunAll(ctx)
}

// SummarizeFirstN runs a batch pass over at most n unsummarized notes.
func (p *Pipeline) SummarizeFirstN(ctx context.Context, n int) (scheduler.Report, error) {
	return p.scheduler.RunFirstN(ctx, n)
}

// SummarizeNote summarizes one note by id, re-summarizing if needed.
func (p *Pipeline) SummarizeNote(ctx context.Context, id int64) (scheduler.Report, error) {
	return p.scheduler.RunOne(ctx, id)
}

// ListSummaries returns all notes with a usable summary.
func (p *Pipeline) ListSummaries(ctx context.Context) ([]domain.Note, error) {
	return p.store.ListSummarized(ctx)
}

// ResetFailed clears error-marked summaries so the next pass retries them.
func (p *Pipeline) ResetFailed(ctx context.Context) (int, error) {
	return p.store.ResetFailedSummaries(ctx)
}

// Ask ranks summarized notes against the question and synthesizes an answer
// from the topK best. With no summarized notes it reports NoNotes without
// calling the model.
func (p *Pipeline) Ask(ctx context.Context, question string, topK int) (Answer, error) {
	if topK <= 0 {
		return Answer{}, fmt.Errorf("top-k must be positive, got %d", topK)
	}
	notes, err := p.store.ListSummarized(ctx)
	if err != nil {
		return Answer{}, fmt.Errorf("list summarized: %w", err)
	}
	if len(notes) == 0 {
		return Answer{NoNotes: true}, nil
	}
	ranked := p.ranker.Rank(question, notes, topK)
	p.log.Debug("ranked notes", "question", question, "candidates", len(notes), "selected", len(ranked))
	text := p.answerer.Answer(ctx, question, ranked)
	return Answer{Text: text, Selected: ranked}, nil
}
