// Package summarizer condenses a note's content into a short summary via the
// text-completion service.
package summarizer

import (
	"context"
	"strings"

	"chestnut/internal/domain"
)

const defaultInstruction = "Summarize the following note in a few sentences. " +
	"Keep every concrete name, place, date and number; drop filler."

// EmptyContentSummary is stored for notes with no content at all, so they
// never reach the model.
const EmptyContentSummary = "(empty note)"

// Summarizer turns note content into summaries. Failures come back as tagged
// results, never as returned errors: one bad note must not stop a batch, and
// the failure has to be visible in the stored data for a later retry.
type Summarizer struct {
	completer   domain.Completer
	instruction string
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithInstruction overrides the summarization instruction sent to the model.
func WithInstruction(instruction string) Option {
	return func(s *Summarizer) { s.instruction = instruction }
}

// New creates a Summarizer backed by the given completion service.
func New(completer domain.Completer, opts ...Option) *Summarizer {
	s := &Summarizer{completer: completer, instruction: defaultInstruction}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize produces a summary result for one note. Empty content yields a
// deterministic placeholder without calling the model. No retries happen
// here; retry is an operator reset followed by another batch pass.
func (s *Summarizer) Summarize(ctx context.Context, note domain.Note) domain.SummaryResult {
	if strings.TrimSpace(note.Content) == "" {
		return domain.SummaryOK(EmptyContentSummary)
	}
	text, err := s.completer.Complete(ctx, s.instruction, note.Content)
	if err != nil {
		return domain.SummaryFailed(err.Error())
	}
	return domain.SummaryOK(strings.TrimSpace(text))
}
