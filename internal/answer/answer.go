// Package answer assembles ranked notes into a prompt and obtains the final
// answer from the text-completion service.
package answer

import (
	"context"
	"fmt"
	"strings"

	"chestnut/internal/domain"
)

const instruction = "Answer the question using only the notes provided. " +
	"If the notes do not contain the answer, say so."

// FailedAnswerPrefix starts the text returned when the completion service
// fails, so the caller can present a uniform "could not get an answer"
// response instead of handling an error.
const FailedAnswerPrefix = "could not get an answer: "

// Synthesizer builds one prompt per question and delegates to the completion
// service exactly once. Its failure policy mirrors the summarizer's: service
// errors become a deterministic error text, never a raised failure.
type Synthesizer struct {
	completer domain.Completer
}

// New creates a Synthesizer backed by the given completion service.
func New(completer domain.Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

// Answer produces the final answer for a question from the ranked notes, in
// rank order. The ranked slice must be non-empty; the caller handles the
// no-notes case before any model call.
func (s *Synthesizer) Answer(ctx context.Context, question string, ranked []domain.RankedNote) string {
	prompt := BuildPrompt(question, ranked)
	text, err := s.completer.Complete(ctx, instruction, prompt)
	if err != nil {
		return FailedAnswerPrefix + err.Error()
	}
	return strings.TrimSpace(text)
}

// BuildPrompt concatenates each selected note's summary labeled by id,
// followed by the question.
func BuildPrompt(question string, ranked []domain.RankedNote) string {
	var b strings.Builder
	b.WriteString("Notes:\n")
	for _, r := range ranked {
		summary := ""
		if r.Note.Summary != nil {
			summary = *r.Note.Summary
		}
		fmt.Fprintf(&b, "\n[note %d] %s\n", r.Note.ID, summary)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
