package domain

import (
	"strings"
	"time"
)

// Note is a unit of imported text plus its derived summary.
type Note struct {
	ID        int64
	Name      string
	Content   string
	Summary   *string
	CreatedAt time.Time
}

// Summarized reports whether the note carries a usable summary,
// excluding error markers left by failed attempts.
func (n Note) Summarized() bool {
	return n.Summary != nil && !strings.HasPrefix(*n.Summary, FailedSummaryPrefix)
}

// SummaryFailed reports whether the last summarization attempt failed.
func (n Note) SummaryFailed() bool {
	return n.Summary != nil && strings.HasPrefix(*n.Summary, FailedSummaryPrefix)
}

// RankedNote is a note paired with its relevance score for a question.
type RankedNote struct {
	Note  Note
	Score int
}
