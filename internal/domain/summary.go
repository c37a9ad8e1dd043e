package domain

import "strings"

// FailedSummaryPrefix marks a stored summary as the record of a failed
// summarization attempt rather than real summary text. Notes carrying it are
// excluded from ranking and eligible for retry after a reset.
const FailedSummaryPrefix = "[summarize-failed] "

// SummaryResult is the outcome of one summarization or answer attempt.
// It keeps success and failure as an explicit tag instead of threading
// marker strings through the pipeline.
type SummaryResult struct {
	text   string
	reason string
	failed bool
}

// SummaryOK wraps successful summary text.
func SummaryOK(text string) SummaryResult {
	return SummaryResult{text: text}
}

// SummaryFailed records a failed attempt with the underlying reason.
func SummaryFailed(reason string) SummaryResult {
	return SummaryResult{reason: reason, failed: true}
}

// Failed reports whether the attempt failed.
func (r SummaryResult) Failed() bool { return r.failed }

// Text returns the summary text of a successful result.
func (r SummaryResult) Text() string { return r.text }

// Reason returns the failure reason of a failed result.
func (r SummaryResult) Reason() string { return r.reason }

// Encode flattens the result into the single text column the store persists.
// Failures are encoded with FailedSummaryPrefix; this is the only point where
// the marker string is produced.
func (r SummaryResult) Encode() string {
	if r.failed {
		return FailedSummaryPrefix + r.reason
	}
	return r.text
}

// DecodeSummary recovers the tagged result from a stored summary column.
func DecodeSummary(raw string) SummaryResult {
	if reason, ok := strings.CutPrefix(raw, FailedSummaryPrefix); ok {
		return SummaryFailed(reason)
	}
	return SummaryOK(raw)
}
