// Package ranker selects the notes most relevant to a question.
package ranker

import (
	"regexp"
	"sort"
	"strings"

	"chestnut/internal/domain"
)

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Overlap ranks notes by the number of distinct question tokens appearing in
// their summaries. A deliberately plain baseline: explainable, deterministic,
// and cheap to replace with something smarter behind the same interface.
type Overlap struct{}

// NewOverlap creates the token-overlap ranker.
func NewOverlap() Overlap { return Overlap{} }

// Rank scores each note's summary against the question and returns the topK
// best, highest score first, ties broken by lower id. Zero-score notes are
// still eligible: the pipeline always answers from the best of what exists,
// and only an empty note set yields an empty result.
func (Overlap) Rank(question string, notes []domain.Note, topK int) []domain.RankedNote {
	if len(notes) == 0 || topK <= 0 {
		return nil
	}
	qset := tokenSet(question)
	ranked := make([]domain.RankedNote, len(notes))
	for i, n := range notes {
		summary := ""
		if n.Summary != nil {
			summary = *n.Summary
		}
		ranked[i] = domain.RankedNote{Note: n, Score: overlap(qset, summary)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Note.ID < ranked[j].Note.ID
	})
	if topK > len(ranked) {
		topK = len(ranked)
	}
	return ranked[:topK]
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func overlap(qset map[string]struct{}, text string) int {
	toks := wordRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(toks))
	inter := 0
	for _, t := range toks {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return inter
}
