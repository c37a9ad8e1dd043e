// Package memory provides an in-process NoteStore used by tests and by the
// ephemeral store backend.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"chestnut/internal/domain"
)

// Store is a mutex-guarded in-memory implementation of domain.NoteStore.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	notes  []domain.Note
}

func NewStore() *Store { return &Store{nextID: 1} }

func (s *Store) Create(ctx context.Context, name, content string) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := domain.Note{
		ID:        s.nextID,
		Name:      name,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.notes = append(s.notes, n)
	return n, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.Note{}, domain.ErrNoteNotFound
}

func (s *Store) ListUnsummarized(ctx context.Context, limit int) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Note
	for _, n := range s.notes {
		if n.Summary != nil {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListSummarized(ctx context.Context) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Note
	for _, n := range s.notes {
		if n.Summarized() {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) UpdateSummary(ctx context.Context, id int64, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			v := value
			s.notes[i].Summary = &v
			return nil
		}
	}
	return domain.ErrNoteNotFound
}

func (s *Store) ResetFailedSummaries(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reset := 0
	for i := range s.notes {
		sum := s.notes[i].Summary
		if sum != nil && strings.HasPrefix(*sum, domain.FailedSummaryPrefix) {
			s.notes[i].Summary = nil
			reset++
		}
	}
	return reset, nil
}

func (s *Store) CountNotes(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes), nil
}

func (s *Store) Close() error { return nil }
