// Package sqlite provides the durable NoteStore backed by a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"chestnut/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	summary TEXT,
	created_at INTEGER NOT NULL
);
`

// Store implements domain.NoteStore on database/sql with the modernc sqlite
// driver. Single-row reads and writes are atomic, which is all the pipeline
// assumes of its storage.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	if path == ":memory:" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new note with no summary and returns the stored record.
func (s *Store) Create(ctx context.Context, name, content string) (domain.Note, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (name, content, summary, created_at)
		VALUES (?, ?, NULL, ?)
	`, name, content, now.Unix())
	if err != nil {
		return domain.Note{}, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Note{}, fmt.Errorf("note id: %w", err)
	}
	return domain.Note{ID: id, Name: name, Content: content, CreatedAt: now}, nil
}

// Get returns one note by id.
func (s *Store) Get(ctx context.Context, id int64) (domain.Note, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, content, summary, created_at
		FROM notes
		WHERE id = ?
	`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Note{}, domain.ErrNoteNotFound
	}
	if err != nil {
		return domain.Note{}, fmt.Errorf("get note %d: %w", id, err)
	}
	return n, nil
}

// ListUnsummarized returns notes awaiting summarization, oldest id first.
// Error-marked notes are not unsummarized; they stay out until reset.
func (s *Store) ListUnsummarized(ctx context.Context, limit int) ([]domain.Note, error) {
	q := `
		SELECT id, name, content, summary, created_at
		FROM notes
		WHERE summary IS NULL
		ORDER BY id ASC
	`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryNotes(ctx, q, args...)
}

// ListSummarized returns notes carrying a usable summary, id ascending.
func (s *Store) ListSummarized(ctx context.Context) ([]domain.Note, error) {
	return s.queryNotes(ctx, `
		SELECT id, name, content, summary, created_at
		FROM notes
		WHERE summary IS NOT NULL AND summary NOT LIKE ? || '%'
		ORDER BY id ASC
	`, domain.FailedSummaryPrefix)
}

// UpdateSummary overwrites the summary column for one note.
func (s *Store) UpdateSummary(ctx context.Context, id int64, value string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notes SET summary = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("update summary %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update summary %d: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// ResetFailedSummaries clears error-marked summaries back to NULL so the next
// batch pass retries them.
func (s *Store) ResetFailedSummaries(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET summary = NULL
		WHERE summary LIKE ? || '%'
	`, domain.FailedSummaryPrefix)
	if err != nil {
		return 0, fmt.Errorf("reset failed summaries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset failed summaries: %w", err)
	}
	return int(affected), nil
}

// CountNotes returns the total number of stored notes.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

func (s *Store) queryNotes(ctx context.Context, q string, args ...any) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (domain.Note, error) {
	var n domain.Note
	var summary sql.NullString
	var createdAt int64
	if err := row.Scan(&n.ID, &n.Name, &n.Content, &summary, &createdAt); err != nil {
		return domain.Note{}, err
	}
	if summary.Valid {
		s := summary.String
		n.Summary = &s
	}
	n.CreatedAt = time.Unix(createdAt, 0).UTC()
	return n, nil
}
