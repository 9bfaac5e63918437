package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/punchcardhq/punchcard/internal/domain/model"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SyncJournal = (*JournalRepo)(nil)

// JournalRepo is the SQLite implementation of the SyncJournal port.
type JournalRepo struct {
	db *DB
}

// NewJournalRepo creates a JournalRepo backed by the given DB.
func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Record inserts one sync attempt.
func (r *JournalRepo) Record(ctx context.Context, attempt model.SyncAttempt) error {
	const query = `
		INSERT INTO sync_attempts (id, kind, ok, message, rows_appended, fallback_rows, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	ok := 0
	if attempt.OK {
		ok = 1
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		attempt.ID, string(attempt.Kind), ok, attempt.Message,
		attempt.RowsAppended, attempt.FallbackRows,
		attempt.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert sync attempt %s: %w", attempt.ID, err)
	}

	return nil
}

// ListRecent returns up to limit attempts, newest first.
func (r *JournalRepo) ListRecent(ctx context.Context, limit int) ([]model.SyncAttempt, error) {
	const query = `
		SELECT id, kind, ok, message, rows_appended, fallback_rows, created_at
		FROM sync_attempts
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query sync attempts: %w", err)
	}
	defer rows.Close()

	var attempts []model.SyncAttempt
	for rows.Next() {
		var a model.SyncAttempt
		var kind string
		var ok int
		var createdAt string

		if err := rows.Scan(&a.ID, &kind, &ok, &a.Message, &a.RowsAppended, &a.FallbackRows, &createdAt); err != nil {
			return nil, fmt.Errorf("scan sync attempt: %w", err)
		}

		a.Kind = model.SyncKind(kind)
		a.OK = ok != 0
		a.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync attempts: %w", err)
	}

	return attempts, nil
}

// parseTime handles the timestamp formats SQLite may hand back.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
