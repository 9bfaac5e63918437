package driven

import (
	"context"

	"github.com/punchcardhq/punchcard/internal/domain/model"
)

// EntryLog is the append-only, durable record of all check-in/out events and
// the single source of truth for attendance history. There are deliberately
// no update or delete operations: the log is the audit trail.
type EntryLog interface {
	// Append durably persists the entry before returning. Concurrent appends
	// from any number of callers or processes must never be lost or duplicated.
	Append(ctx context.Context, entry model.TimeEntry) error
	// LoadAll returns the full log in insertion order. An unreadable store
	// yields an error wrapping ErrCorrupt, never an empty slice.
	LoadAll(ctx context.Context) ([]model.TimeEntry, error)
}
