package jsonfile

import (
	"context"
	"time"

	"github.com/punchcardhq/punchcard/internal/domain/model"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.EntryLog = (*EntryRepo)(nil)

// entryRecord is the persisted shape. The file is a JSON array in insertion
// order; insertion order is the audit order even when timestamps are backdated.
type entryRecord struct {
	EmployeeID string `json:"employeeId"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
}

// EntryRepo is the JSON-file implementation of the EntryLog port. An append
// is a load-append-replace cycle held under the store lock end to end, so a
// concurrent append from another process or goroutine can never be dropped.
type EntryRepo struct {
	store *fileStore
}

// NewEntryRepo creates an EntryRepo backed by the JSON file at path.
func NewEntryRepo(path string, lockTimeout time.Duration) *EntryRepo {
	return &EntryRepo{store: newFileStore(path, lockTimeout)}
}

// Append durably persists the entry before returning. The atomic file replace
// has completed, and the lock is released, by the time the caller proceeds to
// any mirror push.
func (r *EntryRepo) Append(ctx context.Context, entry model.TimeEntry) error {
	return r.store.withLock(ctx, func() error {
		records := []entryRecord{}
		if err := r.store.readInto(&records); err != nil {
			return err
		}
		records = append(records, entryRecord{
			EmployeeID: entry.EmployeeID,
			Timestamp:  entry.Timestamp,
			Type:       string(entry.Type),
		})
		return r.store.write(records)
	})
}

// LoadAll returns the full log in insertion order. A missing file is an empty
// log; an unparsable file is ErrCorrupt, never silently empty.
func (r *EntryRepo) LoadAll(ctx context.Context) ([]model.TimeEntry, error) {
	var out []model.TimeEntry
	err := r.store.withLock(ctx, func() error {
		records := []entryRecord{}
		if err := r.store.readInto(&records); err != nil {
			return err
		}
		out = make([]model.TimeEntry, 0, len(records))
		for _, rec := range records {
			out = append(out, model.TimeEntry{
				EmployeeID: rec.EmployeeID,
				Timestamp:  rec.Timestamp,
				Type:       model.EntryType(rec.Type),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
