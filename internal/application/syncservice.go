// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/punchcardhq/punchcard/internal/domain/model"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// mirrorHeader is the header row staged when the mirror is empty.
var mirrorHeader = []string{"Employee ID", "Employee Name", "Timestamp", "Type"}

const (
	// friendlyTimestampLayout is the human-readable projection of an entry
	// timestamp in mirror rows, e.g. "Jan 01 09:00 AM".
	friendlyTimestampLayout = "Jan 02 03:04 PM"

	// fallbackName is used when an entry references an employee absent from
	// the directory, e.g. one deleted after the entry was recorded.
	fallbackName = "Unknown"

	// syncBatchSize caps the rows per append call during a full rebuild.
	syncBatchSize = 500
)

// rowResult is the outcome of projecting one entry into a mirror row. A
// fallback row carries the entry's raw field values; Reason says why. No
// projection failure ever aborts the batch the row belongs to.
type rowResult struct {
	Row      []string
	Fallback bool
	Reason   error
}

// buildRow projects one entry into a mirror row. The employee name comes from
// the directory snapshot; timestamp and type are humanized when the timestamp
// parses, raw otherwise.
func buildRow(entry model.TimeEntry, directory map[string]model.Employee) rowResult {
	name := fallbackName
	if emp, ok := directory[entry.EmployeeID]; ok {
		name = emp.Name
	}

	ts, err := time.Parse(model.TimestampLayout, entry.Timestamp)
	if err != nil {
		return rowResult{
			Row:      []string{entry.EmployeeID, name, entry.Timestamp, string(entry.Type)},
			Fallback: true,
			Reason:   fmt.Errorf("parse timestamp %q: %w", entry.Timestamp, err),
		}
	}

	return rowResult{
		Row: []string{entry.EmployeeID, name, ts.Format(friendlyTimestampLayout), capitalize(string(entry.Type))},
	}
}

// capitalize upper-cases the first letter and lower-cases the rest, so "in"
// becomes "In" and "out" becomes "Out".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// SyncService reconciles the local entry log with the remote mirror. It only
// ever reads the log and writes the mirror; on any disagreement between the
// two, the local log wins. Both protocols are idempotent with respect to the
// mirror's final state.
type SyncService struct {
	entryLog  driven.EntryLog
	employees driven.EmployeeStore
	mirror    driven.Mirror
	journal   driven.SyncJournal
	now       func() time.Time
}

// NewSyncService creates a SyncService. mirror may be nil when no remote is
// configured; syncs then fail with ErrMirrorNotConfigured while local writes
// stay unaffected. journal may be nil to disable attempt recording.
func NewSyncService(
	entryLog driven.EntryLog,
	employees driven.EmployeeStore,
	mirror driven.Mirror,
	journal driven.SyncJournal,
) *SyncService {
	return &SyncService{
		entryLog:  entryLog,
		employees: employees,
		mirror:    mirror,
		journal:   journal,
		now:       time.Now,
	}
}

// SyncDelta pushes newly recorded entries to the mirror. The entries are
// already durable in the local log; a failure here is degradation, not data
// loss, and nothing is re-queued — the next sync picks the entries up.
func (s *SyncService) SyncDelta(ctx context.Context, entries []model.TimeEntry) (model.SyncReport, error) {
	report, err := s.pushDelta(ctx, entries)
	s.record(ctx, model.SyncKindDelta, report, err)
	return report, err
}

func (s *SyncService) pushDelta(ctx context.Context, entries []model.TimeEntry) (model.SyncReport, error) {
	if s.mirror == nil {
		return model.SyncReport{}, driven.ErrMirrorNotConfigured
	}

	existing, err := s.mirror.Read(ctx)
	if err != nil {
		return model.SyncReport{}, fmt.Errorf("read mirror: %w", err)
	}

	// A header alone is not worth a network write; it rides along with the
	// first real entries instead.
	if len(entries) == 0 {
		return model.SyncReport{NothingToDo: true}, nil
	}

	directory, err := s.employees.GetAll(ctx)
	if err != nil {
		return model.SyncReport{}, fmt.Errorf("load employee directory: %w", err)
	}

	var report model.SyncReport
	var staged [][]string

	if len(existing) == 0 {
		staged = append(staged, mirrorHeader)
		report.HeaderAdded = true
	}

	for _, entry := range entries {
		res := buildRow(entry, directory)
		if res.Fallback {
			report.FallbackRows++
			slog.Warn("mirror row fallback, syncing raw values",
				"employee_id", entry.EmployeeID,
				"reason", res.Reason,
			)
		}
		staged = append(staged, res.Row)
	}

	if err := s.mirror.Append(ctx, staged); err != nil {
		return model.SyncReport{}, fmt.Errorf("append rows to mirror: %w", err)
	}

	report.RowsAppended = len(entries)

	slog.Info("delta sync complete",
		"entries", len(entries),
		"fallback_rows", report.FallbackRows,
		"header_added", report.HeaderAdded,
	)

	return report, nil
}

// SyncAll rebuilds the mirror from the full local log: clear, then replay
// every entry through the same row builder as delta sync, header included.
// This is the recovery path for mirror drift and is always safe to run —
// running it twice yields identical mirror content.
func (s *SyncService) SyncAll(ctx context.Context) (model.SyncReport, error) {
	report, err := s.rebuild(ctx)
	s.record(ctx, model.SyncKindFull, report, err)
	return report, err
}

func (s *SyncService) rebuild(ctx context.Context) (model.SyncReport, error) {
	if s.mirror == nil {
		return model.SyncReport{}, driven.ErrMirrorNotConfigured
	}

	// Load the log before clearing anything: if local state is unreadable,
	// the mirror must keep whatever it has.
	entries, err := s.entryLog.LoadAll(ctx)
	if err != nil {
		return model.SyncReport{}, fmt.Errorf("load entry log: %w", err)
	}

	directory, err := s.employees.GetAll(ctx)
	if err != nil {
		return model.SyncReport{}, fmt.Errorf("load employee directory: %w", err)
	}

	if err := s.mirror.Clear(ctx); err != nil {
		return model.SyncReport{}, fmt.Errorf("clear mirror: %w", err)
	}

	report := model.SyncReport{HeaderAdded: true}
	staged := [][]string{mirrorHeader}

	flush := func() error {
		if len(staged) == 0 {
			return nil
		}
		if err := s.mirror.Append(ctx, staged); err != nil {
			return fmt.Errorf("append rows to mirror: %w", err)
		}
		staged = staged[:0]
		return nil
	}

	// Rows go out in entry-log order, not timestamp order, so the mirror
	// preserves the auditable append order even for backdated entries.
	for _, entry := range entries {
		res := buildRow(entry, directory)
		if res.Fallback {
			report.FallbackRows++
			slog.Warn("mirror row fallback, syncing raw values",
				"employee_id", entry.EmployeeID,
				"reason", res.Reason,
			)
		}
		staged = append(staged, res.Row)

		if len(staged) >= syncBatchSize {
			if err := flush(); err != nil {
				return model.SyncReport{}, err
			}
		}
	}

	if err := flush(); err != nil {
		return model.SyncReport{}, err
	}

	report.RowsAppended = len(entries)

	slog.Info("full resync complete",
		"entries", len(entries),
		"fallback_rows", report.FallbackRows,
	)

	return report, nil
}

// ListAttempts returns the most recent journal records, newest first.
func (s *SyncService) ListAttempts(ctx context.Context, limit int) ([]model.SyncAttempt, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ListRecent(ctx, limit)
}

// record writes a journal row for the attempt. Journal failures are logged
// and swallowed: drift visibility must never break a sync, and a sync outcome
// must never depend on the journal being writable.
func (s *SyncService) record(ctx context.Context, kind model.SyncKind, report model.SyncReport, syncErr error) {
	if s.journal == nil {
		return
	}
	if syncErr == nil && report.NothingToDo {
		return
	}

	attempt := model.SyncAttempt{
		ID:           uuid.NewString(),
		Kind:         kind,
		OK:           syncErr == nil,
		RowsAppended: report.RowsAppended,
		FallbackRows: report.FallbackRows,
		CreatedAt:    s.now().UTC(),
	}
	if syncErr != nil {
		attempt.Message = syncErr.Error()
	}

	if err := s.journal.Record(ctx, attempt); err != nil {
		slog.Error("record sync attempt failed", "kind", kind, "error", err)
	}
}

// IsMirrorConfigured reports whether a remote mirror is wired in.
func (s *SyncService) IsMirrorConfigured() bool {
	return s.mirror != nil
}

// MirrorNotConfigured reports whether err is the unconfigured-mirror condition.
func MirrorNotConfigured(err error) bool {
	return errors.Is(err, driven.ErrMirrorNotConfigured)
}
