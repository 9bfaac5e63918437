package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/punchcardhq/punchcard/internal/domain/model"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// User-facing rejection errors. Both leave the entry log untouched.
var (
	// ErrInvalidCode means the submitted one-time code was rejected. The
	// caller may retry with a fresh code.
	ErrInvalidCode = errors.New("invalid or empty code")

	// ErrUnknownEmployee means the employee ID has no directory record.
	ErrUnknownEmployee = errors.New("unknown employee")

	// ErrInvalidEntryType means the entry type was neither "in" nor "out".
	ErrInvalidEntryType = errors.New(`entry type must be "in" or "out"`)
)

// Authorizer checks a submitted one-time code against an employee secret.
type Authorizer interface {
	Validate(code, secret string, now time.Time) bool
}

// Result reports the outcome of one check action. When error is nil the
// entry is durably recorded locally; Synced tells whether the mirror push
// also succeeded, with SyncError carrying the reason when it did not.
type Result struct {
	Entry     model.TimeEntry
	Synced    bool
	SyncError string
}

// AttendanceService orchestrates a check action: authorize via TOTP, commit
// to the local entry log, then best-effort push to the mirror.
type AttendanceService struct {
	employees  driven.EmployeeStore
	entryLog   driven.EntryLog
	authorizer Authorizer
	sync       *SyncService
	now        func() time.Time
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(
	employees driven.EmployeeStore,
	entryLog driven.EntryLog,
	authorizer Authorizer,
	sync *SyncService,
) *AttendanceService {
	return &AttendanceService{
		employees:  employees,
		entryLog:   entryLog,
		authorizer: authorizer,
		sync:       sync,
		now:        time.Now,
	}
}

// CheckIn records an "in" event after verifying the submitted one-time code.
func (s *AttendanceService) CheckIn(ctx context.Context, employeeID, code string) (Result, error) {
	return s.check(ctx, employeeID, code, model.EntryIn)
}

// CheckOut records an "out" event after verifying the submitted one-time code.
func (s *AttendanceService) CheckOut(ctx context.Context, employeeID, code string) (Result, error) {
	return s.check(ctx, employeeID, code, model.EntryOut)
}

func (s *AttendanceService) check(ctx context.Context, employeeID, code string, entryType model.EntryType) (Result, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return Result{}, fmt.Errorf("load employee %q: %w", employeeID, err)
	}
	if emp == nil {
		return Result{}, ErrUnknownEmployee
	}

	// Rejected attempts never touch the log.
	if !s.authorizer.Validate(code, emp.TOTPSecret, s.now()) {
		slog.Info("check rejected", "employee_id", employeeID, "type", entryType)
		return Result{}, ErrInvalidCode
	}

	entry := model.TimeEntry{
		EmployeeID: employeeID,
		Timestamp:  s.now().Format(model.TimestampLayout),
		Type:       entryType,
	}

	return s.recordAndSync(ctx, entry)
}

// ManualEntry records an administrative, possibly backdated entry. It follows
// the same path as a check action but skips code authorization. An empty
// timestamp means "now".
func (s *AttendanceService) ManualEntry(ctx context.Context, employeeID, timestamp string, entryType model.EntryType) (Result, error) {
	if entryType != model.EntryIn && entryType != model.EntryOut {
		return Result{}, ErrInvalidEntryType
	}

	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return Result{}, fmt.Errorf("load employee %q: %w", employeeID, err)
	}
	if emp == nil {
		return Result{}, ErrUnknownEmployee
	}

	if timestamp == "" {
		timestamp = s.now().Format(model.TimestampLayout)
	}

	entry := model.TimeEntry{
		EmployeeID: employeeID,
		Timestamp:  timestamp,
		Type:       entryType,
	}

	return s.recordAndSync(ctx, entry)
}

// recordAndSync commits the entry to the local log, then pushes just that
// entry to the mirror. The local append must succeed first: no sync is ever
// attempted on top of an unrecorded event. The entry log lock is already
// released when the mirror call starts, so a slow remote cannot block other
// writers.
func (s *AttendanceService) recordAndSync(ctx context.Context, entry model.TimeEntry) (Result, error) {
	if err := s.entryLog.Append(ctx, entry); err != nil {
		return Result{}, fmt.Errorf("append entry to local log: %w", err)
	}

	res := Result{Entry: entry}

	if _, err := s.sync.SyncDelta(ctx, []model.TimeEntry{entry}); err != nil {
		// The entry is durable locally; the next delta or full sync is the
		// retry mechanism. No background requeue.
		slog.Warn("entry recorded locally but mirror sync failed",
			"employee_id", entry.EmployeeID,
			"type", entry.Type,
			"error", err,
		)
		res.SyncError = err.Error()
		return res, nil
	}

	res.Synced = true
	slog.Info("entry recorded and mirrored", "employee_id", entry.EmployeeID, "type", entry.Type)
	return res, nil
}
