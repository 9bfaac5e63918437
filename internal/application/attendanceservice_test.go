package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcardhq/punchcard/internal/application"
	"github.com/punchcardhq/punchcard/internal/domain/model"
)

func newAttendanceFixture(mirror *mockMirror) (*application.AttendanceService, *mockEntryLog) {
	log := &mockEntryLog{}
	store := &mockEmployeeStore{employees: testDirectory}
	sync := application.NewSyncService(log, store, mirror, nil)
	svc := application.NewAttendanceService(store, log, &mockAuthorizer{accept: "123456"}, sync)
	return svc, log
}

func TestCheckIn_Success(t *testing.T) {
	mirror := &mockMirror{rows: [][]string{headerRow}}
	svc, log := newAttendanceFixture(mirror)

	res, err := svc.CheckIn(context.Background(), "e1", "123456")

	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.Empty(t, res.SyncError)
	assert.Equal(t, "e1", res.Entry.EmployeeID)
	assert.Equal(t, model.EntryIn, res.Entry.Type)
	assert.NotEmpty(t, res.Entry.Timestamp)

	require.Len(t, log.appended, 1)
	assert.Equal(t, res.Entry, log.appended[0])
	assert.Len(t, mirror.appends, 1)
}

func TestCheckOut_Success(t *testing.T) {
	svc, log := newAttendanceFixture(&mockMirror{rows: [][]string{headerRow}})

	res, err := svc.CheckOut(context.Background(), "e2", "123456")

	require.NoError(t, err)
	assert.Equal(t, model.EntryOut, res.Entry.Type)
	require.Len(t, log.appended, 1)
}

func TestCheck_RejectedCodeLeavesLogUntouched(t *testing.T) {
	mirror := &mockMirror{}
	svc, log := newAttendanceFixture(mirror)

	_, err := svc.CheckIn(context.Background(), "e1", "000000")

	assert.ErrorIs(t, err, application.ErrInvalidCode)
	assert.Empty(t, log.appended)
	assert.Zero(t, mirror.readCalls, "no sync on a rejected attempt")
}

func TestCheck_UnknownEmployee(t *testing.T) {
	svc, log := newAttendanceFixture(&mockMirror{})

	_, err := svc.CheckIn(context.Background(), "ghost", "123456")

	assert.ErrorIs(t, err, application.ErrUnknownEmployee)
	assert.Empty(t, log.appended)
}

func TestCheck_MirrorFailureDegradesButRecords(t *testing.T) {
	mirror := &mockMirror{readErr: errors.New("network unreachable")}
	svc, log := newAttendanceFixture(mirror)

	res, err := svc.CheckIn(context.Background(), "e1", "123456")

	// The entry is durable locally; the failed push is reported, not fatal.
	require.NoError(t, err)
	assert.False(t, res.Synced)
	assert.Contains(t, res.SyncError, "network unreachable")
	require.Len(t, log.appended, 1)
}

func TestCheck_AppendFailureIsFatal(t *testing.T) {
	log := &mockEntryLog{append: func(context.Context, model.TimeEntry) error {
		return errors.New("disk full")
	}}
	store := &mockEmployeeStore{employees: testDirectory}
	mirror := &mockMirror{}
	sync := application.NewSyncService(log, store, mirror, nil)
	svc := application.NewAttendanceService(store, log, &mockAuthorizer{accept: "123456"}, sync)

	_, err := svc.CheckIn(context.Background(), "e1", "123456")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "append entry to local log")
	assert.Zero(t, mirror.readCalls, "no sync is attempted on top of an unrecorded event")
}

func TestManualEntry_SkipsAuthorization(t *testing.T) {
	log := &mockEntryLog{}
	store := &mockEmployeeStore{employees: testDirectory}
	sync := application.NewSyncService(log, store, &mockMirror{rows: [][]string{headerRow}}, nil)
	// An authorizer that accepts nothing: manual entries must not consult it.
	svc := application.NewAttendanceService(store, log, &mockAuthorizer{}, sync)

	res, err := svc.ManualEntry(context.Background(), "e1", "2024-01-01T09:00:00", model.EntryIn)

	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T09:00:00", res.Entry.Timestamp)
	require.Len(t, log.appended, 1)
}

func TestManualEntry_EmptyTimestampMeansNow(t *testing.T) {
	svc, log := newAttendanceFixture(&mockMirror{rows: [][]string{headerRow}})

	res, err := svc.ManualEntry(context.Background(), "e1", "", model.EntryOut)

	require.NoError(t, err)
	assert.NotEmpty(t, res.Entry.Timestamp)
	require.Len(t, log.appended, 1)
}

func TestManualEntry_InvalidType(t *testing.T) {
	svc, log := newAttendanceFixture(&mockMirror{})

	_, err := svc.ManualEntry(context.Background(), "e1", "", model.EntryType("lunch"))

	assert.ErrorIs(t, err, application.ErrInvalidEntryType)
	assert.Empty(t, log.appended)
}

func TestManualEntry_UnknownEmployee(t *testing.T) {
	svc, log := newAttendanceFixture(&mockMirror{})

	_, err := svc.ManualEntry(context.Background(), "ghost", "", model.EntryIn)

	assert.ErrorIs(t, err, application.ErrUnknownEmployee)
	assert.Empty(t, log.appended)
}
