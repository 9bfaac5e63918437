package model

import "time"

// SyncKind distinguishes incremental pushes from full mirror rebuilds.
type SyncKind string

const (
	SyncKindDelta SyncKind = "delta"
	SyncKindFull  SyncKind = "full"
)

// SyncReport summarizes one push to the remote mirror.
type SyncReport struct {
	// NothingToDo is set when there were no rows worth appending and no
	// network append was performed.
	NothingToDo bool
	// HeaderAdded is set when the header row was staged because the mirror
	// was empty.
	HeaderAdded bool
	// RowsAppended counts data rows pushed, header excluded.
	RowsAppended int
	// FallbackRows counts rows that could not be formatted and were pushed
	// with the entry's raw field values instead.
	FallbackRows int
}

// SyncAttempt is a journal record of one sync, successful or not. The journal
// exists for drift visibility; it is never consulted to decide what to sync.
type SyncAttempt struct {
	ID           string
	Kind         SyncKind
	OK           bool
	Message      string
	RowsAppended int
	FallbackRows int
	CreatedAt    time.Time
}
