package driven

import "errors"

// Sentinel errors shared by driven adapters. Callers match with errors.Is.
var (
	// ErrCorrupt marks a persisted store whose contents cannot be parsed.
	// Loads must surface it instead of returning an empty result, since an
	// empty result is indistinguishable from "no data yet" and would risk
	// data loss on the next overwrite.
	ErrCorrupt = errors.New("storage corrupt")

	// ErrBusy marks lock contention on a shared store file. Retryable.
	ErrBusy = errors.New("storage busy")

	// ErrNotFound marks a lookup of a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists marks an insert that would overwrite an existing record.
	ErrExists = errors.New("already exists")

	// ErrMirrorNotConfigured marks a sync attempted without a remote mirror
	// configured. Local durability is unaffected.
	ErrMirrorNotConfigured = errors.New("mirror not configured")
)
