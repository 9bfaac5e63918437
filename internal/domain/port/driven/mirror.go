package driven

import "context"

// Mirror abstracts the remote spreadsheet that receives a human-readable
// projection of the local entry log. The mirror is reporting surface only:
// on any conflict between mirror content and the local log, the log wins.
type Mirror interface {
	// Read returns the current mirror rows. An empty slice means the
	// configured range holds no values yet.
	Read(ctx context.Context) ([][]string, error)
	// Append adds the rows after the last populated row, in one batch.
	Append(ctx context.Context, rows [][]string) error
	// Clear removes every value from the configured range.
	Clear(ctx context.Context) error
}
