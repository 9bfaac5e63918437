package driven

import (
	"context"

	"github.com/punchcardhq/punchcard/internal/domain/model"
)

// SyncJournal records the outcome of every mirror sync for drift diagnosis.
type SyncJournal interface {
	Record(ctx context.Context, attempt model.SyncAttempt) error
	// ListRecent returns up to limit attempts, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.SyncAttempt, error)
}
