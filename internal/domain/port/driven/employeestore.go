package driven

import (
	"context"

	"github.com/punchcardhq/punchcard/internal/domain/model"
)

// EmployeeStore defines the driven port for the employee directory.
// Implementations must make each mutation atomic with respect to concurrent
// writers, including writers in other processes sharing the same backing file.
type EmployeeStore interface {
	// GetAll returns the full directory keyed by employee ID.
	GetAll(ctx context.Context) (map[string]model.Employee, error)
	// Get returns the employee with the given ID, or nil if absent.
	Get(ctx context.Context, id string) (*model.Employee, error)
	// Put creates a new employee. Returns ErrExists if the ID is taken;
	// existing records, and in particular their secrets, are never replaced.
	Put(ctx context.Context, emp model.Employee) error
	// Rename updates the display name only. Returns ErrNotFound if absent.
	Rename(ctx context.Context, id, name string) error
	// Delete removes the employee record. Returns ErrNotFound if absent.
	// Entries already in the event log keep referencing the deleted ID.
	Delete(ctx context.Context, id string) error
}
