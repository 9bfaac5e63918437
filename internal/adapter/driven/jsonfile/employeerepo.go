package jsonfile

import (
	"context"
	"fmt"
	"time"

	"github.com/punchcardhq/punchcard/internal/domain/model"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.EmployeeStore = (*EmployeeRepo)(nil)

// employeeRecord is the persisted shape. The file is a single JSON object
// keyed by employee ID.
type employeeRecord struct {
	Name       string `json:"name"`
	TOTPSecret string `json:"totpSecret"`
}

// EmployeeRepo is the JSON-file implementation of the EmployeeStore port.
// Every mutation rewrites the whole file under the store lock.
type EmployeeRepo struct {
	store *fileStore
}

// NewEmployeeRepo creates an EmployeeRepo backed by the JSON file at path.
func NewEmployeeRepo(path string, lockTimeout time.Duration) *EmployeeRepo {
	return &EmployeeRepo{store: newFileStore(path, lockTimeout)}
}

// GetAll returns the full directory keyed by employee ID.
func (r *EmployeeRepo) GetAll(ctx context.Context) (map[string]model.Employee, error) {
	var out map[string]model.Employee
	err := r.store.withLock(ctx, func() error {
		records, err := r.load()
		if err != nil {
			return err
		}
		out = make(map[string]model.Employee, len(records))
		for id, rec := range records {
			out[id] = model.Employee{ID: id, Name: rec.Name, TOTPSecret: rec.TOTPSecret}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the employee with the given ID, or nil if absent.
func (r *EmployeeRepo) Get(ctx context.Context, id string) (*model.Employee, error) {
	var out *model.Employee
	err := r.store.withLock(ctx, func() error {
		records, err := r.load()
		if err != nil {
			return err
		}
		if rec, ok := records[id]; ok {
			out = &model.Employee{ID: id, Name: rec.Name, TOTPSecret: rec.TOTPSecret}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put creates a new employee record. The existence check runs under the same
// lock as the write, so two concurrent provisionings of one ID cannot both
// succeed.
func (r *EmployeeRepo) Put(ctx context.Context, emp model.Employee) error {
	return r.store.withLock(ctx, func() error {
		records, err := r.load()
		if err != nil {
			return err
		}
		if _, ok := records[emp.ID]; ok {
			return fmt.Errorf("employee %q: %w", emp.ID, driven.ErrExists)
		}
		records[emp.ID] = employeeRecord{Name: emp.Name, TOTPSecret: emp.TOTPSecret}
		return r.store.write(records)
	})
}

// Rename updates the display name only. The TOTP secret is immutable.
func (r *EmployeeRepo) Rename(ctx context.Context, id, name string) error {
	return r.store.withLock(ctx, func() error {
		records, err := r.load()
		if err != nil {
			return err
		}
		rec, ok := records[id]
		if !ok {
			return fmt.Errorf("employee %q: %w", id, driven.ErrNotFound)
		}
		rec.Name = name
		records[id] = rec
		return r.store.write(records)
	})
}

// Delete removes the employee record. Log entries referencing the ID remain.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	return r.store.withLock(ctx, func() error {
		records, err := r.load()
		if err != nil {
			return err
		}
		if _, ok := records[id]; !ok {
			return fmt.Errorf("employee %q: %w", id, driven.ErrNotFound)
		}
		delete(records, id)
		return r.store.write(records)
	})
}

// load must be called with the store lock held.
func (r *EmployeeRepo) load() (map[string]employeeRecord, error) {
	records := map[string]employeeRecord{}
	if err := r.store.readInto(&records); err != nil {
		return nil, err
	}
	return records, nil
}
