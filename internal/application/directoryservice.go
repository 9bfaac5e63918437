package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/punchcardhq/punchcard/internal/domain/model"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// ErrEmptyField means a required employee field was empty or blank.
var ErrEmptyField = errors.New("employee id and name must not be empty")

// SecretIssuer provisions TOTP credentials for new employees.
type SecretIssuer interface {
	GenerateSecret(accountName string) (string, error)
	ProvisioningURI(employeeID, secret string) string
	QRCode(employeeID, secret string, size int) ([]byte, error)
}

// Provisioned is the one-time response to adding an employee. The secret and
// URI are surfaced exactly once at provisioning time.
type Provisioned struct {
	Employee        model.Employee
	ProvisioningURI string
}

// DirectoryService manages employee records: admin-only provisioning,
// renaming, and removal.
type DirectoryService struct {
	employees driven.EmployeeStore
	issuer    SecretIssuer
}

// NewDirectoryService creates a DirectoryService.
func NewDirectoryService(employees driven.EmployeeStore, issuer SecretIssuer) *DirectoryService {
	return &DirectoryService{employees: employees, issuer: issuer}
}

// AddEmployee generates a TOTP secret, persists the new record, and returns
// the provisioning material. Duplicate IDs surface driven.ErrExists.
func (s *DirectoryService) AddEmployee(ctx context.Context, id, name string) (Provisioned, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return Provisioned{}, ErrEmptyField
	}

	secret, err := s.issuer.GenerateSecret(id)
	if err != nil {
		return Provisioned{}, err
	}

	emp := model.Employee{ID: id, Name: name, TOTPSecret: secret}
	if err := s.employees.Put(ctx, emp); err != nil {
		return Provisioned{}, err
	}

	return Provisioned{
		Employee:        emp,
		ProvisioningURI: s.issuer.ProvisioningURI(id, secret),
	}, nil
}

// RenameEmployee updates the display name of an existing employee.
func (s *DirectoryService) RenameEmployee(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyField
	}
	return s.employees.Rename(ctx, id, name)
}

// DeleteEmployee removes the directory record. Existing log entries keep
// their reference to the deleted ID and are never invalidated.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, id string) error {
	return s.employees.Delete(ctx, id)
}

// ListEmployees returns all employees sorted by ID.
func (s *DirectoryService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	directory, err := s.employees.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Employee, 0, len(directory))
	for _, emp := range directory {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// QRCode renders the provisioning QR for an existing employee's secret.
func (s *DirectoryService) QRCode(ctx context.Context, id string, size int) ([]byte, error) {
	emp, err := s.employees.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("employee %q: %w", id, driven.ErrNotFound)
	}
	return s.issuer.QRCode(emp.ID, emp.TOTPSecret, size)
}
