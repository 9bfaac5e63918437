package application_test

import (
	"context"
	"time"

	"github.com/punchcardhq/punchcard/internal/domain/model"
)

// --- Mock implementations ---

type mockEntryLog struct {
	appended []model.TimeEntry
	append   func(ctx context.Context, entry model.TimeEntry) error
	loadAll  func(ctx context.Context) ([]model.TimeEntry, error)
}

func (m *mockEntryLog) Append(ctx context.Context, entry model.TimeEntry) error {
	if m.append != nil {
		if err := m.append(ctx, entry); err != nil {
			return err
		}
	}
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockEntryLog) LoadAll(ctx context.Context) ([]model.TimeEntry, error) {
	if m.loadAll != nil {
		return m.loadAll(ctx)
	}
	return m.appended, nil
}

type mockEmployeeStore struct {
	employees map[string]model.Employee
	getAll    func(ctx context.Context) (map[string]model.Employee, error)
	put       func(ctx context.Context, emp model.Employee) error
	rename    func(ctx context.Context, id, name string) error
	delete    func(ctx context.Context, id string) error
}

func (m *mockEmployeeStore) GetAll(ctx context.Context) (map[string]model.Employee, error) {
	if m.getAll != nil {
		return m.getAll(ctx)
	}
	return m.employees, nil
}

func (m *mockEmployeeStore) Get(_ context.Context, id string) (*model.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

func (m *mockEmployeeStore) Put(ctx context.Context, emp model.Employee) error {
	if m.put != nil {
		return m.put(ctx, emp)
	}
	if m.employees == nil {
		m.employees = make(map[string]model.Employee)
	}
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeStore) Rename(ctx context.Context, id, name string) error {
	if m.rename != nil {
		return m.rename(ctx, id, name)
	}
	emp := m.employees[id]
	emp.Name = name
	m.employees[id] = emp
	return nil
}

func (m *mockEmployeeStore) Delete(ctx context.Context, id string) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	delete(m.employees, id)
	return nil
}

// mockMirror records every call so tests can assert exactly what was pushed.
type mockMirror struct {
	rows       [][]string
	readCalls  int
	appends    [][][]string
	clearCalls int

	readErr   error
	appendErr error
	clearErr  error
}

func (m *mockMirror) Read(_ context.Context) ([][]string, error) {
	m.readCalls++
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.rows, nil
}

func (m *mockMirror) Append(_ context.Context, rows [][]string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appends = append(m.appends, rows)
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *mockMirror) Clear(_ context.Context) error {
	m.clearCalls++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.rows = nil
	return nil
}

type mockJournal struct {
	recorded  []model.SyncAttempt
	recordErr error
}

func (m *mockJournal) Record(_ context.Context, attempt model.SyncAttempt) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, attempt)
	return nil
}

func (m *mockJournal) ListRecent(_ context.Context, limit int) ([]model.SyncAttempt, error) {
	if limit > len(m.recorded) {
		limit = len(m.recorded)
	}
	return m.recorded[:limit], nil
}

// mockAuthorizer accepts exactly one code.
type mockAuthorizer struct {
	accept string
}

func (m *mockAuthorizer) Validate(code, _ string, _ time.Time) bool {
	return code == m.accept
}

type mockIssuer struct {
	secret string
}

func (m *mockIssuer) GenerateSecret(_ string) (string, error) {
	return m.secret, nil
}

func (m *mockIssuer) ProvisioningURI(employeeID, secret string) string {
	return "otpauth://totp/Test:" + employeeID + "?secret=" + secret + "&issuer=Test"
}

func (m *mockIssuer) QRCode(_, _ string, _ int) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}
