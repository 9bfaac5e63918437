package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcardhq/punchcard/internal/domain/model"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

const testLockTimeout = 2 * time.Second

func newTestEmployeeRepo(t *testing.T) *EmployeeRepo {
	t.Helper()
	return NewEmployeeRepo(filepath.Join(t.TempDir(), "employee_data.json"), testLockTimeout)
}

func TestEmployeeRepo_GetAll_MissingFile(t *testing.T) {
	repo := newTestEmployeeRepo(t)

	employees, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestEmployeeRepo_PutAndGet(t *testing.T) {
	repo := newTestEmployeeRepo(t)
	ctx := context.Background()

	emp := model.Employee{ID: "e1", Name: "Alice", TOTPSecret: "JBSWY3DPEHPK3PXP"}
	require.NoError(t, repo.Put(ctx, emp))

	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, emp, *got)
}

func TestEmployeeRepo_Get_Absent(t *testing.T) {
	repo := newTestEmployeeRepo(t)

	got, err := repo.Get(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmployeeRepo_Put_Duplicate(t *testing.T) {
	repo := newTestEmployeeRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, model.Employee{ID: "e1", Name: "Alice", TOTPSecret: "s1"}))
	err := repo.Put(ctx, model.Employee{ID: "e1", Name: "Bob", TOTPSecret: "s2"})

	assert.ErrorIs(t, err, driven.ErrExists)

	// The original record is untouched.
	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Name)
}

func TestEmployeeRepo_Rename(t *testing.T) {
	repo := newTestEmployeeRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, model.Employee{ID: "e1", Name: "Alice", TOTPSecret: "s1"}))
	require.NoError(t, repo.Rename(ctx, "e1", "Alicia"))

	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "s1", got.TOTPSecret, "rename must not disturb the secret")
}

func TestEmployeeRepo_Rename_Absent(t *testing.T) {
	repo := newTestEmployeeRepo(t)

	err := repo.Rename(context.Background(), "nobody", "Nobody")

	assert.ErrorIs(t, err, driven.ErrNotFound)
}

func TestEmployeeRepo_Delete(t *testing.T) {
	repo := newTestEmployeeRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, model.Employee{ID: "e1", Name: "Alice", TOTPSecret: "s1"}))
	require.NoError(t, repo.Delete(ctx, "e1"))

	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmployeeRepo_Delete_Absent(t *testing.T) {
	repo := newTestEmployeeRepo(t)

	err := repo.Delete(context.Background(), "nobody")

	assert.ErrorIs(t, err, driven.ErrNotFound)
}

func TestEmployeeRepo_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employee_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo := NewEmployeeRepo(path, testLockTimeout)

	_, err := repo.GetAll(context.Background())

	assert.ErrorIs(t, err, driven.ErrCorrupt)
}

func TestEmployeeRepo_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employee_data.json")
	ctx := context.Background()

	first := NewEmployeeRepo(path, testLockTimeout)
	require.NoError(t, first.Put(ctx, model.Employee{ID: "e1", Name: "Alice", TOTPSecret: "s1"}))

	second := NewEmployeeRepo(path, testLockTimeout)
	got, err := second.Get(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Name)
}
