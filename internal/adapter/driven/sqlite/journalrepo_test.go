package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcardhq/punchcard/internal/domain/model"
)

func TestJournalRepo_RecordAndListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepo(db)
	ctx := context.Background()

	attempt := model.SyncAttempt{
		ID:           "a1",
		Kind:         model.SyncKindDelta,
		OK:           true,
		Message:      "appended 3 rows",
		RowsAppended: 3,
		FallbackRows: 1,
		CreatedAt:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Record(ctx, attempt))

	attempts, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	got := attempts[0]
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, model.SyncKindDelta, got.Kind)
	assert.True(t, got.OK)
	assert.Equal(t, "appended 3 rows", got.Message)
	assert.Equal(t, 3, got.RowsAppended)
	assert.Equal(t, 1, got.FallbackRows)
	assert.True(t, attempt.CreatedAt.Equal(got.CreatedAt))
}

func TestJournalRepo_ListRecent_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepo(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := range 3 {
		require.NoError(t, repo.Record(ctx, model.SyncAttempt{
			ID:        fmt.Sprintf("a%d", i),
			Kind:      model.SyncKindFull,
			OK:        true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	attempts, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	assert.Equal(t, "a2", attempts[0].ID)
	assert.Equal(t, "a1", attempts[1].ID)
	assert.Equal(t, "a0", attempts[2].ID)
}

func TestJournalRepo_ListRecent_Limit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepo(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, repo.Record(ctx, model.SyncAttempt{
			ID:        fmt.Sprintf("a%d", i),
			Kind:      model.SyncKindDelta,
			OK:        i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	attempts, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "a4", attempts[0].ID)
	assert.Equal(t, "a3", attempts[1].ID)
}

func TestJournalRepo_RecordRejectsUnknownKind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepo(db)

	err := repo.Record(context.Background(), model.SyncAttempt{
		ID:        "bad",
		Kind:      model.SyncKind("partial"),
		CreatedAt: time.Now(),
	})

	assert.Error(t, err)
}

func TestJournalRepo_ListRecent_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepo(db)

	attempts, err := repo.ListRecent(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, attempts)
}
