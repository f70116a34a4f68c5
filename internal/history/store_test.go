package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(InMemory, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.RecordQuery(ctx, "SELECT 1", true)
	store.RecordQuery(ctx, "SELEKT 1", false)

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	queries := []string{entries[0].Query, entries[1].Query}
	assert.ElementsMatch(t, []string{"SELECT 1", "SELEKT 1"}, queries)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for range 5 {
		store.RecordQuery(ctx, "SELECT 1", true)
	}

	entries, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecentEmpty(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenFileBacked(t *testing.T) {
	path := t.TempDir() + "/history.db"

	store, err := Open(path, nil)
	require.NoError(t, err)
	store.RecordQuery(context.Background(), "SELECT 1", true)
	require.NoError(t, store.Close())

	// Reopen: migrations are idempotent and data persists.
	store, err = Open(path, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
