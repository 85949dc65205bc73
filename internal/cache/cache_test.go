package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclomatic/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	functions := []model.FunctionMetrics{{Name: "Foo", Complexity: 2}, {Name: "Bar", Complexity: 1}}
	require.NoError(t, store.Put(ctx, "abc", functions))

	cached, ok, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, functions, cached)
}

func TestStorePutOverwritesAndKeepsEmptyResults(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "fp", []model.FunctionMetrics{{Name: "Old", Complexity: 5}}))
	require.NoError(t, store.Put(ctx, "fp", nil))

	cached, ok, err := store.Get(ctx, "fp")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, cached)
}

func TestStoreReopenKeepsResults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "fp", []model.FunctionMetrics{{Name: "Keep", Complexity: 3}}))
	require.NoError(t, store.Close())

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	cached, ok, err := reopened.Get(ctx, "fp")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []model.FunctionMetrics{{Name: "Keep", Complexity: 3}}, cached)
	assert.Equal(t, dbPath, reopened.Path())
}
