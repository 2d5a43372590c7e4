package vectorstore

// Test Plan:
// - CreateCollection creates the docs/vec table pair and is idempotent
// - Insert validates dimension and upserts
// - Search returns nearest neighbors ordered by similarity
// - Search with a filter only returns matching documents
// - HybridSearch fuses multiple query vectors via RRF
// - HybridSearchText requires a hybrid collection
// - Query scans and projects fields
// - Delete removes documents from both tables
// - DropCollection removes a collection and HasCollection/ListCollections reflect it
// - Unknown collection operations return NotFound

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_CreateCollection(t *testing.T) {
	t.Parallel()

	t.Run("creates a new collection", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()

		require.NoError(t, store.CreateCollection(ctx, "docs", 3))

		ok, err := store.HasCollection(ctx, "docs")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()

		require.NoError(t, store.CreateCollection(ctx, "docs", 3))
		require.NoError(t, store.CreateCollection(ctx, "docs", 3))
	})

	t.Run("rejects invalid collection names", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()

		err := store.CreateCollection(ctx, "bad name!", 3)
		require.Error(t, err)
	})
}

func TestSQLiteStore_InsertAndSearch(t *testing.T) {
	t.Parallel()

	t.Run("inserts and finds nearest neighbor", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()
		require.NoError(t, store.CreateCollection(ctx, "docs", 3))

		docs := []Document{
			{ID: "close", Vector: []float32{1, 0, 0}, Content: "a", RelativePath: "a.go", FileExtension: ".go"},
			{ID: "far", Vector: []float32{0, 1, 0}, Content: "b", RelativePath: "b.go", FileExtension: ".go"},
		}
		require.NoError(t, store.Insert(ctx, "docs", docs))

		results, err := store.Search(ctx, "docs", []float32{1, 0, 0}, SearchOptions{TopK: 2})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "close", results[0].Document.ID)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("rejects dimension mismatch", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()
		require.NoError(t, store.CreateCollection(ctx, "docs", 3))

		err := store.Insert(ctx, "docs", []Document{{ID: "x", Vector: []float32{1, 2}}})
		require.Error(t, err)
		assert.True(t, IsDimensionMismatch(err))
	})

	t.Run("upserts on repeat insert", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()
		require.NoError(t, store.CreateCollection(ctx, "docs", 3))

		doc := Document{ID: "x", Vector: []float32{1, 0, 0}, Content: "first", RelativePath: "a.go"}
		require.NoError(t, store.Insert(ctx, "docs", []Document{doc}))

		doc.Content = "second"
		require.NoError(t, store.Insert(ctx, "docs", []Document{doc}))

		results, err := store.Search(ctx, "docs", []float32{1, 0, 0}, SearchOptions{TopK: 10})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "second", results[0].Document.Content)
	})

	t.Run("search against missing collection is NotFound", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()

		_, err := store.Search(ctx, "missing", []float32{1, 0, 0}, SearchOptions{TopK: 1})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestSQLiteStore_SearchWithFilter(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	docs := []Document{
		{ID: "go-file", Vector: []float32{1, 0}, RelativePath: "a.go", FileExtension: ".go"},
		{ID: "py-file", Vector: []float32{0.99, 0.01}, RelativePath: "b.py", FileExtension: ".py"},
	}
	require.NoError(t, store.Insert(ctx, "docs", docs))

	results, err := store.Search(ctx, "docs", []float32{1, 0}, SearchOptions{
		TopK:       10,
		FilterExpr: Eq("fileExtension", ".py"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "py-file", results[0].Document.ID)
}

func TestSQLiteStore_HybridSearch(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	docs := []Document{
		{ID: "a", Vector: []float32{1, 0}, RelativePath: "a.go"},
		{ID: "b", Vector: []float32{0, 1}, RelativePath: "b.go"},
	}
	require.NoError(t, store.Insert(ctx, "docs", docs))

	results, err := store.HybridSearch(ctx, "docs", [][]float32{{1, 0}, {0.9, 0.1}}, HybridSearchOptions{Limit: 2})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "a", results[0].Document.ID)
}

func TestSQLiteStore_HybridSearchText(t *testing.T) {
	t.Parallel()

	t.Run("fuses vector and text rankings", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()
		require.NoError(t, store.CreateHybridCollection(ctx, "docs", 2))

		docs := []Document{
			{ID: "a", Vector: []float32{1, 0}, Content: "parseManifest reads sync state", RelativePath: "a.go"},
			{ID: "b", Vector: []float32{0.9, 0.1}, Content: "renderTemplate writes HTML", RelativePath: "b.go"},
		}
		require.NoError(t, store.Insert(ctx, "docs", docs))

		results, err := store.HybridSearchText(ctx, "docs", []float32{1, 0}, "parseManifest", HybridSearchOptions{Limit: 2})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "a", results[0].Document.ID)
	})

	t.Run("requires hybrid collection", func(t *testing.T) {
		store := openTestStore(t)
		ctx := context.Background()
		require.NoError(t, store.CreateCollection(ctx, "docs", 2))
		require.NoError(t, store.Insert(ctx, "docs", []Document{{ID: "a", Vector: []float32{1, 0}}}))

		_, err := store.HybridSearchText(ctx, "docs", []float32{1, 0}, "manifest", HybridSearchOptions{Limit: 2})
		require.Error(t, err)
	})
}

func TestSQLiteStore_Query(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	docs := []Document{
		{ID: "a", Vector: []float32{1, 0}, RelativePath: "a.go", FileExtension: ".go"},
		{ID: "b", Vector: []float32{0, 1}, RelativePath: "b.py", FileExtension: ".py"},
	}
	require.NoError(t, store.Insert(ctx, "docs", docs))

	rows, err := store.Query(ctx, "docs", Eq("fileExtension", ".py"), []string{"id", "relativePath"}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].Fields["id"])
	assert.Equal(t, "b.py", rows[0].Fields["relativePath"])
	_, hasExt := rows[0].Fields["fileExtension"]
	assert.False(t, hasExt, "projection should drop unrequested fields")
}

func TestSQLiteStore_Delete(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	docs := []Document{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0, 1}},
	}
	require.NoError(t, store.Insert(ctx, "docs", docs))

	require.NoError(t, store.Delete(ctx, "docs", []string{"a"}))

	results, err := store.Search(ctx, "docs", []float32{1, 0}, SearchOptions{TopK: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Document.ID)
}

func TestSQLiteStore_DropCollection(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	require.NoError(t, store.DropCollection(ctx, "docs"))

	ok, err := store.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	err = store.DropCollection(ctx, "docs")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSQLiteStore_ListCollections(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "one", 2))
	require.NoError(t, store.CreateCollection(ctx, "two", 2))

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, names)
}
