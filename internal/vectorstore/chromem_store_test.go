package vectorstore

// Test Plan:
// - CreateCollection/HasCollection/ListCollections roundtrip
// - Insert validates dimension and upserts via shadow map
// - Search finds nearest neighbor and honors filters
// - HybridSearch fuses multiple query vectors via RRF
// - Query scans the shadow map and projects fields
// - Delete removes from both chromem and the shadow map
// - DropCollection removes a collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromemStore_CreateCollection(t *testing.T) {
	t.Parallel()

	store := NewChromemStore()
	ctx := context.Background()

	require.NoError(t, store.CreateCollection(ctx, "docs", 3))
	require.NoError(t, store.CreateCollection(ctx, "docs", 3)) // idempotent

	ok, err := store.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChromemStore_InsertAndSearch(t *testing.T) {
	t.Parallel()

	t.Run("finds nearest neighbor", func(t *testing.T) {
		store := NewChromemStore()
		ctx := context.Background()
		require.NoError(t, store.CreateCollection(ctx, "docs", 3))

		docs := []Document{
			{ID: "close", Vector: []float32{1, 0, 0}, Content: "a", RelativePath: "a.go"},
			{ID: "far", Vector: []float32{0, 1, 0}, Content: "b", RelativePath: "b.go"},
		}
		require.NoError(t, store.Insert(ctx, "docs", docs))

		results, err := store.Search(ctx, "docs", []float32{1, 0, 0}, SearchOptions{TopK: 2})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "close", results[0].Document.ID)
	})

	t.Run("rejects dimension mismatch", func(t *testing.T) {
		store := NewChromemStore()
		ctx := context.Background()
		require.NoError(t, store.CreateCollection(ctx, "docs", 3))

		err := store.Insert(ctx, "docs", []Document{{ID: "x", Vector: []float32{1, 2}}})
		require.Error(t, err)
		assert.True(t, IsDimensionMismatch(err))
	})

	t.Run("upserts on repeat insert", func(t *testing.T) {
		store := NewChromemStore()
		ctx := context.Background()
		require.NoError(t, store.CreateCollection(ctx, "docs", 3))

		doc := Document{ID: "x", Vector: []float32{1, 0, 0}, Content: "first"}
		require.NoError(t, store.Insert(ctx, "docs", []Document{doc}))

		doc.Content = "second"
		require.NoError(t, store.Insert(ctx, "docs", []Document{doc}))

		results, err := store.Search(ctx, "docs", []float32{1, 0, 0}, SearchOptions{TopK: 10})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "second", results[0].Document.Content)
	})
}

func TestChromemStore_SearchWithFilter(t *testing.T) {
	t.Parallel()

	store := NewChromemStore()
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	docs := []Document{
		{ID: "go-file", Vector: []float32{1, 0}, FileExtension: ".go"},
		{ID: "py-file", Vector: []float32{0.99, 0.01}, FileExtension: ".py"},
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

func TestChromemStore_HybridSearch(t *testing.T) {
	t.Parallel()

	store := NewChromemStore()
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	docs := []Document{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0, 1}},
	}
	require.NoError(t, store.Insert(ctx, "docs", docs))

	results, err := store.HybridSearch(ctx, "docs", [][]float32{{1, 0}, {0.9, 0.1}}, HybridSearchOptions{Limit: 2})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "a", results[0].Document.ID)
}

func TestChromemStore_Query(t *testing.T) {
	t.Parallel()

	store := NewChromemStore()
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	docs := []Document{
		{ID: "a", Vector: []float32{1, 0}, RelativePath: "a.go", FileExtension: ".go"},
		{ID: "b", Vector: []float32{0, 1}, RelativePath: "b.py", FileExtension: ".py"},
	}
	require.NoError(t, store.Insert(ctx, "docs", docs))

	rows, err := store.Query(ctx, "docs", Eq("fileExtension", ".py"), []string{"id"}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].Fields["id"])
}

func TestChromemStore_Delete(t *testing.T) {
	t.Parallel()

	store := NewChromemStore()
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

func TestChromemStore_DropCollection(t *testing.T) {
	t.Parallel()

	store := NewChromemStore()
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 2))

	require.NoError(t, store.DropCollection(ctx, "docs"))

	ok, err := store.HasCollection(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, ok)

	err = store.DropCollection(ctx, "docs")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
