package indexcore

// Test Plan:
// - IndexCodebase on a fresh codebase chunks, embeds, and writes every file
// - HasIndex reflects whether a codebase has been indexed
// - SemanticSearch returns ranked results after indexing
// - ClearIndex drops the collection and resets HasIndex to false
// - a second indexCodebase call while one is in flight is rejected

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codectx/codectx/internal/chunk"
	"github.com/codectx/codectx/internal/embedding"
	"github.com/codectx/codectx/internal/vectorstore"
)

func newTestCore(t *testing.T) (*Core, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc Foo() {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.go"), []byte("package a\n\nfunc Bar() {}\n"), 0644))

	store, err := vectorstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := DefaultConfig(t.TempDir())
	cfg.Embedder = embedding.NewMockProvider()
	cfg.Store = store
	cfg.Chunker = chunk.New(chunk.Config{ChunkSize: 1000, ChunkOverlap: 0})

	return New(cfg), root
}

func TestCore_IndexCodebase_FirstRun(t *testing.T) {
	t.Parallel()
	core, root := newTestCore(t)

	stats, err := core.IndexCodebase(context.Background(), root, false, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesAdded)
	assert.Equal(t, "completed", stats.Status)
	assert.Greater(t, stats.ChunksWritten, 0)
}

func TestCore_IndexCodebase_SecondRunIsStable(t *testing.T) {
	t.Parallel()
	core, root := newTestCore(t)

	_, err := core.IndexCodebase(context.Background(), root, false, nil)
	require.NoError(t, err)

	stats, err := core.IndexCodebase(context.Background(), root, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesAdded)
	assert.Equal(t, 0, stats.ChunksWritten)
}

func TestCore_HasIndex(t *testing.T) {
	t.Parallel()
	core, root := newTestCore(t)

	has, err := core.HasIndex(context.Background(), root)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = core.IndexCodebase(context.Background(), root, false, nil)
	require.NoError(t, err)

	has, err = core.HasIndex(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCore_SemanticSearch(t *testing.T) {
	t.Parallel()
	core, root := newTestCore(t)

	_, err := core.IndexCodebase(context.Background(), root, false, nil)
	require.NoError(t, err)

	results, err := core.SemanticSearch(context.Background(), root, "Foo", 5, 0, nil, true)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestCore_ClearIndex(t *testing.T) {
	t.Parallel()
	core, root := newTestCore(t)

	_, err := core.IndexCodebase(context.Background(), root, false, nil)
	require.NoError(t, err)

	require.NoError(t, core.ClearIndex(context.Background(), root))

	has, err := core.HasIndex(context.Background(), root)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCore_IndexCodebase_RejectsConcurrentRun(t *testing.T) {
	t.Parallel()
	core, root := newTestCore(t)

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	require.NoError(t, core.state.begin(absRoot, false))

	_, err = core.IndexCodebase(context.Background(), root, false, nil)
	require.Error(t, err)
	assert.True(t, IsAlreadyIndexing(err))
}

func TestCore_IndexCodebase_RejectsMissingPath(t *testing.T) {
	t.Parallel()
	core, _ := newTestCore(t)

	_, err := core.IndexCodebase(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"), false, nil)
	require.Error(t, err)
	assert.True(t, IsPathNotFound(err))
}
