package filesync

// Test Plan:
// - First Sync on a fresh tree classifies every file as Added
// - A second Sync with no changes reports empty sets
// - Editing a file's content is classified as Modified
// - Deleting a file is classified as Removed
// - Ignored files never appear in any set
// - .gitignore files discovered in the tree are honored
// - The manifest is atomically persisted and reloaded across Synchronizer instances

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSynchronizer(t *testing.T, root string, ignore ...string) *Synchronizer {
	t.Helper()
	s, err := New(Config{
		CodebaseRoot:   root,
		DataDir:        t.TempDir(),
		IgnorePatterns: ignore,
	})
	require.NoError(t, err)
	require.NoError(t, s.Initialize())
	return s
}

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestSynchronizer_FirstSyncAddsEverything(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")
	writeFile(t, root, "sub/b.go", "package sub")

	s := newTestSynchronizer(t, root)
	changes, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a.go", "sub/b.go"}, changes.Added)
	assert.Empty(t, changes.Modified)
	assert.Empty(t, changes.Removed)
}

func TestSynchronizer_SecondSyncIsStable(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")

	s := newTestSynchronizer(t, root)
	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	changes, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes.Added)
	assert.Empty(t, changes.Modified)
	assert.Empty(t, changes.Removed)
}

func TestSynchronizer_DetectsModification(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")

	s := newTestSynchronizer(t, root)
	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	writeFile(t, root, "a.go", "package a // changed")

	changes, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, changes.Modified)
}

func TestSynchronizer_DetectsRemoval(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")
	writeFile(t, root, "b.go", "package b")

	s := newTestSynchronizer(t, root)
	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "b.go")))

	changes, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.go"}, changes.Removed)
}

func TestSynchronizer_HonorsIgnorePatterns(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}")

	s := newTestSynchronizer(t, root, "node_modules/**")
	changes, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go"}, changes.Added)
}

func TestSynchronizer_HonorsDiscoveredGitignore(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")
	writeFile(t, root, "build/out.bin", "binary")
	writeFile(t, root, ".gitignore", "build/\n")

	s := newTestSynchronizer(t, root)
	changes, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Contains(t, changes.Added, "a.go")
	assert.NotContains(t, changes.Added, "build/out.bin")
}

func TestSynchronizer_ManifestPersistsAcrossInstances(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	dataDir := t.TempDir()
	writeFile(t, root, "a.go", "package a")

	s1, err := New(Config{CodebaseRoot: root, DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, s1.Initialize())
	_, err = s1.Sync(context.Background())
	require.NoError(t, err)

	s2, err := New(Config{CodebaseRoot: root, DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, s2.Initialize())

	changes, err := s2.Sync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes.Added, "second synchronizer should see a.go as already tracked")
}

func TestRemoveManifest_ClearsPersistedState(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	dataDir := t.TempDir()
	writeFile(t, root, "a.go", "package a")

	s1, err := New(Config{CodebaseRoot: root, DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, s1.Initialize())
	_, err = s1.Sync(context.Background())
	require.NoError(t, err)

	require.NoError(t, RemoveManifest(dataDir, root))

	s2, err := New(Config{CodebaseRoot: root, DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, s2.Initialize())

	changes, err := s2.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, changes.Added, "a.go should look new again once the manifest is removed")
}

func TestDeriveName_StableAndFilesystemSafe(t *testing.T) {
	t.Parallel()

	a := DeriveName("/home/user/project")
	b := DeriveName("/home/user/project")
	c := DeriveName("/home/user/other-project")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotContains(t, a, "/")
}
