package filesync

// Test Plan:
// - Watch delivers a ChangeSet after a file is created post-start
// - Watch returns when its context is cancelled

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizer_WatchDetectsNewFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")

	s := newTestSynchronizer(t, root)
	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	changesCh := make(chan *ChangeSet, 4)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, WatchOptions{DebounceInterval: 50 * time.Millisecond}, func(cs *ChangeSet) {
			changesCh <- cs
		})
	}()

	time.Sleep(100 * time.Millisecond) // let the watcher finish registering directories
	writeFile(t, root, "b.go", "package a")

	select {
	case cs := <-changesCh:
		assert.Contains(t, cs.Added, "b.go")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch to report a change")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestSynchronizer_WatchStopsOnContextCancel(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(root, 0755))

	s := newTestSynchronizer(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a"), 0644))
	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, WatchOptions{}, nil)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after context cancellation")
	}
}
