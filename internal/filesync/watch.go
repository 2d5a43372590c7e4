package filesync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures continuous watch mode.
type WatchOptions struct {
	// DebounceInterval batches bursts of filesystem events before
	// triggering a re-sync. Defaults to 500ms, the teacher's value.
	DebounceInterval time.Duration
}

// Watch blocks, re-running Sync whenever the tree changes (debounced), and
// calls onChange with each sync's ChangeSet. It returns when ctx is
// cancelled or the underlying fsnotify watcher fails to start.
//
// This is a supplement beyond sync()'s one-shot contract, layered on top of
// it so a long-running process can keep a collection live.
func (s *Synchronizer) Watch(ctx context.Context, opts WatchOptions, onChange func(*ChangeSet)) error {
	if opts.DebounceInterval <= 0 {
		opts.DebounceInterval = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("filesync: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := s.addDirectoriesRecursively(watcher, s.cfg.CodebaseRoot); err != nil {
		return fmt.Errorf("filesync: watch codebase root: %w", err)
	}

	var mu sync.Mutex
	var debounceTimer *time.Timer
	resyncCh := make(chan struct{}, 1)

	scheduleResync := func() {
		mu.Lock()
		defer mu.Unlock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(opts.DebounceInterval, func() {
			select {
			case resyncCh <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = s.addDirectoriesRecursively(watcher, event.Name)
				}
			}

			scheduleResync()

		case <-resyncCh:
			changes, err := s.Sync(ctx)
			if err != nil {
				continue // a failed sync leaves the manifest untouched; retry on the next event
			}
			if onChange != nil {
				onChange(changes)
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func (s *Synchronizer) addDirectoriesRecursively(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(s.cfg.CodebaseRoot, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if relPath != "." && s.ignore.shouldIgnore(relPath) {
			return filepath.SkipDir
		}

		if err := watcher.Add(path); err != nil {
			return nil // best-effort: one unwatchable directory shouldn't abort the walk
		}
		return nil
	})
}
