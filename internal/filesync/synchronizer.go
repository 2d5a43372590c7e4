package filesync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// ChangeSet is the result of one sync() call: three disjoint sets of
// relative paths, classified against the previous manifest.
type ChangeSet struct {
	Added    []string
	Modified []string
	Removed  []string
}

// Config configures a Synchronizer for one codebase.
type Config struct {
	// CodebaseRoot is the absolute path of the codebase being synced.
	CodebaseRoot string
	// DataDir is the process-owned directory manifests are written under.
	DataDir string
	// IgnorePatterns are gitignore-style globs evaluated in addition to
	// any .gitignore files discovered in the tree.
	IgnorePatterns []string
}

// Synchronizer tracks one codebase's file state across sync() calls via a
// durable, atomically-written manifest.
type Synchronizer struct {
	cfg      Config
	manifest *Manifest
	ignore   *ignoreSet
}

// New builds a Synchronizer. Call Initialize before the first Sync.
func New(cfg Config) (*Synchronizer, error) {
	ignore, err := newIgnoreSet(cfg.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("filesync: compile ignore patterns: %w", err)
	}
	return &Synchronizer{cfg: cfg, ignore: ignore}, nil
}

// Initialize loads the persisted manifest, starting empty if none exists.
func (s *Synchronizer) Initialize() error {
	m, err := loadManifest(s.cfg.DataDir, s.cfg.CodebaseRoot)
	if err != nil {
		return err
	}
	s.manifest = m
	return nil
}

// Sync walks the codebase root, classifies every file against the current
// manifest, and atomically writes the new manifest reflecting post-sync
// reality — even if the caller never applies the returned deltas. Per-file
// I/O errors are tolerated: the file is treated as removed for this cycle
// rather than aborting the whole sync.
func (s *Synchronizer) Sync(ctx context.Context) (*ChangeSet, error) {
	if s.manifest == nil {
		if err := s.Initialize(); err != nil {
			return nil, err
		}
	}

	if err := s.ignore.loadIgnoreFilesUnder(s.cfg.CodebaseRoot); err != nil {
		return nil, fmt.Errorf("filesync: load ignore files: %w", err)
	}

	changes := &ChangeSet{}
	seen := make(map[string]bool, len(s.manifest.Entries))
	next := newManifest()

	err := filepath.Walk(s.cfg.CodebaseRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, relErr := filepath.Rel(s.cfg.CodebaseRoot, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && s.ignore.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.ignore.shouldIgnore(relPath) {
			return nil
		}

		hash, hashErr := hashFile(path)
		if hashErr != nil {
			// Treated as removed for this cycle; a transient read error
			// shouldn't abort the entire sync.
			return nil
		}

		entry := Entry{Hash: hash, Mtime: info.ModTime().UnixNano()}
		next.Entries[relPath] = entry
		seen[relPath] = true

		prev, existed := s.manifest.Entries[relPath]
		switch {
		case !existed:
			changes.Added = append(changes.Added, relPath)
		case prev.Hash != hash:
			changes.Modified = append(changes.Modified, relPath)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("filesync: walk codebase: %w", err)
	}

	for relPath := range s.manifest.Entries {
		if !seen[relPath] {
			changes.Removed = append(changes.Removed, relPath)
		}
	}

	if err := saveManifest(s.cfg.DataDir, s.cfg.CodebaseRoot, next); err != nil {
		return nil, err
	}
	s.manifest = next

	return changes, nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
