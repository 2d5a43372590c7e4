package indexcore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codectx/codectx/internal/chunk"
	"github.com/codectx/codectx/internal/embedding"
	"github.com/codectx/codectx/internal/filesync"
	"github.com/codectx/codectx/internal/ranking"
	"github.com/codectx/codectx/internal/vectorstore"
)

// maxChunksPerCollection bounds a single collection's document count
// (spec.md §4.5): indexing stops early once it would be exceeded.
const maxChunksPerCollection = 450_000

// Config wires together the components an indexCodebase/semanticSearch run
// needs. One Core serves every codebase; per-codebase state lives in the
// manifest and the VectorStore collection, not here.
type Config struct {
	DataDir        string
	IgnorePatterns []string

	Chunker  chunk.Chunker
	Embedder embedding.Provider
	Store    vectorstore.VectorStore

	BatchSize     int
	RankingConfig ranking.Config
}

// DefaultConfig mirrors the teacher's indexer defaults, generalized beyond
// documentation chunking to source code of any supported language.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		IgnorePatterns: []string{
			"node_modules/**", "vendor/**", ".git/**", "dist/**", "build/**",
			"target/**", "__pycache__/**", "*.pyc",
		},
		Chunker:       chunk.New(chunk.DefaultConfig()),
		BatchSize:     64,
		RankingConfig: ranking.DefaultConfig(),
	}
}

// Stats summarizes one indexCodebase run.
type Stats struct {
	FilesScanned  int
	FilesAdded    int
	FilesModified int
	FilesRemoved  int
	ChunksWritten int
	Status        string // "completed" or "limit_reached"
}

// Core orchestrates FileSynchronizer, Chunker, Embedder, VectorStore, and
// Ranker into the spec's public contract: indexCodebase, hasIndex,
// clearIndex, semanticSearch.
type Core struct {
	cfg   Config
	state *stateMachine
}

// New builds a Core. cfg.Chunker, cfg.Embedder, and cfg.Store must be set.
func New(cfg Config) *Core {
	return &Core{cfg: cfg, state: newStateMachine()}
}

// IndexCodebase resolves or creates the collection at the embedder's
// dimension, delegates change detection to FileSynchronizer, and for each
// affected file splits, embeds, and upserts its chunks. With force, the
// collection and the manifest are dropped first, so every file is
// reindexed. progress may be nil.
func (c *Core) IndexCodebase(ctx context.Context, path string, force bool, progress ProgressFunc) (*Stats, error) {
	absPath, err := validateCodebasePath(path)
	if err != nil {
		return nil, err
	}

	if err := c.state.begin(absPath, force); err != nil {
		return nil, err
	}
	succeeded := false
	defer func() {
		if succeeded {
			c.state.succeed(absPath)
		} else {
			c.state.fail(absPath)
		}
	}()

	report := throttle(progress, 2*time.Second)
	report(ProgressUpdate{Phase: PhaseScanning, Current: 0, Total: 1})

	if force {
		if err := c.cfg.Store.DropCollection(ctx, collectionName(absPath)); err != nil && !vectorstore.IsNotFound(err) {
			return nil, translateStoreErr("indexCodebase", err)
		}
		if err := filesync.RemoveManifest(c.cfg.DataDir, absPath); err != nil {
			return nil, newErr(KindInternal, "indexCodebase", err)
		}
	}

	sync, err := filesync.New(filesync.Config{
		CodebaseRoot:   absPath,
		DataDir:        c.cfg.DataDir,
		IgnorePatterns: c.cfg.IgnorePatterns,
	})
	if err != nil {
		return nil, newErr(KindInternal, "indexCodebase", err)
	}
	if err := sync.Initialize(); err != nil {
		return nil, newErr(KindInternal, "indexCodebase", err)
	}

	changes, err := sync.Sync(ctx)
	if err != nil {
		return nil, newErr(KindInternal, "indexCodebase", err)
	}
	report(ProgressUpdate{Phase: PhaseScanning, Current: 1, Total: 1})

	name := collectionName(absPath)
	if err := ensureCollection(ctx, c.cfg.Store, name, c.cfg.Embedder.Dimensions(), false); err != nil {
		return nil, err
	}

	stats := &Stats{
		FilesScanned:  len(changes.Added) + len(changes.Modified) + len(changes.Removed),
		FilesAdded:    len(changes.Added),
		FilesModified: len(changes.Modified),
		FilesRemoved:  len(changes.Removed),
		Status:        "completed",
	}

	toReindex := append(append([]string{}, changes.Added...), changes.Modified...)

	for _, rel := range append(append([]string{}, changes.Modified...), changes.Removed...) {
		if err := c.deleteDocumentsForFile(ctx, name, rel); err != nil {
			return nil, err
		}
	}

	written, status, err := c.reindexFiles(ctx, absPath, name, toReindex, report)
	stats.ChunksWritten = written
	if status != "" {
		stats.Status = status
	}
	if err != nil {
		return nil, err
	}

	succeeded = true
	return stats, nil
}

// HasIndex reports whether path's collection exists and holds at least one
// document.
func (c *Core) HasIndex(ctx context.Context, path string) (bool, error) {
	absPath, err := validateCodebasePath(path)
	if err != nil {
		return false, err
	}
	name := collectionName(absPath)

	exists, err := c.cfg.Store.HasCollection(ctx, name)
	if err != nil {
		return false, translateStoreErr("hasIndex", err)
	}
	if !exists {
		return false, nil
	}

	rows, err := c.cfg.Store.Query(ctx, name, nil, []string{"id"}, 1)
	if err != nil {
		return false, translateStoreErr("hasIndex", err)
	}
	return len(rows) > 0, nil
}

// ClearIndex drops path's collection and removes its manifest, transitioning
// the codebase back to unknown.
func (c *Core) ClearIndex(ctx context.Context, path string) error {
	absPath, err := validateCodebasePath(path)
	if err != nil {
		return err
	}
	name := collectionName(absPath)

	if err := c.cfg.Store.DropCollection(ctx, name); err != nil {
		return translateStoreErr("clearIndex", err)
	}
	if err := filesync.RemoveManifest(c.cfg.DataDir, absPath); err != nil {
		return newErr(KindInternal, "clearIndex", err)
	}
	c.state.clear(absPath)
	return nil
}

func (c *Core) deleteDocumentsForFile(ctx context.Context, collection, relativePath string) error {
	rows, err := c.cfg.Store.Query(ctx, collection, vectorstore.Eq("relativePath", relativePath), []string{"id"}, maxChunksPerCollection)
	if err != nil {
		return translateStoreErr("indexCodebase", err)
	}
	if len(rows) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if id, ok := r.Fields["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := c.cfg.Store.Delete(ctx, collection, ids); err != nil {
		return translateStoreErr("indexCodebase", err)
	}
	return nil
}

func validateCodebasePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", newErr(KindPathNotFound, "validatePath", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", newErr(KindPathNotFound, "validatePath", err)
		}
		return "", newErr(KindInternal, "validatePath", err)
	}
	if !info.IsDir() {
		return "", newErr(KindNotADirectory, "validatePath", fmt.Errorf("%s is not a directory", abs))
	}
	return abs, nil
}
