package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/codectx/codectx/internal/config"
	"github.com/codectx/codectx/internal/embedding"
	"github.com/codectx/codectx/internal/indexcore"
	"github.com/codectx/codectx/internal/vectorstore"
)

// codebase bundles one path's live Core with the resources it owns, so
// they can be released together when the server shuts down.
type codebase struct {
	core     *indexcore.Core
	store    vectorstore.VectorStore
	provider embedding.Provider
}

func (c *codebase) Close() error {
	embedErr := c.provider.Close()
	storeErr := c.store.Close()
	if embedErr != nil {
		return embedErr
	}
	return storeErr
}

// coreRegistry lazily builds and caches one indexcore.Core per codebase
// root, since each call into the tool surface names its own path and the
// server process outlives any single tool call.
type coreRegistry struct {
	mu     sync.Mutex
	byRoot map[string]*codebase
}

func newCoreRegistry() *coreRegistry {
	return &coreRegistry{byRoot: make(map[string]*codebase)}
}

func (r *coreRegistry) get(path string) (*indexcore.Core, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.byRoot[absPath]; ok {
		return cb.core, nil
	}

	cb, err := buildCodebase(absPath)
	if err != nil {
		return nil, err
	}
	r.byRoot[absPath] = cb
	return cb.core, nil
}

func (r *coreRegistry) closeAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, cb := range r.byRoot {
		if err := cb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildCodebase(rootDir string) (*codebase, error) {
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cacheDir, err := cacheBaseDir()
	if err != nil {
		return nil, err
	}

	store, err := openVectorStore(cfg, cacheDir)
	if err != nil {
		return nil, err
	}

	provider, err := embedding.New(embedding.Config{
		Provider: cfg.Embedding.Provider,
		Endpoint: cfg.Embedding.Endpoint,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	icCfg := cfg.ToIndexCoreConfig(filepath.Join(cacheDir, "manifests"))
	icCfg.Embedder = provider
	icCfg.Store = store

	return &codebase{core: indexcore.New(icCfg), store: store, provider: provider}, nil
}

func openVectorStore(cfg *config.Config, cacheDir string) (vectorstore.VectorStore, error) {
	switch cfg.VectorStore.Backend {
	case "chromem":
		return vectorstore.NewChromemStore(), nil
	case "sqlite", "":
		path := cfg.VectorStore.Path
		if path == "" {
			path = filepath.Join(cacheDir, "vectors.db")
		}
		store, err := vectorstore.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported vector_store.backend %q", cfg.VectorStore.Backend)
	}
}

func cacheBaseDir() (string, error) {
	globalCfg, err := config.LoadGlobalConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load global configuration: %w", err)
	}
	if err := os.MkdirAll(globalCfg.Cache.BaseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return globalCfg.Cache.BaseDir, nil
}

// manifestsDir returns the shared directory the snapshot and every
// codebase's FileSynchronizer manifest are stored under.
func manifestsDir() (string, error) {
	cacheDir, err := cacheBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "manifests"), nil
}
