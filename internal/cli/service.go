package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codectx/codectx/internal/config"
	"github.com/codectx/codectx/internal/embedding"
	"github.com/codectx/codectx/internal/indexcore"
	"github.com/codectx/codectx/internal/vectorstore"
)

// buildCore loads project configuration rooted at rootDir, opens the
// configured vector store and embedding provider, and wires them into an
// indexcore.Core. The returned closer must be called once the command is
// done so the store's database connection (and any embedding daemon
// subprocess) are released.
func buildCore(rootDir string) (core *indexcore.Core, closer func() error, err error) {
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cacheDir, err := cacheBaseDir()
	if err != nil {
		return nil, nil, err
	}

	store, err := openVectorStore(cfg, cacheDir)
	if err != nil {
		return nil, nil, err
	}

	provider, err := embedding.New(embedding.Config{
		Provider: cfg.Embedding.Provider,
		Endpoint: cfg.Embedding.Endpoint,
	})
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	dataDir, err := manifestsDir()
	if err != nil {
		provider.Close()
		store.Close()
		return nil, nil, err
	}

	icCfg := cfg.ToIndexCoreConfig(dataDir)
	icCfg.Embedder = provider
	icCfg.Store = store

	closer = func() error {
		embedErr := provider.Close()
		storeErr := store.Close()
		if embedErr != nil {
			return embedErr
		}
		return storeErr
	}

	return indexcore.New(icCfg), closer, nil
}

// openVectorStore selects a backend per cfg.VectorStore.Backend. "chromem"
// runs entirely in-process; "sqlite" (the default) opens a database file
// under cacheDir unless cfg.VectorStore.Path overrides the location.
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

// manifestsDir returns the directory indexcore's FileSynchronizer manifests
// and the global indexing snapshot both live under: <cache>/manifests.
func manifestsDir() (string, error) {
	cacheDir, err := cacheBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "manifests"), nil
}

// cacheBaseDir resolves the machine-wide cache directory (~/.codectx/cache
// by default, overridable via global config), creating it if needed.
func cacheBaseDir() (string, error) {
	globalCfg, err := config.LoadGlobalConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load global configuration: %w", err)
	}

	dir := globalCfg.Cache.BaseDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return dir, nil
}
