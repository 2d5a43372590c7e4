package config

// Config represents the complete codectx configuration.
// It can be loaded from .codectx/config.yml with environment variable overrides.
type Config struct {
	Embedding   EmbeddingConfig   `yaml:"embedding" mapstructure:"embedding"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Chunking    ChunkingConfig    `yaml:"chunking" mapstructure:"chunking"`
	Storage     StorageConfig     `yaml:"storage" mapstructure:"storage"`
	VectorStore VectorStoreConfig `yaml:"vector_store" mapstructure:"vector_store"`
	Ranking     RankingConfig     `yaml:"ranking" mapstructure:"ranking"`
	Sync        SyncConfig        `yaml:"sync" mapstructure:"sync"`
}

// StorageConfig configures the on-disk cache the daemon keeps alongside the
// vector store (branch-scoped result caching, not the vector index itself).
type StorageConfig struct {
	Backend            string  `yaml:"backend" mapstructure:"backend"`                           // "sqlite" (json is deprecated)
	CacheLocation      string  `yaml:"cache_location" mapstructure:"cache_location"`             // empty means derive from DataDir
	BranchCacheEnabled bool    `yaml:"branch_cache_enabled" mapstructure:"branch_cache_enabled"` // cache results per git branch
	CacheMaxAgeDays    int     `yaml:"cache_max_age_days" mapstructure:"cache_max_age_days"`     // 0 disables age-based eviction
	CacheMaxSizeMB     float64 `yaml:"cache_max_size_mb" mapstructure:"cache_max_size_mb"`       // 0 disables size-based eviction
}

// VectorStoreConfig selects and configures the vectorstore.VectorStore
// backend a codebase's embeddings are written to.
type VectorStoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // "sqlite" or "chromem"
	Path    string `yaml:"path" mapstructure:"path"`       // sqlite db file; empty derives from DataDir
	Hybrid  bool   `yaml:"hybrid" mapstructure:"hybrid"`   // not read by indexing; IndexCodebase always uses CreateCollection
}

// RankingConfig mirrors ranking.Config so the blended-score weights and
// recency half-life are configurable per project rather than hardcoded.
type RankingConfig struct {
	RecencyHalfLifeDays float64 `yaml:"recency_half_life_days" mapstructure:"recency_half_life_days"`
	WeightVector        float64 `yaml:"weight_vector" mapstructure:"weight_vector"`
	WeightRecency       float64 `yaml:"weight_recency" mapstructure:"weight_recency"`
	WeightImport        float64 `yaml:"weight_import" mapstructure:"weight_import"`
	WeightTerm          float64 `yaml:"weight_term" mapstructure:"weight_term"`
}

// SyncConfig holds watch-mode settings. They are loaded and validated, but
// no command reads them and nothing starts FileSynchronizer's watch mode.
type SyncConfig struct {
	WatchEnabled   bool `yaml:"watch_enabled" mapstructure:"watch_enabled"`
	DebounceMillis int  `yaml:"debounce_millis" mapstructure:"debounce_millis"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`     // Validate accepts "local" or "openai"; embedding.New builds only "local"
	Model      string `yaml:"model" mapstructure:"model"`           // e.g., "BAAI/bge-small-en-v1.5"
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"` // embedding vector dimensions
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`     // e.g., "http://localhost:8121/embed"
}

// PathsConfig defines which files to index and which to ignore.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for code files
	Docs   []string `yaml:"docs" mapstructure:"docs"`     // glob patterns for documentation
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// ChunkingConfig defines how content is chunked for indexing.
type ChunkingConfig struct {
	Strategies    []string `yaml:"strategies" mapstructure:"strategies"`           // e.g., ["symbols", "definitions", "data"]
	DocChunkSize  int      `yaml:"doc_chunk_size" mapstructure:"doc_chunk_size"`   // max tokens per doc chunk
	CodeChunkSize int      `yaml:"code_chunk_size" mapstructure:"code_chunk_size"` // max characters per code chunk
	Overlap       int      `yaml:"overlap" mapstructure:"overlap"`                 // token overlap between chunks
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:   "local",
			Model:      "BAAI/bge-small-en-v1.5",
			Dimensions: 384,
			Endpoint:   "http://localhost:8121/embed",
		},
		Paths: PathsConfig{
			Code: []string{
				"**/*.go",
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
				"**/*.py",
				"**/*.rs",
				"**/*.c",
				"**/*.cpp",
				"**/*.cc",
				"**/*.h",
				"**/*.hpp",
				"**/*.php",
				"**/*.rb",
				"**/*.java",
			},
			Docs: []string{
				"**/*.md",
				"**/*.rst",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.test",
				"*.pyc",
			},
		},
		Chunking: ChunkingConfig{
			Strategies:    []string{"symbols", "definitions", "data"},
			DocChunkSize:  800,
			CodeChunkSize: 2000,
			Overlap:       100,
		},
		Storage: StorageConfig{
			Backend:            "sqlite",
			CacheLocation:      "",
			BranchCacheEnabled: true,
			CacheMaxAgeDays:    30,
			CacheMaxSizeMB:     500.0,
		},
		VectorStore: VectorStoreConfig{
			Backend: "sqlite",
			Path:    "",
			Hybrid:  true,
		},
		Ranking: RankingConfig{
			RecencyHalfLifeDays: 30,
			WeightVector:        0.6,
			WeightRecency:       0.15,
			WeightImport:        0.15,
			WeightTerm:          0.1,
		},
		Sync: SyncConfig{
			WatchEnabled:   false,
			DebounceMillis: 500,
		},
	}
}
