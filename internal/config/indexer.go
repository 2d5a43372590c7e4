package config

import (
	"github.com/codectx/codectx/internal/chunk"
	"github.com/codectx/codectx/internal/indexcore"
	"github.com/codectx/codectx/internal/ranking"
)

// ToIndexCoreConfig converts a Config into the static knobs indexcore.Core
// needs (chunking, ignore patterns, ranking weights). The caller still
// supplies the live Embedder and VectorStore, since those require open
// connections/processes this package has no business owning.
func (c *Config) ToIndexCoreConfig(dataDir string) indexcore.Config {
	cfg := indexcore.DefaultConfig(dataDir)
	cfg.IgnorePatterns = c.Paths.Ignore
	cfg.Chunker = chunk.New(chunk.Config{
		ChunkSize:    c.Chunking.CodeChunkSize,
		ChunkOverlap: c.Chunking.Overlap,
	})
	cfg.RankingConfig = ranking.Config{
		RecencyHalfLifeDays: c.Ranking.RecencyHalfLifeDays,
		WeightVector:        c.Ranking.WeightVector,
		WeightRecency:       c.Ranking.WeightRecency,
		WeightImport:        c.Ranking.WeightImport,
		WeightTerm:          c.Ranking.WeightTerm,
	}
	return cfg
}
