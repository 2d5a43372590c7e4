package indexcore

import (
	"context"
	"time"

	"github.com/codectx/codectx/internal/embedding"
	"github.com/codectx/codectx/internal/ranking"
	"github.com/codectx/codectx/internal/vectorstore"
)

// SemanticSearch embeds query, searches path's collection, discards results
// below minScore, optionally applies the ranking blend, and returns the
// top-K results (spec.md §4.5).
func (c *Core) SemanticSearch(ctx context.Context, path, query string, topK int, minScore float64, filterExpr *vectorstore.Filter, enableRanking bool) ([]ranking.Result, error) {
	absPath, err := validateCodebasePath(path)
	if err != nil {
		return nil, err
	}
	name := collectionName(absPath)

	vectors, err := c.cfg.Embedder.Embed(ctx, []string{query}, embedding.ModeQuery)
	if err != nil {
		return nil, newErr(KindProviderUnavailable, "semanticSearch", err)
	}

	scored, err := c.cfg.Store.Search(ctx, name, vectors[0], vectorstore.SearchOptions{TopK: searchFanout(topK), FilterExpr: filterExpr})
	if err != nil {
		return nil, translateStoreErr("semanticSearch", err)
	}

	candidates := make([]ranking.Candidate, 0, len(scored))
	maxImportCount := 0
	hasNonZeroVectorScore := false
	for _, sd := range scored {
		if sd.Score < minScore {
			continue
		}
		candidates = append(candidates, ranking.Candidate{Document: sd.Document, VectorScore: sd.Score})
		if sd.Score != 0 {
			hasNonZeroVectorScore = true
		}
		if m, ok := sd.Document.Metadata["maxImportCount"]; ok {
			if n := toInt(m); n > maxImportCount {
				maxImportCount = n
			}
		}
	}

	// Blending only applies when ranking is enabled and the spec's own
	// precondition holds (non-empty query, at least one non-zero vector
	// score); otherwise the returned score is the store's similarity
	// verbatim, per spec.md §8.
	var results []ranking.Result
	if enableRanking && query != "" && hasNonZeroVectorScore {
		results = ranking.Rank(candidates, query, time.Now(), maxImportCount, c.cfg.RankingConfig)
	} else {
		results = ranking.Raw(candidates)
	}

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// searchFanout over-fetches beyond topK so filters and the minScore cutoff
// still leave enough candidates for ranking to choose from.
func searchFanout(topK int) int {
	if topK <= 0 {
		return 50
	}
	fanout := topK * 5
	if fanout < 50 {
		fanout = 50
	}
	return fanout
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
