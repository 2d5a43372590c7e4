package indexcore

import (
	"context"

	"github.com/codectx/codectx/internal/ranking"
)

// buildImportCounts runs the import-frequency post-pass (spec.md §4.5) over
// every document already persisted in collection plus the chunks about to
// be written in this run (pending, not yet in the store), so counts reflect
// the collection's state as of the end of this indexing run rather than
// lagging it by one reindex.
func (c *Core) buildImportCounts(ctx context.Context, collection, codebaseRoot string, pending []pendingChunk) (ranking.ImportCounts, error) {
	rows, err := c.cfg.Store.Query(ctx, collection, nil, []string{"relativePath", "content"}, maxChunksPerCollection+1)
	if err != nil {
		return ranking.ImportCounts{}, translateStoreErr("indexCodebase", err)
	}

	docs := make([]ranking.DocumentContent, 0, len(rows)+len(pending))
	for _, r := range rows {
		relPath, _ := r.Fields["relativePath"].(string)
		content, _ := r.Fields["content"].(string)
		docs = append(docs, ranking.DocumentContent{RelativePath: relPath, Content: content})
	}
	for _, p := range pending {
		docs = append(docs, ranking.DocumentContent{RelativePath: p.relativePath, Content: p.chunk.Content})
	}

	return ranking.CountImports(docs, codebaseRoot), nil
}
