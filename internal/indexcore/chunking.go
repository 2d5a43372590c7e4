package indexcore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/codectx/codectx/internal/chunk"
	"github.com/codectx/codectx/internal/embedding"
	"github.com/codectx/codectx/internal/ranking"
	"github.com/codectx/codectx/internal/vectorstore"
)

// pendingChunk pairs a split chunk.Chunk with the document it will become
// once embedded, keeping the relativePath around for metadata.
type pendingChunk struct {
	chunk        chunk.Chunk
	relativePath string
	mtime        int64
}

// reindexFiles splits, embeds, and upserts every relative path in rel
// (already resolved against the codebase root), batched at cfg.BatchSize.
// Returns the number of chunks written and, if the collection's total
// document budget is exhausted mid-run, a status of "limit_reached".
func (c *Core) reindexFiles(ctx context.Context, codebaseRoot, collection string, rel []string, report ProgressFunc) (int, string, error) {
	pending, err := c.collectChunks(ctx, codebaseRoot, rel, report)
	if err != nil {
		return 0, "", err
	}
	if len(pending) == 0 {
		return 0, "", nil
	}

	existing, err := c.collectionSize(ctx, collection)
	if err != nil {
		return 0, "", err
	}

	budget := maxChunksPerCollection - existing
	status := ""
	if budget <= 0 {
		return 0, "limit_reached", nil
	}
	if len(pending) > budget {
		pending = pending[:budget]
		status = "limit_reached"
	}

	counts, err := c.buildImportCounts(ctx, collection, codebaseRoot, pending)
	if err != nil {
		return 0, "", err
	}

	written, err := c.embedAndWrite(ctx, codebaseRoot, collection, pending, counts, report)
	if err != nil {
		return written, "", err
	}
	return written, status, nil
}

func (c *Core) collectChunks(ctx context.Context, codebaseRoot string, rel []string, report ProgressFunc) ([]pendingChunk, error) {
	var pending []pendingChunk

	for i, relPath := range rel {
		select {
		case <-ctx.Done():
			return nil, newErr(KindCancelled, "indexCodebase", ctx.Err())
		default:
		}

		report(ProgressUpdate{Phase: PhaseChunking, Current: i, Total: len(rel)})

		fullPath := filepath.Join(codebaseRoot, relPath)
		info, err := os.Stat(fullPath)
		if err != nil {
			continue // file vanished between Sync and now; skip rather than fail the run
		}
		content, err := os.ReadFile(fullPath)
		if err != nil {
			continue
		}

		language := languageForPath(relPath)
		chunks, err := c.cfg.Chunker.Split(ctx, content, language, relPath)
		if err != nil {
			continue // unparseable file: skip it, not the whole run
		}

		for _, ch := range chunks {
			pending = append(pending, pendingChunk{chunk: ch, relativePath: relPath, mtime: info.ModTime().Unix()})
		}
	}

	report(ProgressUpdate{Phase: PhaseChunking, Current: len(rel), Total: len(rel)})
	return pending, nil
}

func (c *Core) embedAndWrite(ctx context.Context, codebaseRoot, collection string, pending []pendingChunk, counts ranking.ImportCounts, report ProgressFunc) (int, error) {
	texts := make([]string, len(pending))
	for i, p := range pending {
		texts[i] = p.chunk.Content
	}

	batchSize := c.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(texts)
	}

	progressCh := make(chan embedding.BatchProgress, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progressCh {
			report(ProgressUpdate{Phase: PhaseEmbedding, Current: p.ProcessedChunks, Total: p.TotalChunks})
		}
	}()

	vectors, err := embedding.EmbedWithProgress(ctx, c.cfg.Embedder, texts, embedding.ModePassage, batchSize, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return 0, newErr(KindProviderUnavailable, "indexCodebase", err)
	}

	report(ProgressUpdate{Phase: PhaseWriting, Current: 0, Total: len(pending)})

	written := 0
	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}

		docs := make([]vectorstore.Document, 0, end-start)
		for i := start; i < end; i++ {
			p := pending[i]
			docs = append(docs, vectorstore.Document{
				ID:            chunkID(p.relativePath, p.chunk.StartLine, p.chunk.EndLine),
				Vector:        vectors[i],
				Content:       p.chunk.Content,
				RelativePath:  p.relativePath,
				StartLine:     p.chunk.StartLine,
				EndLine:       p.chunk.EndLine,
				FileExtension: extOf(p.relativePath),
				Mtime:         p.mtime,
				Metadata: map[string]any{
					"codebasePath":   codebaseRoot,
					"language":       p.chunk.Language,
					"importCount":    counts.ByTarget[p.relativePath],
					"maxImportCount": counts.Max,
				},
			})
		}

		if err := c.cfg.Store.Insert(ctx, collection, docs); err != nil {
			return written, translateStoreErr("indexCodebase", err)
		}
		written += len(docs)
		report(ProgressUpdate{Phase: PhaseWriting, Current: written, Total: len(pending)})
	}

	return written, nil
}

func (c *Core) collectionSize(ctx context.Context, collection string) (int, error) {
	rows, err := c.cfg.Store.Query(ctx, collection, nil, []string{"id"}, maxChunksPerCollection+1)
	if err != nil {
		return 0, translateStoreErr("indexCodebase", err)
	}
	return len(rows), nil
}
