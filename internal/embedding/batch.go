package embedding

import (
	"context"
	"fmt"
	"time"
)

// BatchProgress reports embedding progress for real-time feedback during a
// large indexing run.
type BatchProgress struct {
	BatchIndex      int
	TotalBatches    int
	ProcessedChunks int
	TotalChunks     int
}

// retryAttempts and the backoff schedule implement the batch retry policy:
// up to 3 attempts per batch, exponential backoff from 200ms, doubling,
// capped at 2s.
const (
	retryAttempts  = 3
	retryBaseDelay = 200 * time.Millisecond
	retryMaxDelay  = 2 * time.Second
)

// EmbedWithProgress embeds texts in batches, retrying each failed batch
// with exponential backoff before giving up, and reporting progress after
// every successful batch via progressCh, which may be nil. A batch that
// still fails after its last attempt ends the call with an error, and no
// progress is reported for it.
func EmbedWithProgress(
	ctx context.Context,
	provider Provider,
	texts []string,
	mode Mode,
	batchSize int,
	progressCh chan<- BatchProgress,
) ([][]float32, error) {
	total := len(texts)
	if total == 0 {
		return [][]float32{}, nil
	}
	if batchSize <= 0 {
		batchSize = total
	}

	numBatches := (total + batchSize - 1) / batchSize
	results := make([][]float32, total)
	processed := 0

	for batchIdx := 0; batchIdx < numBatches; batchIdx++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := batchIdx * batchSize
		end := start + batchSize
		if end > total {
			end = total
		}
		batchTexts := texts[start:end]

		embeddings, err := embedWithRetry(ctx, provider, batchTexts, mode)
		if err != nil {
			return nil, fmt.Errorf("embedding: batch %d/%d failed: %w", batchIdx+1, numBatches, err)
		}

		for i, emb := range embeddings {
			results[start+i] = emb
		}

		processed += len(batchTexts)
		if progressCh != nil {
			progressCh <- BatchProgress{
				BatchIndex:      batchIdx + 1,
				TotalBatches:    numBatches,
				ProcessedChunks: processed,
				TotalChunks:     total,
			}
		}
	}

	return results, nil
}

func embedWithRetry(ctx context.Context, provider Provider, texts []string, mode Mode) ([][]float32, error) {
	delay := retryBaseDelay
	var lastErr error

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		embeddings, err := provider.Embed(ctx, texts, mode)
		if err == nil {
			return embeddings, nil
		}
		lastErr = err

		if attempt == retryAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}

	return nil, lastErr
}
