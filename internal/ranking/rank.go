package ranking

import (
	"sort"
	"time"

	"github.com/codectx/codectx/internal/vectorstore"
)

// Candidate pairs a persisted document with the raw similarity score the
// VectorStore returned for it.
type Candidate struct {
	Document    vectorstore.Document
	VectorScore float64
}

// Result is one ranked search hit, shaped for the semanticSearch contract.
type Result struct {
	RelativePath string
	StartLine    int
	EndLine      int
	Content      string
	Language     string
	Score        float64
}

// Rank blends vector similarity with recency, import frequency, and term
// frequency into a final [0,1] score per spec.md's ranking algorithm, then
// sorts descending by score with (relativePath, startLine) as deterministic
// tie-breakers. query may be empty, in which case the term-frequency factor
// is 0 for every candidate but vector/recency/import still apply.
func Rank(candidates []Candidate, query string, now time.Time, maxImportCount int, cfg Config) []Result {
	if len(candidates) == 0 {
		return nil
	}

	rawScores := make([]float64, len(candidates))
	for i, c := range candidates {
		rawScores[i] = c.VectorScore
	}
	normalized := normalizeVectorScores(rawScores)

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		doc := c.Document
		mtime := time.Unix(doc.Mtime, 0)

		r := recencyFactor(mtime, now, cfg.RecencyHalfLifeDays)
		i2 := importFactor(importCountOf(doc), maxImportCount)
		t := termFrequencyFactor(query, doc.Content)

		final := blend(normalized[i], r, i2, t, cfg)

		results[i] = Result{
			RelativePath: doc.RelativePath,
			StartLine:    doc.StartLine,
			EndLine:      doc.EndLine,
			Content:      doc.Content,
			Language:     languageOf(doc),
			Score:        final,
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		if results[a].RelativePath != results[b].RelativePath {
			return results[a].RelativePath < results[b].RelativePath
		}
		return results[a].StartLine < results[b].StartLine
	})

	return results
}

func importCountOf(doc vectorstore.Document) int {
	v, ok := doc.Metadata["importCount"]
	if !ok {
		return 0
	}
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

func languageOf(doc vectorstore.Document) string {
	if v, ok := doc.Metadata["language"].(string); ok {
		return v
	}
	return ""
}

// Raw shapes candidates into Results without blending: score is the store's
// similarity verbatim (clamped to [0,1]), per spec.md §8's "with ranking
// disabled, returned score equals the store's similarity." Used both when
// ranking is disabled outright and when the blend's own precondition (query
// non-empty, at least one non-zero vector score) isn't met.
func Raw(candidates []Candidate) []Result {
	if len(candidates) == 0 {
		return nil
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		doc := c.Document
		results[i] = Result{
			RelativePath: doc.RelativePath,
			StartLine:    doc.StartLine,
			EndLine:      doc.EndLine,
			Content:      doc.Content,
			Language:     languageOf(doc),
			Score:        clamp01(c.VectorScore),
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		if results[a].RelativePath != results[b].RelativePath {
			return results[a].RelativePath < results[b].RelativePath
		}
		return results[a].StartLine < results[b].StartLine
	})

	return results
}
