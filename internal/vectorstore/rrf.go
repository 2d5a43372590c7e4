package vectorstore

import "sort"

type fusedResult struct {
	id    string
	score float64
}

// reciprocalRankFusion merges ranked id lists into one, scoring each
// candidate id by Σ 1/(k + rank) across every list it appears in (rank is
// 1-indexed), deduplicating by id and sorting by descending fused score.
func reciprocalRankFusion(lists [][]string, k int) []fusedResult {
	scores := make(map[string]float64)
	order := make([]string, 0)

	for _, list := range lists {
		for rank, id := range list {
			if _, seen := scores[id]; !seen {
				order = append(order, id)
			}
			scores[id] += 1.0 / float64(k+rank+1)
		}
	}

	results := make([]fusedResult, 0, len(order))
	for _, id := range order {
		results = append(results, fusedResult{id: id, score: scores[id]})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	return results
}
