package ranking

import (
	"math"
	"strings"
	"time"
)

// termFrequencySlope is the sigmoid slope k used by termFrequencyFactor.
//
// Solved from the spec's worked example rather than picked by feel: a
// single match (occ=1) in a 50-token chunk (W=50) should produce t ≈ 0.2.
// t = 2·(σ(k·occ/W) − 0.5), so with occ/W = 0.02:
//
//	0.2 = 2·(σ(0.02k) − 0.5)
//	σ(0.02k) = 0.6
//	0.02k = ln(0.6/0.4) = ln(1.5) ≈ 0.405465
//	k ≈ 20.2733
const termFrequencySlope = 20.2733

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// recencyFactor computes r = 2^(-Δdays/H), Δdays = max(0, (now-mtime)/86400s).
// For H <= 0, r is 0 once any time has elapsed and 1 otherwise (an
// indexed-this-instant document is maximally recent by definition).
func recencyFactor(mtime time.Time, now time.Time, halfLifeDays float64) float64 {
	deltaSeconds := now.Sub(mtime).Seconds()
	if deltaSeconds < 0 {
		deltaSeconds = 0
	}
	deltaDays := deltaSeconds / 86400

	if halfLifeDays <= 0 {
		if deltaDays > 0 {
			return 0
		}
		return 1
	}

	r := math.Pow(2, -deltaDays/halfLifeDays)
	return clamp01(r)
}

// importFactor computes i = clamp(importCount/maxImportCount, 0, 1), or 0
// if either operand is zero or missing.
func importFactor(importCount, maxImportCount int) float64 {
	if importCount <= 0 || maxImportCount <= 0 {
		return 0
	}
	return clamp01(float64(importCount) / float64(maxImportCount))
}

// termFrequencyFactor computes t for a query against one chunk's content.
// Q is the query split on whitespace (case-insensitive); occ counts every
// substring occurrence of any term in Q within the lowercased content; W is
// content's whitespace-delimited token count.
func termFrequencyFactor(query, content string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	lowered := strings.ToLower(content)
	occ := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		occ += strings.Count(lowered, term)
	}
	if occ == 0 {
		return 0
	}

	tokenCount := len(strings.Fields(content))
	if tokenCount < 1 {
		tokenCount = 1
	}

	sig := sigmoid(termFrequencySlope * float64(occ) / float64(tokenCount))
	return clamp01(2 * (sig - 0.5))
}

// normalizeVectorScores min-max normalizes scores to [0,1]. If every score
// is equal (including a single-element set), every normalized value is 1.
func normalizeVectorScores(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	if max == min {
		for i := range out {
			out[i] = 1
		}
		return out
	}

	for i, s := range scores {
		out[i] = (s - min) / (max - min)
	}
	return out
}

// blend combines the four normalized factors into the final [0,1] score.
// If all weights are zero the result is 0 rather than NaN from a 0/0 divide.
func blend(vhat, r, i, t float64, cfg Config) float64 {
	totalWeight := cfg.WeightVector + cfg.WeightRecency + cfg.WeightImport + cfg.WeightTerm
	if totalWeight == 0 {
		return 0
	}
	weighted := cfg.WeightVector*vhat + cfg.WeightRecency*r + cfg.WeightImport*i + cfg.WeightTerm*t
	return clamp01(weighted / totalWeight)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
