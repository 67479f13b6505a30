package retrieval

import (
	"fmt"
	"sort"
)

// DefaultRRFK is the standard smoothing constant for reciprocal rank fusion:
// large enough that rank 1 and rank 2 contribute almost equally, small enough
// that the tail still decays.
const DefaultRRFK = 60

// ReciprocalRankFusion merges two ranked lists into one ranking. Each entry
// at 1-based rank r contributes weight/(k+r) to its fused score; the vector
// list is weighted by alpha, the keyword list by 1-alpha. Fusion operates on
// ranks only, which is what makes cosine scores and unbounded BM25 scores
// combinable. An id absent from one list simply gets no contribution from it.
//
// Output is sorted by descending fused score; ties keep insertion order, with
// the vector list inserted first.
func ReciprocalRankFusion(vectorResults, keywordResults []Result, alpha float64, k int) ([]Result, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("alpha must be in [0,1], got %v", alpha)
	}
	if k <= 0 {
		return nil, fmt.Errorf("rrf constant k must be positive, got %d", k)
	}

	fused := make(map[string]float64)
	var order []string

	contribute := func(results []Result, weight float64) {
		for i, res := range results {
			rank := i + 1
			if _, seen := fused[res.ID]; !seen {
				order = append(order, res.ID)
			}
			fused[res.ID] += weight / float64(k+rank)
		}
	}

	contribute(vectorResults, alpha)
	contribute(keywordResults, 1-alpha)

	merged := make([]Result, 0, len(order))
	for _, id := range order {
		if fused[id] == 0 {
			continue
		}
		merged = append(merged, Result{ID: id, Score: fused[id]})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged, nil
}
