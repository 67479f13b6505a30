package retrieval

import (
	"context"
	"fmt"

	"fusego/src/log"
)

// VectorSearcher is the dense half of hybrid search.
type VectorSearcher interface {
	Search(ctx context.Context, query string, topK int, filters map[string]interface{}) ([]Result, error)
}

// KeywordSearcher is the sparse half of hybrid search.
type KeywordSearcher interface {
	Search(query string, topK int) ([]Result, error)
}

// Hybrid combines a vector retriever and a BM25 index through reciprocal
// rank fusion.
type Hybrid struct {
	vector  VectorSearcher
	keyword KeywordSearcher
	alpha   float64
	k       int
}

// NewHybrid creates a hybrid retriever. alpha weights the vector list
// (1 = pure vector order, 0 = pure keyword order); k is the RRF constant.
func NewHybrid(vector VectorSearcher, keyword KeywordSearcher, alpha float64, k int) (*Hybrid, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("alpha must be in [0,1], got %v", alpha)
	}
	if k <= 0 {
		k = DefaultRRFK
	}
	return &Hybrid{vector: vector, keyword: keyword, alpha: alpha, k: k}, nil
}

// Search fuses both rankings and returns the top topK. Each underlying list
// is over-fetched at twice topK before fusing: retrieving only topK per list
// would bias the fused result toward whichever list happens to order the
// relevant documents inside that narrower window.
func (h *Hybrid) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	fetch := 2 * topK

	vectorResults, err := h.vector.Search(ctx, query, fetch, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	keywordResults, err := h.keyword.Search(query, fetch)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	log.Debug("fusing ranked lists",
		"vector_hits", len(vectorResults),
		"keyword_hits", len(keywordResults),
		"alpha", h.alpha)

	fused, err := ReciprocalRankFusion(vectorResults, keywordResults, h.alpha, h.k)
	if err != nil {
		return nil, fmt.Errorf("fusion failed: %w", err)
	}

	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused, nil
}
