package retrieval

import (
	"context"
	"fmt"

	"fusego/src/embedding"
	"fusego/src/vectorindex"
)

// VectorRetriever embeds a query and searches one collection of a vector
// index.
type VectorRetriever struct {
	embedder   embedding.Embedder
	index      vectorindex.Index
	collection string
}

// NewVectorRetriever wires an embedder and an index collection together.
func NewVectorRetriever(embedder embedding.Embedder, index vectorindex.Index, collection string) *VectorRetriever {
	return &VectorRetriever{
		embedder:   embedder,
		index:      index,
		collection: collection,
	}
}

// Search embeds the query and returns up to topK hits by descending cosine
// similarity. filters restricts candidates by payload equality.
func (r *VectorRetriever) Search(ctx context.Context, query string, topK int, filters map[string]interface{}) ([]Result, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.index.Search(ctx, r.collection, vector, topK, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %s: %w", r.collection, err)
	}

	results := make([]Result, len(hits))
	for i, hit := range hits {
		results[i] = Result{ID: hit.ID, Score: hit.Score}
	}
	return results, nil
}
