package retrieval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusego/src/retrieval"
)

type fakeVectorSearcher struct {
	results   []retrieval.Result
	lastTopK  int
	lastQuery string
}

func (f *fakeVectorSearcher) Search(_ context.Context, query string, topK int, _ map[string]interface{}) ([]retrieval.Result, error) {
	f.lastQuery = query
	f.lastTopK = topK
	if topK < len(f.results) {
		return f.results[:topK], nil
	}
	return f.results, nil
}

type fakeKeywordSearcher struct {
	results  []retrieval.Result
	lastTopK int
}

func (f *fakeKeywordSearcher) Search(_ string, topK int) ([]retrieval.Result, error) {
	f.lastTopK = topK
	if topK < len(f.results) {
		return f.results[:topK], nil
	}
	return f.results, nil
}

func TestHybridOverFetchesAndTruncates(t *testing.T) {
	vector := &fakeVectorSearcher{results: []retrieval.Result{
		{ID: "a", Score: 0.9}, {ID: "b", Score: 0.8}, {ID: "c", Score: 0.7},
		{ID: "d", Score: 0.6}, {ID: "e", Score: 0.5},
	}}
	keyword := &fakeKeywordSearcher{results: []retrieval.Result{
		{ID: "c", Score: 12}, {ID: "a", Score: 9}, {ID: "f", Score: 3},
	}}

	h, err := retrieval.NewHybrid(vector, keyword, 0.5, 60)
	require.NoError(t, err)

	results, err := h.Search(context.Background(), "query", 2)
	require.NoError(t, err)

	// Underlying lists are fetched at 2x the requested size before fusing.
	assert.Equal(t, 4, vector.lastTopK)
	assert.Equal(t, 4, keyword.lastTopK)
	assert.Equal(t, "query", vector.lastQuery)

	// Truncated after fusion.
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID) // rank 1 + rank 2 across the lists
	assert.Equal(t, "c", results[1].ID)
}

func TestHybridAlphaOneIgnoresKeywordRanking(t *testing.T) {
	vector := &fakeVectorSearcher{results: []retrieval.Result{
		{ID: "v1", Score: 0.99}, {ID: "v2", Score: 0.5},
	}}
	keyword := &fakeKeywordSearcher{results: []retrieval.Result{
		{ID: "v2", Score: 100}, {ID: "v1", Score: 1},
	}}

	h, err := retrieval.NewHybrid(vector, keyword, 1.0, 60)
	require.NoError(t, err)

	results, err := h.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "v1", results[0].ID)
	assert.Equal(t, "v2", results[1].ID)
}

func TestNewHybridValidatesAlpha(t *testing.T) {
	_, err := retrieval.NewHybrid(&fakeVectorSearcher{}, &fakeKeywordSearcher{}, 1.5, 60)
	assert.Error(t, err)
}

func TestNewHybridDefaultsK(t *testing.T) {
	h, err := retrieval.NewHybrid(&fakeVectorSearcher{}, &fakeKeywordSearcher{}, 0.5, 0)
	require.NoError(t, err)
	require.NotNil(t, h)
}
