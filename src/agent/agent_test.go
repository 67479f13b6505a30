package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusego/src/retrieval"
)

func TestRegistryRegisterAndDispatch(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(Tool{
		Name: "echo",
		Handler: func(_ context.Context, args json.RawMessage) (string, error) {
			return string(args), nil
		},
	})
	require.NoError(t, err)

	result, err := registry.Dispatch(context.Background(), ToolCall{
		ID:        "call_1",
		Name:      "echo",
		Arguments: `{"x":1}`,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, result)
}

func TestRegistryRejectsDuplicatesAndInvalid(t *testing.T) {
	registry := NewRegistry()
	handler := func(context.Context, json.RawMessage) (string, error) { return "", nil }

	require.NoError(t, registry.Register(Tool{Name: "a", Handler: handler}))
	assert.Error(t, registry.Register(Tool{Name: "a", Handler: handler}))
	assert.Error(t, registry.Register(Tool{Name: "", Handler: handler}))
	assert.Error(t, registry.Register(Tool{Name: "b"}))
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Dispatch(context.Background(), ToolCall{Name: "missing"})
	assert.ErrorContains(t, err, "unknown tool")
}

func TestRegistryToolsSorted(t *testing.T) {
	registry := NewRegistry()
	handler := func(context.Context, json.RawMessage) (string, error) { return "", nil }

	require.NoError(t, registry.Register(Tool{Name: "zeta", Handler: handler}))
	require.NoError(t, registry.Register(Tool{Name: "alpha", Handler: handler}))

	tools := registry.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha", tools[0].Name)
	assert.Equal(t, "zeta", tools[1].Name)
}

func TestAccumulatorReassemblesInterleavedDeltas(t *testing.T) {
	acc := NewAccumulator()

	// Two calls streamed interleaved, fields arriving in fragments.
	acc.Add(Delta{Index: 0, ID: "call_", Name: "vector"})
	acc.Add(Delta{Index: 1, ID: "call_b", Name: "bm25_search"})
	acc.Add(Delta{Index: 0, ID: "a", Name: "_search"})
	acc.Add(Delta{Index: 0, Arguments: `{"query":`})
	acc.Add(Delta{Index: 1, Arguments: `{"query":"cats"}`})
	acc.Add(Delta{Index: 0, Arguments: `"dogs"}`})

	require.Equal(t, 2, acc.Len())
	calls := acc.Calls()

	assert.Equal(t, ToolCall{ID: "call_a", Name: "vector_search", Arguments: `{"query":"dogs"}`}, calls[0])
	assert.Equal(t, ToolCall{ID: "call_b", Name: "bm25_search", Arguments: `{"query":"cats"}`}, calls[1])
}

func TestAccumulatorEmpty(t *testing.T) {
	acc := NewAccumulator()
	assert.Equal(t, 0, acc.Len())
	assert.Empty(t, acc.Calls())
}

type fakeVectorSearcher struct {
	lastTopK int
	results  []retrieval.Result
	err      error
}

func (f *fakeVectorSearcher) Search(_ context.Context, _ string, topK int, _ map[string]interface{}) ([]retrieval.Result, error) {
	f.lastTopK = topK
	return f.results, f.err
}

type fakeKeywordSearcher struct {
	results []retrieval.Result
}

func (f *fakeKeywordSearcher) Search(string, int) ([]retrieval.Result, error) {
	return f.results, nil
}

type fakeHybridSearcher struct {
	lastQuery string
	results   []retrieval.Result
}

func (f *fakeHybridSearcher) Search(_ context.Context, query string, _ int) ([]retrieval.Result, error) {
	f.lastQuery = query
	return f.results, nil
}

func TestVectorSearchTool(t *testing.T) {
	searcher := &fakeVectorSearcher{results: []retrieval.Result{{ID: "c1", Score: 0.9}}}
	tool := NewVectorSearchTool(searcher)
	assert.Equal(t, "vector_search", tool.Name)

	out, err := tool.Handler(context.Background(), json.RawMessage(`{"query":"cats","top_k":3}`))
	require.NoError(t, err)
	assert.Equal(t, 3, searcher.lastTopK)

	var results []retrieval.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].ID)
}

func TestSearchToolDefaultsTopK(t *testing.T) {
	searcher := &fakeVectorSearcher{}
	tool := NewVectorSearchTool(searcher)

	_, err := tool.Handler(context.Background(), json.RawMessage(`{"query":"cats"}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultToolTopK, searcher.lastTopK)
}

func TestSearchToolValidation(t *testing.T) {
	tool := NewVectorSearchTool(&fakeVectorSearcher{})

	_, err := tool.Handler(context.Background(), json.RawMessage(`{"query":""}`))
	assert.ErrorContains(t, err, "query")

	_, err = tool.Handler(context.Background(), json.RawMessage(`not json`))
	assert.ErrorContains(t, err, "invalid arguments")
}

func TestSearchToolEmptyResultsEncodeAsArray(t *testing.T) {
	tool := NewBM25SearchTool(&fakeKeywordSearcher{})

	out, err := tool.Handler(context.Background(), json.RawMessage(`{"query":"cats"}`))
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestHybridSearchToolThroughRegistry(t *testing.T) {
	searcher := &fakeHybridSearcher{results: []retrieval.Result{{ID: "c2", Score: 0.5}}}

	registry := NewRegistry()
	require.NoError(t, registry.Register(NewHybridSearchTool(searcher)))

	out, err := registry.Dispatch(context.Background(), ToolCall{
		ID:        "call_1",
		Name:      "hybrid_search",
		Arguments: `{"query":"dogs"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "dogs", searcher.lastQuery)
	assert.Contains(t, out, "c2")
}

func TestSearchToolPropagatesErrors(t *testing.T) {
	tool := NewVectorSearchTool(&fakeVectorSearcher{err: errors.New("index offline")})

	_, err := tool.Handler(context.Background(), json.RawMessage(`{"query":"cats"}`))
	assert.ErrorContains(t, err, "index offline")
}
