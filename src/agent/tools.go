package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"fusego/src/retrieval"
)

// DefaultToolTopK applies when a tool call omits top_k.
const DefaultToolTopK = 5

// searchArgs is the argument shape shared by all three search tools.
type searchArgs struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

var searchSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {"type": "string", "description": "The search query"},
		"top_k": {"type": "integer", "description": "Number of results to return", "default": 5}
	},
	"required": ["query"]
}`)

// Searcher is the query shape shared by hybrid search and any other
// context-aware retriever a tool may wrap.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error)
}

func parseSearchArgs(raw json.RawMessage) (searchArgs, error) {
	var args searchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	if args.Query == "" {
		return args, fmt.Errorf("query must not be empty")
	}
	if args.TopK <= 0 {
		args.TopK = DefaultToolTopK
	}
	return args, nil
}

func marshalResults(results []retrieval.Result) (string, error) {
	if results == nil {
		results = []retrieval.Result{}
	}
	out, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(out), nil
}

// NewVectorSearchTool exposes dense retrieval as a tool.
func NewVectorSearchTool(vector retrieval.VectorSearcher) Tool {
	return Tool{
		Name:        "vector_search",
		Description: "Search documents by semantic similarity to the query.",
		Schema:      searchSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			args, err := parseSearchArgs(raw)
			if err != nil {
				return "", err
			}
			results, err := vector.Search(ctx, args.Query, args.TopK, nil)
			if err != nil {
				return "", err
			}
			return marshalResults(results)
		},
	}
}

// NewBM25SearchTool exposes keyword retrieval as a tool.
func NewBM25SearchTool(keyword retrieval.KeywordSearcher) Tool {
	return Tool{
		Name:        "bm25_search",
		Description: "Search documents by keyword relevance to the query.",
		Schema:      searchSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			args, err := parseSearchArgs(raw)
			if err != nil {
				return "", err
			}
			results, err := keyword.Search(args.Query, args.TopK)
			if err != nil {
				return "", err
			}
			return marshalResults(results)
		},
	}
}

// NewHybridSearchTool exposes fused dense+keyword retrieval as a tool.
func NewHybridSearchTool(hybrid Searcher) Tool {
	return Tool{
		Name:        "hybrid_search",
		Description: "Search documents combining semantic and keyword relevance.",
		Schema:      searchSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			args, err := parseSearchArgs(raw)
			if err != nil {
				return "", err
			}
			results, err := hybrid.Search(ctx, args.Query, args.TopK)
			if err != nil {
				return "", err
			}
			return marshalResults(results)
		},
	}
}
