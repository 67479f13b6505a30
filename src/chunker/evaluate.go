package chunker

import (
	"context"
	"fmt"
	"math"
	"sort"

	"fusego/src/embedding"
	"fusego/src/mathutil"
)

// Stats summarizes the token-size distribution of a chunk set.
type Stats struct {
	Count     int     `json:"count"`
	MeanSize  float64 `json:"mean_size"`
	MinSize   int     `json:"min_size"`
	MaxSize   int     `json:"max_size"`
	StdevSize float64 `json:"stdev_size"`
}

// QueryMatch is one chunk ranked against an evaluation query.
type QueryMatch struct {
	ChunkID    string  `json:"chunk_id"`
	Similarity float64 `json:"similarity"`
	Preview    string  `json:"preview"`
}

// Report is the evaluation result for one strategy over one document set.
type Report struct {
	Method  Method       `json:"method"`
	Stats   Stats        `json:"stats"`
	Query   string       `json:"query,omitempty"`
	Matches []QueryMatch `json:"matches,omitempty"`
}

const previewRunes = 120

// Evaluator compares chunking strategies by size statistics and by how well
// their chunks match a probe query under cosine similarity.
type Evaluator struct {
	embedder embedding.Embedder
}

func NewEvaluator(embedder embedding.Embedder) *Evaluator {
	return &Evaluator{embedder: embedder}
}

// Evaluate computes size statistics for the chunks and, when query is
// non-empty, ranks the topK most similar chunks against it.
func (e *Evaluator) Evaluate(ctx context.Context, method Method, chunks []Chunk, query string, topK int) (*Report, error) {
	report := &Report{
		Method: method,
		Stats:  computeStats(chunks),
	}

	if query == "" || len(chunks) == 0 {
		return report, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	queryVec, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	sims, err := mathutil.CosineSimilarityBatch(queryVec, vectors)
	if err != nil {
		return nil, fmt.Errorf("failed to score chunks: %w", err)
	}

	matches := make([]QueryMatch, len(chunks))
	for i, ch := range chunks {
		matches[i] = QueryMatch{
			ChunkID:    ch.ChunkID,
			Similarity: sims[i],
			Preview:    preview(ch.Text),
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	report.Query = query
	report.Matches = matches

	return report, nil
}

func computeStats(chunks []Chunk) Stats {
	if len(chunks) == 0 {
		return Stats{}
	}

	stats := Stats{
		Count:   len(chunks),
		MinSize: chunks[0].NumTokens,
		MaxSize: chunks[0].NumTokens,
	}

	sum := 0
	for _, ch := range chunks {
		sum += ch.NumTokens
		if ch.NumTokens < stats.MinSize {
			stats.MinSize = ch.NumTokens
		}
		if ch.NumTokens > stats.MaxSize {
			stats.MaxSize = ch.NumTokens
		}
	}
	stats.MeanSize = float64(sum) / float64(len(chunks))

	var sq float64
	for _, ch := range chunks {
		d := float64(ch.NumTokens) - stats.MeanSize
		sq += d * d
	}
	stats.StdevSize = math.Sqrt(sq / float64(len(chunks)))

	return stats
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}
