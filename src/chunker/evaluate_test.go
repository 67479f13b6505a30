package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusego/src/embedding/mock"
)

func TestEvaluateStats(t *testing.T) {
	chunks := []Chunk{
		{ChunkID: "d_chunk_0", Text: "a", NumTokens: 10},
		{ChunkID: "d_chunk_1", Text: "b", NumTokens: 20},
		{ChunkID: "d_chunk_2", Text: "c", NumTokens: 30},
	}

	evaluator := NewEvaluator(mock.NewEmbedder())
	report, err := evaluator.Evaluate(context.Background(), MethodFixed, chunks, "", 0)
	require.NoError(t, err)

	assert.Equal(t, MethodFixed, report.Method)
	assert.Equal(t, 3, report.Stats.Count)
	assert.Equal(t, 20.0, report.Stats.MeanSize)
	assert.Equal(t, 10, report.Stats.MinSize)
	assert.Equal(t, 30, report.Stats.MaxSize)
	assert.InDelta(t, 8.1650, report.Stats.StdevSize, 0.001)
	assert.Empty(t, report.Matches)
}

func TestEvaluateEmptyChunks(t *testing.T) {
	evaluator := NewEvaluator(mock.NewEmbedder())
	report, err := evaluator.Evaluate(context.Background(), MethodFixed, nil, "query", 5)
	require.NoError(t, err)

	assert.Equal(t, Stats{}, report.Stats)
	assert.Empty(t, report.Matches)
}

func TestEvaluateQueryRanking(t *testing.T) {
	vectors := map[string][]float32{
		"about cats":   {1, 0},
		"about stocks": {0, 1},
		"query text":   {1, 0},
	}
	embedder := mock.NewEmbedder()
	embedder.EmbedFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = vectors[text]
		}
		return out, nil
	}

	chunks := []Chunk{
		{ChunkID: "d_chunk_0", Text: "about stocks", NumTokens: 2},
		{ChunkID: "d_chunk_1", Text: "about cats", NumTokens: 2},
	}

	evaluator := NewEvaluator(embedder)
	report, err := evaluator.Evaluate(context.Background(), MethodSemantic, chunks, "query text", 5)
	require.NoError(t, err)

	require.Len(t, report.Matches, 2)
	assert.Equal(t, "d_chunk_1", report.Matches[0].ChunkID)
	assert.InDelta(t, 1.0, report.Matches[0].Similarity, 1e-9)
	assert.Equal(t, "d_chunk_0", report.Matches[1].ChunkID)
	assert.InDelta(t, 0.0, report.Matches[1].Similarity, 1e-9)
	assert.Equal(t, "query text", report.Query)
}

func TestEvaluateTopKTruncation(t *testing.T) {
	chunks := make([]Chunk, 10)
	for i := range chunks {
		chunks[i] = Chunk{ChunkID: chunkID("d", i), Text: strings.Repeat("x", i+1), NumTokens: i + 1}
	}

	evaluator := NewEvaluator(mock.NewEmbedder())
	report, err := evaluator.Evaluate(context.Background(), MethodFixed, chunks, "probe", 3)
	require.NoError(t, err)
	assert.Len(t, report.Matches, 3)
}

func TestEvaluatePreviewTruncation(t *testing.T) {
	long := strings.Repeat("word ", 100)
	chunks := []Chunk{{ChunkID: "d_chunk_0", Text: long, NumTokens: 100}}

	evaluator := NewEvaluator(mock.NewEmbedder())
	report, err := evaluator.Evaluate(context.Background(), MethodFixed, chunks, "probe", 1)
	require.NoError(t, err)

	require.Len(t, report.Matches, 1)
	assert.True(t, strings.HasSuffix(report.Matches[0].Preview, "..."))
	assert.LessOrEqual(t, len([]rune(report.Matches[0].Preview)), previewRunes+3)
}
