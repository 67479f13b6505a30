package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusego/src/token"
)

func TestRecursiveChunkerSplitsOnParagraphs(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewRecursiveChunker(codec, 6, 0)
	require.NoError(t, err)

	text := "alpha beta gamma delta\n\nepsilon zeta eta theta"

	chunks, err := chunker.Chunk(context.Background(), text, "doc.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "alpha beta gamma delta\n\n", chunks[0].Text)
	assert.Equal(t, "epsilon zeta eta theta", chunks[1].Text)
	assert.Equal(t, MethodRecursive, chunks[0].Method)
	assert.Equal(t, 4, chunks[0].NumTokens)
}

func TestRecursiveChunkerFallsBackToSentences(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewRecursiveChunker(codec, 4, 0)
	require.NoError(t, err)

	// One paragraph over budget; sentence separator ". " takes over.
	text := "one two three. four five six. seven eight"

	chunks, err := chunker.Chunk(context.Background(), text, "doc.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "one two three. ", chunks[0].Text)
	assert.Equal(t, "four five six. ", chunks[1].Text)
	assert.Equal(t, "seven eight", chunks[2].Text)
}

func TestRecursiveChunkerPacksSmallSegments(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewRecursiveChunker(codec, 10, 0)
	require.NoError(t, err)

	text := "one two. three four. five six. seven eight"

	chunks, err := chunker.Chunk(context.Background(), text, "doc.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 8, chunks[0].NumTokens)
}

func TestRecursiveChunkerOverlapCarry(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewRecursiveChunker(codec, 4, 2)
	require.NoError(t, err)

	text := "one two three. four five six."

	chunks, err := chunker.Chunk(context.Background(), text, "doc.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Second chunk starts with the two-token tail of the first.
	assert.True(t, strings.HasPrefix(chunks[1].Text, "two three."),
		"expected overlap prefix, got %q", chunks[1].Text)
	assert.Contains(t, chunks[1].Text, "four five six.")
}

func TestRecursiveChunkerBudgetRespected(t *testing.T) {
	codec := token.NewWordCodec()
	chunkSize := 8
	chunker, err := NewRecursiveChunker(codec, chunkSize, 2)
	require.NoError(t, err)

	text := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump!\n\n" +
		"Sphinx of black quartz judge my vow. " +
		"The five boxing wizards jump quickly."

	chunks, err := chunker.Chunk(context.Background(), text, "doc.txt")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Each chunk holds at most one segment past the budget; with sentence
	// granularity no chunk should exceed budget plus one sentence.
	for _, ch := range chunks {
		assert.LessOrEqual(t, ch.NumTokens, chunkSize+9, "chunk %q too large", ch.Text)
	}
}

func TestRecursiveChunkerEmptyText(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewRecursiveChunker(codec, 4, 0)
	require.NoError(t, err)

	chunks, err := chunker.Chunk(context.Background(), "", "doc.txt")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
