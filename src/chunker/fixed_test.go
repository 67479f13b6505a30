package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusego/src/token"
)

func TestNewFixedChunkerValidation(t *testing.T) {
	codec := token.NewWordCodec()

	_, err := NewFixedChunker(codec, 0, 0)
	assert.Error(t, err)

	_, err = NewFixedChunker(codec, 10, -1)
	assert.Error(t, err)

	_, err = NewFixedChunker(codec, 10, 10)
	assert.Error(t, err)

	_, err = NewFixedChunker(codec, 10, 9)
	assert.NoError(t, err)
}

func TestFixedChunkerWindows(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewFixedChunker(codec, 4, 1)
	require.NoError(t, err)

	words := []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9", "w10"}
	text := strings.Join(words, " ")

	chunks, err := chunker.Chunk(context.Background(), text, "doc.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	// Windows advance by chunkSize-overlap = 3.
	assert.Equal(t, "w1 w2 w3 w4", chunks[0].Text)
	assert.Equal(t, "w4 w5 w6 w7", chunks[1].Text)
	assert.Equal(t, "w7 w8 w9 w10", chunks[2].Text)

	for i, ch := range chunks {
		assert.Equal(t, "doc.txt", ch.DocID)
		assert.Equal(t, chunkID("doc.txt", i), ch.ChunkID)
		assert.Equal(t, MethodFixed, ch.Method)
		assert.Equal(t, 4, ch.NumTokens)
	}

	assert.Equal(t, 0, chunks[0].OverlapTokens)
	assert.Equal(t, 1, chunks[1].OverlapTokens)
	assert.Equal(t, 1, chunks[2].OverlapTokens)

	assert.Equal(t, 0, chunks[0].StartToken)
	assert.Equal(t, 4, chunks[0].EndToken)
	assert.Equal(t, 3, chunks[1].StartToken)
	assert.Equal(t, 7, chunks[1].EndToken)
	assert.Equal(t, 6, chunks[2].StartToken)
	assert.Equal(t, 10, chunks[2].EndToken)
}

func TestFixedChunkerShortTail(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewFixedChunker(codec, 4, 0)
	require.NoError(t, err)

	chunks, err := chunker.Chunk(context.Background(), "a b c d e f", "doc.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, 4, chunks[0].NumTokens)
	assert.Equal(t, 2, chunks[1].NumTokens)
	assert.Equal(t, "e f", chunks[1].Text)
}

func TestFixedChunkerEmptyText(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewFixedChunker(codec, 4, 0)
	require.NoError(t, err)

	chunks, err := chunker.Chunk(context.Background(), "", "doc.txt")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestFixedChunkerCoversEveryToken(t *testing.T) {
	codec := token.NewWordCodec()
	chunker, err := NewFixedChunker(codec, 5, 2)
	require.NoError(t, err)

	words := make([]string, 23)
	for i := range words {
		words[i] = strings.Repeat("x", i+1)
	}
	text := strings.Join(words, " ")

	chunks, err := chunker.Chunk(context.Background(), text, "doc.txt")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, 0, chunks[0].StartToken)
	assert.Equal(t, len(words), chunks[len(chunks)-1].EndToken)
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].EndToken-2, chunks[i].StartToken)
	}
}
