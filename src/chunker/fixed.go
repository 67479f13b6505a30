package chunker

import (
	"context"
	"fmt"

	"fusego/src/token"
)

// FixedChunker slides a fixed token window over the text: simple, fast,
// structure-blind.
type FixedChunker struct {
	codec     token.Codec
	chunkSize int
	overlap   int
}

// NewFixedChunker validates the window configuration up front. overlap must
// satisfy 0 <= overlap < chunkSize; an overlap at or above the chunk size
// would make the window stop advancing.
func NewFixedChunker(codec token.Codec, chunkSize, overlap int) (*FixedChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must satisfy 0 <= overlap < chunk size, got overlap=%d chunk size=%d", overlap, chunkSize)
	}
	return &FixedChunker{codec: codec, chunkSize: chunkSize, overlap: overlap}, nil
}

var _ Chunker = (*FixedChunker)(nil)

// Chunk tokenizes the full text and decodes successive windows of chunkSize
// tokens, each advancing by chunkSize-overlap.
func (c *FixedChunker) Chunk(_ context.Context, text, docID string) ([]Chunk, error) {
	tokens := c.codec.Encode(text)

	var chunks []Chunk
	start := 0

	for start < len(tokens) {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		window := tokens[start:end]

		overlap := 0
		if start > 0 {
			overlap = c.overlap
		}

		chunks = append(chunks, Chunk{
			Text:          c.codec.Decode(window),
			DocID:         docID,
			ChunkID:       chunkID(docID, len(chunks)),
			NumTokens:     len(window),
			Method:        MethodFixed,
			StartToken:    start,
			EndToken:      end,
			OverlapTokens: overlap,
		})

		if end >= len(tokens) {
			break
		}
		start += c.chunkSize - c.overlap
	}

	return chunks, nil
}
