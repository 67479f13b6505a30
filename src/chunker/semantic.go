package chunker

import (
	"context"
	"fmt"
	"strings"

	"fusego/src/embedding"
	"fusego/src/log"
	"fusego/src/mathutil"
	"fusego/src/token"
)

// DefaultSemanticThreshold is the consecutive-sentence similarity below
// which a topic boundary is assumed.
const DefaultSemanticThreshold = 0.5

// SemanticChunker cuts chunk boundaries where the embedding similarity of
// consecutive sentences drops, so boundaries follow content rather than
// structure. It costs one embedding call per sentence, making it the most
// expensive strategy. This is the canonical semantic variant; see
// ParagraphChunker for the embedding-free structural alternative.
type SemanticChunker struct {
	embedder  embedding.Embedder
	codec     token.Codec
	chunkSize int
	threshold float64
}

// NewSemanticChunker creates a semantic chunker. chunkSize is a soft budget:
// a boundary is also cut when the running token count would exceed it.
func NewSemanticChunker(embedder embedding.Embedder, codec token.Codec, chunkSize int, threshold float64) (*SemanticChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if threshold < -1 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be a cosine value in [-1,1], got %v", threshold)
	}
	return &SemanticChunker{
		embedder:  embedder,
		codec:     codec,
		chunkSize: chunkSize,
		threshold: threshold,
	}, nil
}

var _ Chunker = (*SemanticChunker)(nil)

func (c *SemanticChunker) Chunk(ctx context.Context, text, docID string) ([]Chunk, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	log.Debug("embedding sentences for semantic chunking", "doc_id", docID, "sentences", len(sentences))

	vectors, err := c.embedder.Embed(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("failed to embed sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d sentences", len(vectors), len(sentences))
	}

	// Boundary wherever consecutive similarity drops below the threshold or
	// the token budget would be exceeded.
	splitAt := []int{0}
	currentTokens := c.codec.Count(sentences[0])

	for i := 0; i < len(sentences)-1; i++ {
		sim, err := mathutil.CosineSimilarity(vectors[i], vectors[i+1])
		if err != nil {
			return nil, fmt.Errorf("failed to compare sentences %d and %d: %w", i, i+1, err)
		}

		nextTokens := c.codec.Count(sentences[i+1])
		if sim < c.threshold || currentTokens+nextTokens > c.chunkSize {
			splitAt = append(splitAt, i+1)
			currentTokens = nextTokens
		} else {
			currentTokens += nextTokens
		}
	}
	splitAt = append(splitAt, len(sentences))

	chunks := make([]Chunk, 0, len(splitAt)-1)
	for i := 0; i < len(splitAt)-1; i++ {
		chunkText := strings.Join(sentences[splitAt[i]:splitAt[i+1]], " ")
		chunks = append(chunks, Chunk{
			Text:      chunkText,
			DocID:     docID,
			ChunkID:   chunkID(docID, len(chunks)),
			NumTokens: c.codec.Count(chunkText),
			Method:    MethodSemantic,
		})
	}

	return chunks, nil
}
