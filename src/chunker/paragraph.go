package chunker

import (
	"context"
	"fmt"
	"strings"

	"fusego/src/token"
)

// ParagraphChunker is the embedding-free alternative to SemanticChunker: it
// treats blank-line paragraphs as topic units, sentence-splits any paragraph
// over the token budget, and greedily packs the resulting segments. Overlap
// is carried as whole trailing segments rather than raw tokens, so chunk
// boundaries always fall on natural text boundaries.
type ParagraphChunker struct {
	codec     token.Codec
	chunkSize int
	overlap   int
}

func NewParagraphChunker(codec token.Codec, chunkSize, overlap int) (*ParagraphChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must satisfy 0 <= overlap < chunk size, got overlap=%d chunk size=%d", overlap, chunkSize)
	}
	return &ParagraphChunker{codec: codec, chunkSize: chunkSize, overlap: overlap}, nil
}

var _ Chunker = (*ParagraphChunker)(nil)

func (c *ParagraphChunker) Chunk(_ context.Context, text, docID string) ([]Chunk, error) {
	segments := c.segments(text)
	if len(segments) == 0 {
		return nil, nil
	}

	var chunks []Chunk
	var current []string
	currentTokens := 0

	appendChunk := func() {
		chunkText := strings.Join(current, "\n\n")
		chunks = append(chunks, Chunk{
			Text:      chunkText,
			DocID:     docID,
			ChunkID:   chunkID(docID, len(chunks)),
			NumTokens: c.codec.Count(chunkText),
			Method:    MethodSemantic,
		})
	}

	for _, seg := range segments {
		segTokens := c.codec.Count(seg)

		if currentTokens+segTokens > c.chunkSize && len(current) > 0 {
			appendChunk()
			current, currentTokens = c.overlapSegments(current)
		}

		current = append(current, seg)
		currentTokens += segTokens
	}

	if len(current) > 0 {
		appendChunk()
	}

	return chunks, nil
}

// segments returns blank-line paragraphs, sentence-splitting any paragraph
// that alone exceeds the token budget.
func (c *ParagraphChunker) segments(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if c.codec.Count(para) > c.chunkSize {
			out = append(out, SplitSentences(para)...)
		} else {
			out = append(out, para)
		}
	}
	return out
}

// overlapSegments returns the trailing segments of the finished chunk that
// fit within the overlap budget, newest first preserved in order.
func (c *ParagraphChunker) overlapSegments(current []string) ([]string, int) {
	if c.overlap == 0 {
		return nil, 0
	}

	total := 0
	start := len(current)
	for start > 0 {
		segTokens := c.codec.Count(current[start-1])
		if total+segTokens > c.overlap {
			break
		}
		total += segTokens
		start--
	}

	if start == len(current) {
		return nil, 0
	}
	kept := append([]string(nil), current[start:]...)
	return kept, total
}
