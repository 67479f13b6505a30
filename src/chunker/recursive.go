package chunker

import (
	"context"
	"fmt"
	"strings"

	"fusego/src/token"
)

// defaultSeparators orders split points from coarse to fine: paragraph
// breaks, line breaks, sentence enders, clause punctuation, word spaces, and
// finally individual characters.
var defaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}

// RecursiveChunker splits on the coarsest separator that keeps segments
// within the token budget, recursing to finer separators for oversized
// segments, then greedily packs consecutive segments into chunks with a
// token-tail overlap carried between them.
type RecursiveChunker struct {
	codec      token.Codec
	chunkSize  int
	overlap    int
	separators []string
}

// NewRecursiveChunker validates the configuration; overlap rules match the
// fixed chunker.
func NewRecursiveChunker(codec token.Codec, chunkSize, overlap int) (*RecursiveChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must satisfy 0 <= overlap < chunk size, got overlap=%d chunk size=%d", overlap, chunkSize)
	}
	return &RecursiveChunker{
		codec:      codec,
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}, nil
}

var _ Chunker = (*RecursiveChunker)(nil)

func (c *RecursiveChunker) Chunk(_ context.Context, text, docID string) ([]Chunk, error) {
	splits := c.recursiveSplit(text, c.separators)

	var chunks []Chunk
	var current []string
	currentTokens := 0

	appendChunk := func() {
		chunkText := strings.Join(current, "")
		chunks = append(chunks, Chunk{
			Text:      chunkText,
			DocID:     docID,
			ChunkID:   chunkID(docID, len(chunks)),
			NumTokens: currentTokens,
			Method:    MethodRecursive,
		})
	}

	for _, split := range splits {
		splitTokens := c.codec.Count(split)

		if currentTokens+splitTokens > c.chunkSize && len(current) > 0 {
			appendChunk()

			overlapText := c.overlapTail(current)
			if overlapText != "" {
				current = []string{overlapText}
				currentTokens = c.codec.Count(overlapText)
			} else {
				current = nil
				currentTokens = 0
			}
		}

		current = append(current, split)
		currentTokens += splitTokens
	}

	if len(current) > 0 {
		appendChunk()
	}

	return chunks, nil
}

// recursiveSplit splits text on the first separator, recursing with the
// remaining finer separators for any segment still over the token budget.
// Separators stay attached to the segment they terminate.
func (c *RecursiveChunker) recursiveSplit(text string, separators []string) []string {
	if len(separators) == 0 {
		return []string{text}
	}

	separator := separators[0]
	rest := separators[1:]

	if separator == "" {
		// Last resort: individual characters.
		runes := []rune(text)
		out := make([]string, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out
	}

	parts := strings.Split(text, separator)

	var final []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i < len(parts)-1 {
			part += separator
		}

		if c.codec.Count(part) > c.chunkSize && len(rest) > 0 {
			final = append(final, c.recursiveSplit(part, rest)...)
		} else {
			final = append(final, part)
		}
	}

	return final
}

// overlapTail returns the trailing overlap-budget tokens of the current
// chunk, decoded back to text.
func (c *RecursiveChunker) overlapTail(current []string) string {
	if c.overlap == 0 {
		return ""
	}

	chunkText := strings.Join(current, "")
	tokens := c.codec.Encode(chunkText)
	if len(tokens) <= c.overlap {
		return chunkText
	}
	return c.codec.Decode(tokens[len(tokens)-c.overlap:])
}
