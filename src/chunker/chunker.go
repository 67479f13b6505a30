// Package chunker implements the text-splitting strategies that feed the
// retrieval indexes: fixed token windows, recursive separator splitting,
// semantic boundary detection, and LLM contextual enrichment.
package chunker

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Method identifies which strategy produced a chunk.
type Method string

const (
	MethodFixed      Method = "fixed"
	MethodRecursive  Method = "recursive"
	MethodSemantic   Method = "semantic"
	MethodContextual Method = "contextual"
)

// Chunk is one contiguous span of a document, sized for embedding. Chunks
// are read-only once produced. ChunkID ordering encodes document position
// for fixed, recursive and contextual chunks; semantic chunks are only
// guaranteed consistent within a single run.
type Chunk struct {
	Text      string `json:"text"`
	DocID     string `json:"doc_id"`
	ChunkID   string `json:"chunk_id"`
	NumTokens int    `json:"num_tokens"`
	Method    Method `json:"method"`

	// Set by the fixed and contextual strategies only.
	StartToken    int `json:"start_token,omitempty"`
	EndToken      int `json:"end_token,omitempty"`
	OverlapTokens int `json:"overlap_tokens,omitempty"`

	// Set by the contextual strategy only.
	Context      string `json:"context,omitempty"`
	OriginalText string `json:"original_text,omitempty"`
}

// Chunker is the common strategy contract. Chunk is a pure function of its
// input: re-running it over the same text yields the same chunks.
type Chunker interface {
	Chunk(ctx context.Context, text, docID string) ([]Chunk, error)
}

// chunkID formats the per-document chunk identifier.
func chunkID(docID string, n int) string {
	return fmt.Sprintf("%s_chunk_%d", docID, n)
}

// SplitSentences splits text into sentences on terminal punctuation followed
// by whitespace. It is deliberately simple: no abbreviation handling, just a
// deterministic boundary rule shared by the semantic strategies.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			atEnd := i == len(runes)-1
			if atEnd || unicode.IsSpace(runes[i+1]) {
				sentence := strings.TrimSpace(current.String())
				if sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
