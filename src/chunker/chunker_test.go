package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "terminal punctuation",
			text:     "First sentence. Second sentence! Third sentence?",
			expected: []string{"First sentence.", "Second sentence!", "Third sentence?"},
		},
		{
			name:     "no trailing punctuation keeps tail",
			text:     "Complete sentence. Trailing fragment",
			expected: []string{"Complete sentence.", "Trailing fragment"},
		},
		{
			name:     "punctuation not followed by space is not a boundary",
			text:     "Version 1.5 shipped. Done.",
			expected: []string{"Version 1.5 shipped.", "Done."},
		},
		{
			name:     "newlines count as whitespace",
			text:     "One.\nTwo.",
			expected: []string{"One.", "Two."},
		},
		{
			name:     "empty input",
			text:     "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			text:     "   \n\t  ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitSentences(tt.text))
		})
	}
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc.txt_chunk_0", chunkID("doc.txt", 0))
	assert.Equal(t, "doc.txt_chunk_12", chunkID("doc.txt", 12))
}
