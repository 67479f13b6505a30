package token

import (
	"strings"
	"sync"
)

// wordCodec tokenizes on whitespace, assigning ids per distinct word. It is
// deterministic within one instance and needs no vocabulary files, which
// makes it the codec of choice for tests and offline tooling. Decoding joins
// words with single spaces, so original whitespace is not preserved.
type wordCodec struct {
	mu    sync.Mutex
	ids   map[string]int
	words []string
}

// NewWordCodec returns a whitespace word-level Codec.
func NewWordCodec() Codec {
	return &wordCodec{ids: make(map[string]int)}
}

func (c *wordCodec) Encode(text string) []int {
	fields := strings.Fields(text)
	tokens := make([]int, len(fields))

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, word := range fields {
		id, ok := c.ids[word]
		if !ok {
			id = len(c.words)
			c.ids[word] = id
			c.words = append(c.words, word)
		}
		tokens[i] = id
	}
	return tokens
}

func (c *wordCodec) Decode(tokens []int) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	words := make([]string, 0, len(tokens))
	for _, id := range tokens {
		if id >= 0 && id < len(c.words) {
			words = append(words, c.words[id])
		}
	}
	return strings.Join(words, " ")
}

func (c *wordCodec) Count(text string) int {
	return len(strings.Fields(text))
}
