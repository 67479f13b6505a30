// Package token wraps tokenizer encodings behind a small Codec interface so
// chunkers can be measured in model tokens without caring which encoding
// backs them.
package token

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Codec encodes text to token ids and back.
type Codec interface {
	Encode(text string) []int
	Decode(tokens []int) string
	Count(text string) int
}

type bpeCodec struct {
	enc *tiktoken.Tiktoken
}

// NewCL100K returns a Codec backed by the cl100k_base BPE encoding, loaded
// from the embedded vocabulary so no network access is needed.
func NewCL100K() (Codec, error) {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to load cl100k_base encoding: %w", err)
	}
	return &bpeCodec{enc: enc}, nil
}

func (c *bpeCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c *bpeCodec) Decode(tokens []int) string {
	return c.enc.Decode(tokens)
}

func (c *bpeCodec) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
