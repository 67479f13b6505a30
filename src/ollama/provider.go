package ollama

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"fusego/src/llm"
	"fusego/src/token"
)

// Provider adapts the raw client to the capability interfaces the core
// consumes: embedding.Embedder and llm.Completer. One provider is bound to
// one embedding model and one completion model.
type Provider struct {
	client     *Client
	embedModel string
	llmModel   string
	dim        int
	codec      token.Codec
}

// NewProvider creates a provider. dim must match the embedding model's
// output dimension; it is enforced downstream at collection creation.
func NewProvider(client *Client, embedModel, llmModel string, dim int, codec token.Codec) *Provider {
	return &Provider{
		client:     client,
		embedModel: embedModel,
		llmModel:   llmModel,
		dim:        dim,
		codec:      codec,
	}
}

// Embed returns one vector per text, in order. The Ollama embeddings
// endpoint takes one prompt per call, so this loops.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.client.Embedding(ctx, p.embedModel, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d of %d: %w", i+1, len(texts), err)
		}
		if len(vec) != p.dim {
			return nil, fmt.Errorf("model %s returned dimension %d, expected %d", p.embedModel, len(vec), p.dim)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (p *Provider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimension returns the embedding model's output dimension.
func (p *Provider) Dimension() int {
	return p.dim
}

// Complete generates text with the completion model.
func (p *Provider) Complete(ctx context.Context, system, prompt string) (string, llm.Usage, error) {
	result, err := p.client.Generate(ctx, p.llmModel, system, prompt, map[string]interface{}{
		"temperature": 0.3,
	})
	if err != nil {
		return "", llm.Usage{}, err
	}
	return result.Text, llm.Usage{
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.ResponseTokens,
	}, nil
}

// TextSplit breaks text into pieces of at most chunkSize tokens with the
// given overlap, using recursive character splitting measured by the codec.
// Used to pre-split documents that exceed a completion model's context.
func (p *Provider) TextSplit(_ context.Context, text string, chunkSize, chunkOverlap int) ([]string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithLenFunc(p.codec.Count),
	)

	return splitter.SplitText(text)
}
