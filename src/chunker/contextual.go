package chunker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/panjf2000/ants/v2"

	"fusego/src/llm"
	"fusego/src/log"
	"fusego/src/token"
)

const (
	// DefaultContextConcurrency bounds in-flight completion calls.
	DefaultContextConcurrency = 5
	// DefaultContextTimeout is the per-chunk completion deadline.
	DefaultContextTimeout = 60 * time.Second

	// fallbackContext stands in when a completion call fails, keeping the
	// chunk usable for retrieval instead of dropping it.
	fallbackContext = "This chunk is from the document."

	contextSystemPrompt = "You are an assistant that situates document chunks for search retrieval. Answer with the context only."
)

var contextPromptTmpl = template.Must(template.New("context").Parse(
	`<document>
{{.Document}}
</document>

Here is the chunk we want to situate within the whole document:
<chunk>
{{.Chunk}}
</chunk>

Please give a short succinct context to situate this chunk within the overall document for the purposes of improving search retrieval of the chunk.`))

// ContextualChunker wraps fixed-window chunking with an LLM pass that
// prefixes each chunk with a generated description of where it sits in the
// document. Calls run concurrently through a bounded pool; a failed call
// degrades to a generic prefix rather than failing the document.
type ContextualChunker struct {
	base        *FixedChunker
	completer   llm.Completer
	concurrency int
	timeout     time.Duration
}

func NewContextualChunker(codec token.Codec, completer llm.Completer, chunkSize, overlap int) (*ContextualChunker, error) {
	base, err := NewFixedChunker(codec, chunkSize, overlap)
	if err != nil {
		return nil, err
	}
	return &ContextualChunker{
		base:        base,
		completer:   completer,
		concurrency: DefaultContextConcurrency,
		timeout:     DefaultContextTimeout,
	}, nil
}

var _ Chunker = (*ContextualChunker)(nil)

// WithConcurrency overrides the completion pool size.
func (c *ContextualChunker) WithConcurrency(n int) *ContextualChunker {
	if n > 0 {
		c.concurrency = n
	}
	return c
}

// WithTimeout overrides the per-chunk completion deadline.
func (c *ContextualChunker) WithTimeout(d time.Duration) *ContextualChunker {
	if d > 0 {
		c.timeout = d
	}
	return c
}

func (c *ContextualChunker) Chunk(ctx context.Context, text, docID string) ([]Chunk, error) {
	chunks, err := c.base.Chunk(ctx, text, docID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(c.concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create context pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	contexts := make([]string, len(chunks))

	for i := range chunks {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			contexts[i] = c.generateContext(ctx, text, chunks[i].Text, docID, i)
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("failed to submit context task: %w", err)
		}
	}
	wg.Wait()

	out := make([]Chunk, len(chunks))
	for i, base := range chunks {
		out[i] = Chunk{
			Text:          contexts[i] + "\n\n" + base.Text,
			DocID:         base.DocID,
			ChunkID:       chunkID(docID, i),
			Method:        MethodContextual,
			StartToken:    base.StartToken,
			EndToken:      base.EndToken,
			OverlapTokens: base.OverlapTokens,
			Context:       contexts[i],
			OriginalText:  base.Text,
		}
		out[i].NumTokens = c.base.codec.Count(out[i].Text)
	}

	return out, nil
}

// generateContext asks the completer to situate one chunk. Failure is logged
// and degraded to the generic fallback so one bad call never loses a chunk.
func (c *ContextualChunker) generateContext(ctx context.Context, document, chunk, docID string, idx int) string {
	var prompt strings.Builder
	if err := contextPromptTmpl.Execute(&prompt, map[string]string{
		"Document": document,
		"Chunk":    chunk,
	}); err != nil {
		log.Error(err, "failed to render context prompt", "doc_id", docID, "chunk", idx)
		return fallbackContext
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, _, err := c.completer.Complete(callCtx, contextSystemPrompt, prompt.String())
	if err != nil {
		log.Error(err, "failed to generate chunk context", "doc_id", docID, "chunk", idx)
		return fallbackContext
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fallbackContext
	}
	return text
}
