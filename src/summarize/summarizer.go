// Package summarize builds a corpus-level summary with a hierarchical
// map-reduce: one summary per document, then rounds of batch combination
// until a single summary remains, finished by an executive rewrite.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"fusego/src/corpus"
	"fusego/src/llm"
	"fusego/src/log"
	"fusego/src/token"
)

const (
	// DefaultBatchSize is how many summaries one reduce call combines.
	DefaultBatchSize = 10
	// DefaultConcurrency bounds in-flight completion calls.
	DefaultConcurrency = 5
	// DefaultCallTimeout is the per-completion deadline.
	DefaultCallTimeout = 30 * time.Second
	// DefaultMaxDocTokens is the size above which a document is pre-split
	// before summarization.
	DefaultMaxDocTokens = 4000

	mapSystemPrompt    = "You are a precise technical summarizer. Summarize the given document in a short paragraph, keeping concrete names, numbers and conclusions."
	reduceSystemPrompt = "You are a precise technical summarizer. Merge the given summaries into one coherent summary, preserving all distinct topics."
	execSystemPrompt   = "You are an editor. Rewrite the given summary as a clear executive summary of at most three paragraphs."
)

// Splitter pre-splits documents that exceed the token limit of a single
// summarization call. The Ollama provider satisfies this.
type Splitter interface {
	TextSplit(ctx context.Context, text string, chunkSize, chunkOverlap int) ([]string, error)
}

// DocumentSummary is the map-phase output for one document.
type DocumentSummary struct {
	DocID   string `json:"doc_id"`
	Summary string `json:"summary"`
}

// Result is the full summarization outcome, shaped for the JSON artifact.
type Result struct {
	ExecutiveSummary  string            `json:"executive_summary"`
	DocumentSummaries []DocumentSummary `json:"document_summaries"`
	ReduceLevels      int               `json:"reduce_levels"`
	Usage             llm.Usage         `json:"usage"`
}

// Summarizer runs the map-reduce. Map and reduce calls go through a bounded
// pool; any failed call aborts the run, unlike contextual chunking there is
// no useful degraded output for a missing summary.
type Summarizer struct {
	completer    llm.Completer
	codec        token.Codec
	splitter     Splitter
	batchSize    int
	concurrency  int
	callTimeout  time.Duration
	maxDocTokens int
}

// Option configures a Summarizer.
type Option func(*Summarizer)

func WithBatchSize(n int) Option {
	return func(s *Summarizer) {
		if n > 1 {
			s.batchSize = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// WithSplitter enables pre-splitting of documents larger than maxDocTokens.
func WithSplitter(splitter Splitter, maxDocTokens int) Option {
	return func(s *Summarizer) {
		s.splitter = splitter
		if maxDocTokens > 0 {
			s.maxDocTokens = maxDocTokens
		}
	}
}

func New(completer llm.Completer, codec token.Codec, opts ...Option) *Summarizer {
	s := &Summarizer{
		completer:    completer,
		codec:        codec,
		batchSize:    DefaultBatchSize,
		concurrency:  DefaultConcurrency,
		callTimeout:  DefaultCallTimeout,
		maxDocTokens: DefaultMaxDocTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize runs map over the documents, reduce over the summaries, and the
// final executive rewrite.
func (s *Summarizer) Summarize(ctx context.Context, docs []corpus.Document) (*Result, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to summarize")
	}

	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary pool: %w", err)
	}
	defer pool.Release()

	result := &Result{}

	docSummaries, err := s.mapPhase(ctx, pool, docs, &result.Usage)
	if err != nil {
		return nil, err
	}
	result.DocumentSummaries = docSummaries

	summaries := make([]string, len(docSummaries))
	for i, ds := range docSummaries {
		summaries[i] = ds.Summary
	}

	for len(summaries) > 1 {
		result.ReduceLevels++
		log.Info("reducing summaries", "level", result.ReduceLevels, "count", len(summaries))

		summaries, err = s.reduceLevel(ctx, pool, summaries, &result.Usage)
		if err != nil {
			return nil, fmt.Errorf("reduce level %d failed: %w", result.ReduceLevels, err)
		}
	}

	exec, usage, err := s.complete(ctx, execSystemPrompt, summaries[0])
	if err != nil {
		return nil, fmt.Errorf("failed to write executive summary: %w", err)
	}
	result.Usage.Add(usage)
	result.ExecutiveSummary = exec

	return result, nil
}

// mapPhase summarizes every document concurrently. The first error aborts
// the run after all in-flight calls drain.
func (s *Summarizer) mapPhase(ctx context.Context, pool *ants.Pool, docs []corpus.Document, total *llm.Usage) ([]DocumentSummary, error) {
	summaries := make([]DocumentSummary, len(docs))
	errs := make([]error, len(docs))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, doc := range docs {
		i, doc := i, doc
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			summary, usage, err := s.summarizeDocument(ctx, doc)
			if err != nil {
				errs[i] = fmt.Errorf("failed to summarize %s: %w", doc.ID, err)
				return
			}
			summaries[i] = DocumentSummary{DocID: doc.ID, Summary: summary}

			mu.Lock()
			total.Add(usage)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("failed to submit map task: %w", err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// summarizeDocument handles one document, pre-splitting it when it exceeds
// the per-call token limit.
func (s *Summarizer) summarizeDocument(ctx context.Context, doc corpus.Document) (string, llm.Usage, error) {
	var total llm.Usage

	if s.splitter == nil || s.codec.Count(doc.Content) <= s.maxDocTokens {
		text, usage, err := s.complete(ctx, mapSystemPrompt, doc.Content)
		return text, usage, err
	}

	parts, err := s.splitter.TextSplit(ctx, doc.Content, s.maxDocTokens, 0)
	if err != nil {
		return "", total, fmt.Errorf("failed to split document: %w", err)
	}

	partSummaries := make([]string, len(parts))
	for i, part := range parts {
		summary, usage, err := s.complete(ctx, mapSystemPrompt, part)
		if err != nil {
			return "", total, fmt.Errorf("part %d of %d: %w", i+1, len(parts), err)
		}
		total.Add(usage)
		partSummaries[i] = summary
	}

	combined, usage, err := s.complete(ctx, reduceSystemPrompt, strings.Join(partSummaries, "\n\n"))
	if err != nil {
		return "", total, err
	}
	total.Add(usage)
	return combined, total, nil
}

// reduceLevel combines summaries in batches, all batches of a level running
// concurrently with a barrier before the next level starts.
func (s *Summarizer) reduceLevel(ctx context.Context, pool *ants.Pool, summaries []string, total *llm.Usage) ([]string, error) {
	batches := (len(summaries) + s.batchSize - 1) / s.batchSize
	combined := make([]string, batches)
	errs := make([]error, batches)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for b := 0; b < batches; b++ {
		b := b
		start := b * s.batchSize
		end := start + s.batchSize
		if end > len(summaries) {
			end = len(summaries)
		}
		batch := summaries[start:end]

		if len(batch) == 1 {
			// A lone summary passes through unchanged.
			combined[b] = batch[0]
			continue
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			text, usage, err := s.complete(ctx, reduceSystemPrompt, strings.Join(batch, "\n\n---\n\n"))
			if err != nil {
				errs[b] = err
				return
			}
			combined[b] = text

			mu.Lock()
			total.Add(usage)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("failed to submit reduce task: %w", err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return combined, nil
}

// complete wraps a single completion call with the per-call timeout.
func (s *Summarizer) complete(ctx context.Context, system, prompt string) (string, llm.Usage, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.completer.Complete(callCtx, system, prompt)
}
