package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusego/src/corpus"
	"fusego/src/llm"
	"fusego/src/llm/mock"
	"fusego/src/token"
)

func makeDocs(n int) []corpus.Document {
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = corpus.Document{
			ID:      fmt.Sprintf("doc%d.txt", i),
			Content: fmt.Sprintf("content of document %d", i),
		}
	}
	return docs
}

// scriptedCompleter tags outputs by system prompt so the test can count map,
// reduce and executive calls.
func scriptedCompleter() *mock.Completer {
	c := mock.NewCompleter()
	c.CompleteFunc = func(_ context.Context, system, prompt string) (string, llm.Usage, error) {
		usage := llm.Usage{PromptTokens: 10, CompletionTokens: 5}
		switch system {
		case mapSystemPrompt:
			return "map:" + prompt, usage, nil
		case reduceSystemPrompt:
			return fmt.Sprintf("reduce(%d)", strings.Count(prompt, "\n\n---\n\n")+1), usage, nil
		case execSystemPrompt:
			return "executive summary", usage, nil
		}
		return "", llm.Usage{}, errors.New("unknown system prompt")
	}
	return c
}

func TestSummarizeSingleDocument(t *testing.T) {
	completer := scriptedCompleter()
	s := New(completer, token.NewWordCodec())

	result, err := s.Summarize(context.Background(), makeDocs(1))
	require.NoError(t, err)

	// One map call plus the executive call; nothing to reduce.
	assert.Equal(t, 2, completer.Calls())
	assert.Equal(t, 0, result.ReduceLevels)
	assert.Equal(t, "executive summary", result.ExecutiveSummary)
	require.Len(t, result.DocumentSummaries, 1)
	assert.Equal(t, "doc0.txt", result.DocumentSummaries[0].DocID)
	assert.Equal(t, 30, result.Usage.Total())
}

func TestSummarizeSingleReduceLevel(t *testing.T) {
	completer := scriptedCompleter()
	s := New(completer, token.NewWordCodec(), WithBatchSize(10))

	result, err := s.Summarize(context.Background(), makeDocs(4))
	require.NoError(t, err)

	// 4 map + 1 reduce + 1 executive.
	assert.Equal(t, 6, completer.Calls())
	assert.Equal(t, 1, result.ReduceLevels)
	assert.Len(t, result.DocumentSummaries, 4)
}

func TestSummarizeMultipleReduceLevels(t *testing.T) {
	completer := scriptedCompleter()
	s := New(completer, token.NewWordCodec(), WithBatchSize(3))

	result, err := s.Summarize(context.Background(), makeDocs(7))
	require.NoError(t, err)

	// Level 1: 7 -> 3 batches (3,3,1; the lone one passes through, 2 calls).
	// Level 2: 3 -> 1 batch (1 call). Plus 7 map and 1 executive: 11 total.
	assert.Equal(t, 11, completer.Calls())
	assert.Equal(t, 2, result.ReduceLevels)
}

func TestSummarizeDocumentOrderPreserved(t *testing.T) {
	completer := scriptedCompleter()
	s := New(completer, token.NewWordCodec(), WithConcurrency(3))

	docs := makeDocs(9)
	result, err := s.Summarize(context.Background(), docs)
	require.NoError(t, err)

	require.Len(t, result.DocumentSummaries, 9)
	for i, ds := range result.DocumentSummaries {
		assert.Equal(t, docs[i].ID, ds.DocID)
		assert.Equal(t, "map:"+docs[i].Content, ds.Summary)
	}
}

func TestSummarizeMapFailureIsFatal(t *testing.T) {
	completer := mock.NewCompleter()
	completer.CompleteFunc = func(_ context.Context, system, prompt string) (string, llm.Usage, error) {
		if strings.Contains(prompt, "document 2") {
			return "", llm.Usage{}, errors.New("model offline")
		}
		return "summary", llm.Usage{}, nil
	}

	s := New(completer, token.NewWordCodec())
	_, err := s.Summarize(context.Background(), makeDocs(5))
	require.Error(t, err)
	assert.ErrorContains(t, err, "doc2.txt")
	assert.ErrorContains(t, err, "model offline")
}

func TestSummarizeReduceFailureIsFatal(t *testing.T) {
	completer := mock.NewCompleter()
	completer.CompleteFunc = func(_ context.Context, system, prompt string) (string, llm.Usage, error) {
		if system == reduceSystemPrompt {
			return "", llm.Usage{}, errors.New("reduce exploded")
		}
		return "summary", llm.Usage{}, nil
	}

	s := New(completer, token.NewWordCodec())
	_, err := s.Summarize(context.Background(), makeDocs(3))
	require.Error(t, err)
	assert.ErrorContains(t, err, "reduce level 1")
}

func TestSummarizeOversizedDocumentPreSplit(t *testing.T) {
	splitter := &fakeSplitter{parts: []string{"part one", "part two"}}
	completer := scriptedCompleter()

	s := New(completer, token.NewWordCodec(), WithSplitter(splitter, 3))

	docs := []corpus.Document{{ID: "big.txt", Content: "one two three four five six"}}
	result, err := s.Summarize(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, 1, splitter.calls)
	// 2 part maps + 1 part combine + 1 executive.
	assert.Equal(t, 4, completer.Calls())
	require.Len(t, result.DocumentSummaries, 1)
}

func TestSummarizeEmptyCorpus(t *testing.T) {
	s := New(mock.NewCompleter(), token.NewWordCodec())
	_, err := s.Summarize(context.Background(), nil)
	assert.Error(t, err)
}

type fakeSplitter struct {
	parts []string
	calls int
}

func (f *fakeSplitter) TextSplit(context.Context, string, int, int) ([]string, error) {
	f.calls++
	return f.parts, nil
}
