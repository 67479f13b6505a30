// Package mock provides a test double for the completion capability.
package mock

import (
	"context"
	"fmt"
	"sync"

	"fusego/src/llm"
)

// Completer is a test double for llm.Completer. Set CompleteFunc to inject
// behavior; the default echoes a short deterministic string.
type Completer struct {
	CompleteFunc func(ctx context.Context, system, prompt string) (string, llm.Usage, error)

	mu    sync.Mutex
	calls int
}

// NewCompleter creates a mock with default behavior.
func NewCompleter() *Completer {
	return &Completer{}
}

func (m *Completer) Complete(ctx context.Context, system, prompt string) (string, llm.Usage, error) {
	m.mu.Lock()
	m.calls++
	n := m.calls
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, prompt)
	}
	return fmt.Sprintf("completion %d", n), llm.Usage{PromptTokens: len(prompt) / 4, CompletionTokens: 8}, nil
}

// Calls returns the number of Complete invocations.
func (m *Completer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
