// Package llm defines the completion capability consumed by contextual
// chunking and summarization.
package llm

import "context"

// Usage is the token accounting reported by a completion call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Add accumulates another call's usage.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
}

// Total returns the combined token count.
func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// Completer generates text for a prompt. Retry policy is the caller's
// concern; implementations surface failures as-is.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, Usage, error)
}
