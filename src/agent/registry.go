// Package agent exposes retrieval operations as LLM-callable tools: an
// explicit registry mapping tool names to handlers, and an accumulator that
// reassembles tool calls from streamed response deltas.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"fusego/src/log"
)

// Handler executes one tool invocation. Arguments arrive as the raw JSON
// object the model produced; the result is returned as a string for the
// model's next turn.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool is one callable capability.
type Tool struct {
	Name        string
	Description string
	Schema      json.RawMessage
	Handler     Handler
}

// Registry maps tool names to handlers. Tools are registered explicitly at
// startup; there is no init-time self-registration, so what a given registry
// can dispatch is visible at the call site that built it.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Duplicate names and nil handlers are rejected.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %s has no handler", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// Tools returns the registered tools sorted by name.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		out = append(out, tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch runs the named tool with the call's arguments.
func (r *Registry) Dispatch(ctx context.Context, call ToolCall) (string, error) {
	r.mu.RLock()
	tool, ok := r.tools[call.Name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown tool %q", call.Name)
	}

	log.Debug("dispatching tool call", "tool", call.Name, "call_id", call.ID)

	result, err := tool.Handler(ctx, json.RawMessage(call.Arguments))
	if err != nil {
		return "", fmt.Errorf("tool %s failed: %w", call.Name, err)
	}
	return result, nil
}
