package agent

// ToolCall is one complete tool invocation requested by the model.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Delta is one streamed fragment of a tool call. Index identifies which call
// in the response the fragment belongs to; the string fields are partial and
// concatenate across deltas.
type Delta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// Accumulator folds streamed deltas back into complete tool calls. Streaming
// APIs emit a call's id, name and argument JSON in fragments, interleaved
// across calls; the accumulator keys fragments by index and concatenates.
type Accumulator struct {
	byIndex map[int]*ToolCall
	order   []int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{byIndex: make(map[int]*ToolCall)}
}

// Add folds one delta in.
func (a *Accumulator) Add(delta Delta) {
	call, ok := a.byIndex[delta.Index]
	if !ok {
		call = &ToolCall{}
		a.byIndex[delta.Index] = call
		a.order = append(a.order, delta.Index)
	}

	call.ID += delta.ID
	call.Name += delta.Name
	call.Arguments += delta.Arguments
}

// Calls returns the assembled calls in first-seen index order.
func (a *Accumulator) Calls() []ToolCall {
	out := make([]ToolCall, 0, len(a.order))
	for _, idx := range a.order {
		out = append(out, *a.byIndex[idx])
	}
	return out
}

// Len returns the number of distinct calls seen so far.
func (a *Accumulator) Len() int {
	return len(a.order)
}
