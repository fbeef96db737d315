// Package agent implements the reason-act loop that turns a user query
// into a response through iterative provider calls and tool executions.
package agent

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/aura-ai/aura/internal/provider"
	"github.com/aura-ai/aura/internal/tool"
)

// StopReason describes why the agent loop terminated.
type StopReason string

// StopReason constants for agent loop termination.
const (
	StopReasonComplete      StopReason = "complete"
	StopReasonMaxIterations StopReason = "max_iterations"
	StopReasonLoopDetected  StopReason = "loop_detected"
	StopReasonTimeout       StopReason = "timeout"
	StopReasonError         StopReason = "error"
)

// ToolCallRecord tracks one tool invocation during the agent loop.
type ToolCallRecord struct {
	ID        string
	Name      string
	Arguments json.RawMessage
	Output    tool.Output
	Duration  time.Duration
	Panicked  bool
}

// Request is the input to the agent loop.
type Request struct {
	Query        string
	SystemPrompt string
	History      []provider.LLMMessage
}

// Response is the output of the agent loop. ToolCalls is the full trace
// in execution order.
type Response struct {
	Content    string
	ToolCalls  []ToolCallRecord
	TotalUsage provider.TokenUsage
	Iterations int
	StopReason StopReason
}

// LastToolOutput returns the output of the most recent successful call to
// the named tool, or "" if the trace has none. Specialized response
// handlers use this to reuse search output instead of searching again.
func (r Response) LastToolOutput(name string) string {
	for i := len(r.ToolCalls) - 1; i >= 0; i-- {
		rec := r.ToolCalls[i]
		if rec.Name == name && !rec.Output.IsError && strings.TrimSpace(rec.Output.Content) != "" {
			return rec.Output.Content
		}
	}
	return ""
}
