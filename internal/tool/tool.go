// Package tool defines the tool interface and registry for the agent.
// Every external action the agent takes goes through a registered tool.
package tool

import (
	"context"
	"encoding/json"
)

// Tool is the interface all agent tools implement.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what the tool does.
	// The model reads it when deciding which tool to call.
	Description() string

	// Schema returns a JSON Schema describing the tool's parameters.
	Schema() json.RawMessage

	// Execute runs the tool with the given arguments.
	Execute(ctx context.Context, args json.RawMessage) (Output, error)
}

// Output is the result of a tool execution.
type Output struct {
	// Content is the output text from the tool.
	Content string

	// IsError indicates whether the output represents an error condition
	// that should be reported back to the model rather than the caller.
	IsError bool
}
