// Package tooltest provides test helpers and mocks for the tool package.
package tooltest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aura-ai/aura/internal/tool"
)

// MockTool is a configurable mock implementation of tool.Tool.
type MockTool struct {
	NameFunc        func() string
	DescriptionFunc func() string
	SchemaFunc      func() json.RawMessage
	ExecuteFunc     func(ctx context.Context, args json.RawMessage) (tool.Output, error)

	mu           sync.Mutex
	ExecuteCalls int
}

// Name implements tool.Tool.
func (m *MockTool) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock-tool"
}

// Description implements tool.Tool.
func (m *MockTool) Description() string {
	if m.DescriptionFunc != nil {
		return m.DescriptionFunc()
	}
	return "a mock tool"
}

// Schema implements tool.Tool.
func (m *MockTool) Schema() json.RawMessage {
	if m.SchemaFunc != nil {
		return m.SchemaFunc()
	}
	return json.RawMessage(`{}`)
}

// Execute implements tool.Tool and counts invocations.
func (m *MockTool) Execute(ctx context.Context, args json.RawMessage) (tool.Output, error) {
	m.mu.Lock()
	m.ExecuteCalls++
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, args)
	}
	return tool.Output{Content: "mock output"}, nil
}

// Calls returns the number of times Execute has been invoked.
func (m *MockTool) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCalls
}
