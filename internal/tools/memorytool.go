package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aura-ai/aura/internal/memory"
	"github.com/aura-ai/aura/internal/tool"
)

// RememberFactTool stores a fact in long-term memory.
type RememberFactTool struct {
	store memory.Store
}

var _ tool.Tool = (*RememberFactTool)(nil)

// NewRememberFactTool wraps a memory store as a fact-writing tool.
func NewRememberFactTool(store memory.Store) *RememberFactTool {
	return &RememberFactTool{store: store}
}

// Name implements tool.Tool.
func (t *RememberFactTool) Name() string { return "remember_fact" }

// Description implements tool.Tool.
func (t *RememberFactTool) Description() string {
	return "Store a fact about the user in long-term memory, e.g. a preference or a status."
}

// Schema implements tool.Tool.
func (t *RememberFactTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"category": {"type": "string", "description": "Fact category, e.g. preference or user"},
			"key": {"type": "string", "description": "Fact key, e.g. color"},
			"value": {"type": "string", "description": "Fact value, e.g. red"}
		},
		"required": ["category", "key", "value"]
	}`)
}

type rememberArgs struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// Execute implements tool.Tool.
func (t *RememberFactTool) Execute(_ context.Context, args json.RawMessage) (tool.Output, error) {
	var parsed rememberArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return tool.Output{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
	}
	if strings.TrimSpace(parsed.Category) == "" || strings.TrimSpace(parsed.Key) == "" {
		return tool.Output{Content: "category and key must not be empty", IsError: true}, nil
	}

	if err := t.store.AddFact(parsed.Category, parsed.Key, parsed.Value); err != nil {
		return tool.Output{Content: "remember failed: " + err.Error(), IsError: true}, nil
	}
	return tool.Output{Content: fmt.Sprintf("remembered %s/%s = %s", parsed.Category, parsed.Key, parsed.Value)}, nil
}

// RecallFactTool reads a fact from long-term memory.
type RecallFactTool struct {
	store memory.Store
}

var _ tool.Tool = (*RecallFactTool)(nil)

// NewRecallFactTool wraps a memory store as a fact-reading tool.
func NewRecallFactTool(store memory.Store) *RecallFactTool {
	return &RecallFactTool{store: store}
}

// Name implements tool.Tool.
func (t *RecallFactTool) Name() string { return "recall_fact" }

// Description implements tool.Tool.
func (t *RecallFactTool) Description() string {
	return "Look up a stored fact about the user by category and key."
}

// Schema implements tool.Tool.
func (t *RecallFactTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"category": {"type": "string", "description": "Fact category, e.g. preference or user"},
			"key": {"type": "string", "description": "Fact key, e.g. color"}
		},
		"required": ["category", "key"]
	}`)
}

type recallArgs struct {
	Category string `json:"category"`
	Key      string `json:"key"`
}

// Execute implements tool.Tool.
func (t *RecallFactTool) Execute(_ context.Context, args json.RawMessage) (tool.Output, error) {
	var parsed recallArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return tool.Output{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
	}

	fact, err := t.store.GetFact(parsed.Category, parsed.Key)
	if err != nil {
		if errors.Is(err, memory.ErrFactNotFound) {
			return tool.Output{Content: fmt.Sprintf("no memory found for %s/%s", parsed.Category, parsed.Key)}, nil
		}
		return tool.Output{Content: "recall failed: " + err.Error(), IsError: true}, nil
	}
	return tool.Output{Content: fmt.Sprintf("%s/%s: %s", fact.Category, fact.Key, fact.Value)}, nil
}
