package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aura-ai/aura/internal/retrieval"
	"github.com/aura-ai/aura/internal/tool"
)

// KnowledgeTool exposes the knowledge retrieval service as an agent tool.
type KnowledgeTool struct {
	client retrieval.Client
}

var _ tool.Tool = (*KnowledgeTool)(nil)

// NewKnowledgeTool wraps a retrieval client as a tool.
func NewKnowledgeTool(client retrieval.Client) *KnowledgeTool {
	return &KnowledgeTool{client: client}
}

// Name implements tool.Tool.
func (t *KnowledgeTool) Name() string { return "knowledge_search" }

// Description implements tool.Tool.
func (t *KnowledgeTool) Description() string {
	return "Search the personal knowledge base for documents related to a topic."
}

// Schema implements tool.Tool.
func (t *KnowledgeTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The topic to look up"}
		},
		"required": ["query"]
	}`)
}

type knowledgeArgs struct {
	Query string `json:"query"`
}

// Execute implements tool.Tool.
func (t *KnowledgeTool) Execute(ctx context.Context, args json.RawMessage) (tool.Output, error) {
	var parsed knowledgeArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return tool.Output{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
	}
	if strings.TrimSpace(parsed.Query) == "" {
		return tool.Output{Content: "query must not be empty", IsError: true}, nil
	}

	passage, found, err := t.client.Retrieve(ctx, parsed.Query)
	if err != nil {
		return tool.Output{Content: "knowledge search failed: " + err.Error(), IsError: true}, nil
	}
	if !found {
		return tool.Output{Content: "No relevant knowledge found."}, nil
	}
	return tool.Output{Content: passage}, nil
}
