// Package provider defines the completion-service interface the assistant
// core depends on, together with a concrete client for Ollama-style
// OpenAI-compatible chat-completions endpoints.
package provider

import "context"

// Provider is the interface for communicating with an LLM completion
// service. Calls are synchronous, single request/response; the core never
// retries — a failed call fails the resolution step that issued it.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}

// CompleteText is a convenience wrapper for single-prompt completions: it
// wraps the prompt in one user message and returns the response content.
func CompleteText(ctx context.Context, p Provider, prompt string) (string, error) {
	resp, err := p.Complete(ctx, CompletionRequest{
		Messages: []LLMMessage{{Role: MessageRoleUser, Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
