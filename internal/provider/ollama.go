package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OllamaConfig holds the configuration for the Ollama-compatible client.
// Ollama exposes the OpenAI chat-completions wire format under /v1, so the
// same client works against any OpenAI-compatible endpoint.
type OllamaConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	SystemPrompt string        `yaml:"system_prompt"`
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Defaults sets default values for unset fields.
func (c *OllamaConfig) Defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434/v1"
	}
	if c.Model == "" {
		c.Model = "qwen3:4b"
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

// Validate returns an error if required fields are malformed.
func (c *OllamaConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("provider: base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("provider: base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Model == "" {
		return fmt.Errorf("provider: model is required")
	}
	return nil
}

// OllamaClient is a Provider backed by an Ollama (or any OpenAI-compatible)
// chat-completions endpoint.
type OllamaClient struct {
	config OllamaConfig
	client *http.Client
}

// Compile-time interface check.
var _ Provider = (*OllamaClient)(nil)

// NewOllamaClient creates a client from the given configuration.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	cfg.Defaults()
	return &OllamaClient{
		config: cfg,
		client: &http.Client{
			// Response-header timeout instead of a global client timeout:
			// slow generations stream headers early, and per-request context
			// handles cancellation.
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
	}
}

// ModelName implements Provider.
func (c *OllamaClient) ModelName() string { return c.config.Model }

// OpenAI chat-completions wire types.

type oaiRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	Tools       []oaiTool    `json:"tools,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type oaiMessage struct {
	Role       string        `json:"role"`
	Content    string        `json:"content"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	ToolCalls  []oaiToolCall `json:"tool_calls,omitempty"`
}

type oaiTool struct {
	Type     string     `json:"type"`
	Function oaiToolDef `json:"function"`
}

type oaiToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type oaiResponse struct {
	Choices []oaiChoice `json:"choices"`
	Usage   oaiUsage    `json:"usage"`
}

type oaiChoice struct {
	Message struct {
		Content   string        `json:"content"`
		ToolCalls []oaiToolCall `json:"tool_calls"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type oaiToolCall struct {
	ID       string          `json:"id"`
	Type     string          `json:"type,omitempty"`
	Function oaiToolFunction `json:"function"`
}

type oaiToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type oaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Complete implements Provider: one synchronous chat-completions call.
func (c *OllamaClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	body := oaiRequest{
		Model:       c.config.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.config.MaxTokens
	}

	if c.config.SystemPrompt != "" && (len(req.Messages) == 0 || req.Messages[0].Role != MessageRoleSystem) {
		body.Messages = append(body.Messages, oaiMessage{
			Role:    string(MessageRoleSystem),
			Content: c.config.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		msg := oaiMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, oaiToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: oaiToolFunction{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		body.Messages = append(body.Messages, msg)
	}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, oaiTool{
			Type: "function",
			Function: oaiToolDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("provider: marshal request: %w", err)
	}

	endpoint := c.config.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("provider: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// Caller cancellation is not a provider failure.
		if ctx.Err() != nil {
			return CompletionResponse{}, ctx.Err()
		}
		return CompletionResponse{}, fmt.Errorf("%w: %w", ErrProviderDown, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return CompletionResponse{}, handleErrorResponse(resp)
	}

	var parsed oaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return CompletionResponse{}, fmt.Errorf("provider: decode response: %w", err)
	}
	return convertResponse(parsed), nil
}

func convertResponse(resp oaiResponse) CompletionResponse {
	cr := CompletionResponse{
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) == 0 {
		return cr
	}

	choice := resp.Choices[0]
	cr.Content = strings.TrimSpace(choice.Message.Content)
	switch choice.FinishReason {
	case "length":
		cr.FinishReason = FinishReasonLength
	case "tool_calls":
		cr.FinishReason = FinishReasonToolUse
	default:
		cr.FinishReason = FinishReasonStop
	}

	for _, tc := range choice.Message.ToolCalls {
		cr.ToolCalls = append(cr.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return cr
}

// maxErrorBodySize caps how much of an error response body is read.
const maxErrorBodySize = 4096

// handleErrorResponse maps HTTP error status codes to sentinel errors.
func handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimit, body)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", ErrProviderDown, resp.StatusCode, body)
	default:
		return fmt.Errorf("provider: unexpected status %d: %s", resp.StatusCode, body)
	}
}
