package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aura-ai/aura/internal/provider"
)

func completionBody(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{"prompt_tokens": 3, "completion_tokens": 5, "total_tokens": 8},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestOllamaClient_Complete(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(completionBody("你好！")))
	}))
	defer srv.Close()

	client := provider.NewOllamaClient(provider.OllamaConfig{
		BaseURL:      srv.URL + "/v1",
		Model:        "qwen3:4b",
		SystemPrompt: "You are Aura.",
	})

	got, err := provider.CompleteText(context.Background(), client, "你好")
	if err != nil {
		t.Fatalf("CompleteText: %v", err)
	}
	if got != "你好！" {
		t.Errorf("CompleteText = %q", got)
	}

	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("request messages = %v, want system + user", gotBody["messages"])
	}
	first := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("first message role = %v, want system prompt injected", first["role"])
	}
}

func TestOllamaClient_SerializesAssistantToolCalls(t *testing.T) {
	t.Parallel()

	var gotBody struct {
		Messages []struct {
			Role       string `json:"role"`
			ToolCallID string `json:"tool_call_id"`
			ToolCalls  []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(completionBody("已完成")))
	}))
	defer srv.Close()

	client := provider.NewOllamaClient(provider.OllamaConfig{BaseURL: srv.URL + "/v1", Model: "qwen3:4b"})
	_, err := client.Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.LLMMessage{
			{Role: provider.MessageRoleUser, Content: "今天天气"},
			{
				Role: provider.MessageRoleAssistant,
				ToolCalls: []provider.ToolCall{
					{ID: "call_1", Name: "websearch", Arguments: json.RawMessage(`{"query":"天气"}`)},
				},
			},
			{Role: provider.MessageRoleTool, Content: "晴", ToolID: "call_1"},
		},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if len(gotBody.Messages) != 3 {
		t.Fatalf("request messages = %d, want 3", len(gotBody.Messages))
	}
	assistant := gotBody.Messages[1]
	if assistant.Role != "assistant" || len(assistant.ToolCalls) != 1 {
		t.Fatalf("assistant message = %+v, want one declared tool call", assistant)
	}
	tc := assistant.ToolCalls[0]
	if tc.ID != "call_1" || tc.Type != "function" || tc.Function.Name != "websearch" {
		t.Errorf("tool call = %+v, want call_1 function websearch", tc)
	}
	if tc.Function.Arguments != `{"query":"天气"}` {
		t.Errorf("arguments = %q", tc.Function.Arguments)
	}
	if toolMsg := gotBody.Messages[2]; toolMsg.ToolCallID != "call_1" {
		t.Errorf("tool result tool_call_id = %q, want call_1", toolMsg.ToolCallID)
	}
}

func TestOllamaClient_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := provider.NewOllamaClient(provider.OllamaConfig{BaseURL: srv.URL, Model: "m"})
	_, err := client.Complete(context.Background(), provider.CompletionRequest{})
	if !errors.Is(err, provider.ErrProviderDown) {
		t.Errorf("500 response: got %v, want ErrProviderDown", err)
	}
}

func TestOllamaClient_RateLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := provider.NewOllamaClient(provider.OllamaConfig{BaseURL: srv.URL, Model: "m"})
	_, err := client.Complete(context.Background(), provider.CompletionRequest{})
	if !errors.Is(err, provider.ErrRateLimit) {
		t.Errorf("429 response: got %v, want ErrRateLimit", err)
	}
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := provider.NewBreaker(
		provider.NewOllamaClient(provider.OllamaConfig{BaseURL: srv.URL, Model: "m"}),
		provider.BreakerConfig{MaxFailures: 2},
	)

	ctx := context.Background()
	for range 2 {
		if _, err := client.Complete(ctx, provider.CompletionRequest{}); err == nil {
			t.Fatal("expected failure")
		}
	}

	// Circuit is now open: the next call must fail fast without an HTTP hit.
	before := calls
	_, err := client.Complete(ctx, provider.CompletionRequest{})
	if !errors.Is(err, provider.ErrProviderDown) {
		t.Errorf("open circuit: got %v, want ErrProviderDown", err)
	}
	if calls != before {
		t.Errorf("open circuit still issued an HTTP request")
	}
}

func TestOllamaConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := provider.OllamaConfig{BaseURL: "ftp://nope", Model: "m"}
	cfg.Defaults()
	if err := cfg.Validate(); err == nil {
		t.Error("ftp scheme: want validation error")
	}
}
