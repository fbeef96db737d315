package handler_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aura-ai/aura/internal/agent"
	"github.com/aura-ai/aura/internal/handler"
	"github.com/aura-ai/aura/internal/provider"
	"github.com/aura-ai/aura/internal/tool"
)

// echoProvider returns its prompt back, so tests can assert on what the
// handler asked the model.
type echoProvider struct {
	calls int
}

func (e *echoProvider) Complete(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	e.calls++
	return provider.CompletionResponse{Content: req.Messages[len(req.Messages)-1].Content}, nil
}

func (e *echoProvider) ModelName() string { return "echo" }

func traceWithSearch(results string) agent.Response {
	return agent.Response{ToolCalls: []agent.ToolCallRecord{
		{Name: "websearch", Output: tool.Output{Content: results}},
	}}
}

func TestInvestmentHandler_CanHandle(t *testing.T) {
	t.Parallel()

	h := handler.NewInvestmentHandler(&echoProvider{})

	tests := []struct {
		query string
		want  bool
	}{
		{"给我今天的股市资讯", true},
		{"帮我分析一下基金走势", true},
		{"股票怎么开户", false},
		{"分析一下这篇文章", false},
		{"what is your stock market advice today", true},
	}
	for _, tt := range tests {
		if got := h.CanHandle(tt.query); got != tt.want {
			t.Errorf("CanHandle(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestInvestmentHandler_UsesSearchResultsFromTrace(t *testing.T) {
	t.Parallel()

	p := &echoProvider{}
	h := handler.NewInvestmentHandler(p)

	got, err := h.Handle(context.Background(), handler.Request{
		Query: "给我今天的股市资讯",
		Agent: traceWithSearch("Search results:\n\n1. 上证指数上涨"),
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(got, "上证指数上涨") {
		t.Errorf("prompt did not include trace search results: %q", got)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (search must be reused, not repeated)", p.calls)
	}
}

func TestInvestmentHandler_NoSearchResults(t *testing.T) {
	t.Parallel()

	p := &echoProvider{}
	h := handler.NewInvestmentHandler(p)

	got, err := h.Handle(context.Background(), handler.Request{Query: "给我今天的股市资讯"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(got, "很抱歉") {
		t.Errorf("Handle() = %q, want apology without market data", got)
	}
	if p.calls != 0 {
		t.Errorf("provider calls = %d, want 0", p.calls)
	}
}

func TestTechnicalHandler_CanHandle(t *testing.T) {
	t.Parallel()

	h := handler.NewTechnicalHandler(&echoProvider{})

	tests := []struct {
		query string
		want  bool
	}{
		{"帮我写一个排序算法的代码", true},
		{"设计一个用户管理的API", true},
		{"代码是什么", false},
		{"帮我创建一个日程", false},
	}
	for _, tt := range tests {
		if got := h.CanHandle(tt.query); got != tt.want {
			t.Errorf("CanHandle(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestLongTextHandler_CanHandle(t *testing.T) {
	t.Parallel()

	h := handler.NewLongTextHandler(&echoProvider{})

	if h.CanHandle("总结一下") {
		t.Error("CanHandle accepted a query below the length gate")
	}
	if !h.CanHandle("请帮我总结一下这周人工智能领域的重要新闻") {
		t.Error("CanHandle rejected a long summarization query")
	}
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	t.Parallel()

	p := &echoProvider{}
	reg := handler.NewRegistry(nil,
		handler.NewInvestmentHandler(p),
		handler.NewTechnicalHandler(p),
		handler.NewLongTextHandler(p),
	)

	// Matches both investment (股市+分析) and longtext (分析 + long query);
	// registration order decides.
	h := reg.Select("请帮我分析一下最近一周的股市行情变化")
	if h == nil || h.Name() != "investment" {
		t.Fatalf("Select() = %v, want investment", h)
	}

	if got := reg.Select("今天晚饭吃什么"); got != nil {
		t.Errorf("Select(generic) = %v, want nil", got)
	}
}
