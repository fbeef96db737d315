package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aura-ai/aura/internal/agent"
	"github.com/aura-ai/aura/internal/classify"
	"github.com/aura-ai/aura/internal/extract"
	"github.com/aura-ai/aura/internal/handler"
	"github.com/aura-ai/aura/internal/memory"
	"github.com/aura-ai/aura/internal/orchestrator"
	"github.com/aura-ai/aura/internal/provider"
	"github.com/aura-ai/aura/internal/tool"
)

// fakeProvider returns canned completions keyed by a substring of the prompt.
type fakeProvider struct {
	replies       map[string]string
	fallbackReply string
	err           error
	calls         []string
}

func (f *fakeProvider) Complete(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	prompt := req.Messages[len(req.Messages)-1].Content
	f.calls = append(f.calls, prompt)
	if f.err != nil {
		return provider.CompletionResponse{}, f.err
	}
	for sub, reply := range f.replies {
		if strings.Contains(prompt, sub) {
			return provider.CompletionResponse{Content: reply}, nil
		}
	}
	reply := f.fallbackReply
	if reply == "" {
		reply = "ok"
	}
	return provider.CompletionResponse{Content: reply}, nil
}

func (f *fakeProvider) ModelName() string { return "fake" }

// fakeExtractor returns fixed extraction results.
type fakeExtractor struct {
	pref      extract.Preference
	prefFound bool

	category   string
	key        string
	keyOK      bool
	inferCalls int
}

func (f *fakeExtractor) ExtractPreference(_ context.Context, _ string) (extract.Preference, bool) {
	return f.pref, f.prefFound
}

func (f *fakeExtractor) InferMemoryKey(_ context.Context, _ string) (string, string, bool) {
	f.inferCalls++
	return f.category, f.key, f.keyOK
}

// fakeRetrieval returns a fixed passage.
type fakeRetrieval struct {
	passage string
	found   bool
	err     error
	calls   int
}

func (f *fakeRetrieval) Retrieve(_ context.Context, _ string) (string, bool, error) {
	f.calls++
	return f.passage, f.found, f.err
}

// fakeAgent returns a fixed agent response.
type fakeAgent struct {
	resp  agent.Response
	err   error
	calls int
}

func (f *fakeAgent) Run(_ context.Context, _ agent.Request) (agent.Response, error) {
	f.calls++
	return f.resp, f.err
}

type fixture struct {
	provider  *fakeProvider
	extractor *fakeExtractor
	retrieval *fakeRetrieval
	agent     *fakeAgent
	store     memory.Store
	orch      *orchestrator.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := memory.OpenJSONStore(filepath.Join(t.TempDir(), "memory.json"))
	if err != nil {
		t.Fatalf("OpenJSONStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		provider:  &fakeProvider{replies: map[string]string{}},
		extractor: &fakeExtractor{},
		retrieval: &fakeRetrieval{},
		agent:     &fakeAgent{resp: agent.Response{Content: "agent answer"}},
		store:     store,
	}
	f.orch = orchestrator.New(
		classify.New(classify.Keywords{}),
		f.extractor,
		store,
		f.retrieval,
		f.agent,
		handler.NewRegistry(nil, handler.NewInvestmentHandler(f.provider)),
		f.provider,
		orchestrator.Config{},
		nil,
	)
	return f
}

func TestProcessQuery_PreferenceRoundTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.extractor.pref = extract.Preference{Category: "preference", Key: "color", Value: "红色"}
	f.extractor.prefFound = true
	f.provider.replies["用户表达了偏好"] = "好的，我记住了你喜欢红色。"
	f.provider.replies["用户询问了自己的偏好"] = "你喜欢的颜色是红色。"

	got := f.orch.ProcessQuery(context.Background(), "请记住我喜欢红色")
	if got != "好的，我记住了你喜欢红色。" {
		t.Fatalf("statement response = %q", got)
	}

	fact, err := f.store.GetFact("preference", "color")
	if err != nil {
		t.Fatalf("GetFact() error = %v", err)
	}
	if fact.Value != "红色" {
		t.Errorf("stored value = %q, want 红色", fact.Value)
	}

	got = f.orch.ProcessQuery(context.Background(), "我喜欢什么颜色")
	if got != "你喜欢的颜色是红色。" {
		t.Errorf("question response = %q", got)
	}

	// Both exchanges must be in the conversation log exactly once each.
	convos, err := f.store.RecentConversations(10)
	if err != nil {
		t.Fatalf("RecentConversations() error = %v", err)
	}
	if len(convos) != 2 {
		t.Errorf("len(conversations) = %d, want 2", len(convos))
	}
}

func TestProcessQuery_PreferenceQuestionNoFactFallsThrough(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	got := f.orch.ProcessQuery(context.Background(), "我喜欢什么颜色")

	// Nothing is stored, so the question step yields and the agent answers.
	if got != "agent answer" {
		t.Errorf("response = %q, want the default agent answer", got)
	}
	if f.agent.calls != 1 {
		t.Errorf("agent calls = %d, want 1", f.agent.calls)
	}
}

func TestProcessQuery_RealtimeWinsOverKnowledge(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.agent.resp = agent.Response{Content: "weather is sunny"}
	f.retrieval.passage = "algorithm background"
	f.retrieval.found = true

	// Carries both realtime (天气) and knowledge (算法) keywords; the
	// realtime step runs first and the knowledge base is never consulted.
	got := f.orch.ProcessQuery(context.Background(), "今天的算法新闻天气")
	if got != "weather is sunny" {
		t.Errorf("response = %q", got)
	}
	if f.retrieval.calls != 0 {
		t.Errorf("retrieval calls = %d, want 0", f.retrieval.calls)
	}
}

func TestProcessQuery_RealtimeAgentFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.agent.err = errors.New("search down")

	got := f.orch.ProcessQuery(context.Background(), "今天天气怎么样")
	if !strings.Contains(got, "❌") || !strings.Contains(got, "search down") {
		t.Errorf("response = %q, want apologetic message", got)
	}
}

func TestProcessQuery_KnowledgeRelevant(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.retrieval.passage = "OAM 是一种开放应用模型"
	f.retrieval.found = true
	f.provider.replies["请判断知识库的返回结果"] = "相关"
	f.provider.replies["根据知识库搜索到的信息"] = "OAM 是开放应用模型。"

	got := f.orch.ProcessQuery(context.Background(), "oam是什么")
	if got != "OAM 是开放应用模型。" {
		t.Errorf("response = %q", got)
	}
	if f.agent.calls != 0 {
		t.Errorf("agent calls = %d, want 0", f.agent.calls)
	}
}

func TestProcessQuery_KnowledgeIrrelevantFallsThrough(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.retrieval.passage = "something unrelated"
	f.retrieval.found = true
	f.provider.replies["请判断知识库的返回结果"] = "不相关"

	got := f.orch.ProcessQuery(context.Background(), "oam是什么")
	if got != "agent answer" {
		t.Errorf("response = %q, want fallthrough to agent", got)
	}
	if f.agent.calls != 1 {
		t.Errorf("agent calls = %d, want 1", f.agent.calls)
	}
}

func TestProcessQuery_PersonalMemoryHit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.store.AddFact("user", "论文进度", "第三章完成"); err != nil {
		t.Fatal(err)
	}
	f.extractor.category = "user"
	f.extractor.key = "论文进度"
	f.extractor.keyOK = true
	f.provider.replies["根据记忆"] = "你的论文已经完成到第三章。"

	got := f.orch.ProcessQuery(context.Background(), "我的论文进度如何")
	if got != "你的论文已经完成到第三章。" {
		t.Errorf("response = %q", got)
	}
	if f.agent.calls != 0 {
		t.Errorf("agent calls = %d, want 0", f.agent.calls)
	}
}

func TestProcessQuery_PersonalMemorySkippedWithoutTag(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.store.AddFact("user", "论文进度", "第三章完成"); err != nil {
		t.Fatal(err)
	}
	f.extractor.category = "user"
	f.extractor.key = "论文进度"
	f.extractor.keyOK = true

	// No personal-memory keyword, so inference never runs and the query
	// goes to the default step.
	got := f.orch.ProcessQuery(context.Background(), "随便聊聊")
	if got != "agent answer" {
		t.Errorf("response = %q, want the default agent answer", got)
	}
	if f.extractor.inferCalls != 0 {
		t.Errorf("inference calls = %d, want 0", f.extractor.inferCalls)
	}
}

func TestProcessQuery_DefaultUsesSpecializedHandler(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.agent.resp = agent.Response{
		Content: "raw agent output",
		ToolCalls: []agent.ToolCallRecord{
			{Name: "websearch", Output: tool.Output{Content: "Search results:\n\n1. 指数上涨"}},
		},
	}
	f.provider.replies["投资策略建议"] = "保持分散配置。"

	// No realtime or knowledge keyword, so the query reaches the default
	// step; the investment handler then rewrites the agent result.
	got := f.orch.ProcessQuery(context.Background(), "帮我看看投资理财的建议")
	if got != "保持分散配置。" {
		t.Errorf("response = %q, want handler output", got)
	}
}

// failingLogStore wraps a Store and fails every conversation write.
type failingLogStore struct {
	memory.Store
	err error
}

func (s *failingLogStore) AddConversation(string, string) (memory.Conversation, error) {
	return memory.Conversation{}, s.err
}

func TestProcessQuery_ConversationPersistFailureSurfaces(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	orch := orchestrator.New(
		classify.New(classify.Keywords{}),
		f.extractor,
		&failingLogStore{Store: f.store, err: errors.New("disk full")},
		f.retrieval,
		f.agent,
		handler.NewRegistry(nil),
		f.provider,
		orchestrator.Config{},
		nil,
	)

	got := orch.ProcessQuery(context.Background(), "你好")
	if !strings.Contains(got, "处理您的问题时出错") || !strings.Contains(got, "disk full") {
		t.Errorf("response = %q, want the persistence failure surfaced", got)
	}
}

func TestRememberAndRecall(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	if got := f.orch.Remember("user/研究方向/分布式系统"); !strings.Contains(got, "已记住") {
		t.Errorf("Remember() = %q", got)
	}
	if got := f.orch.Recall("user/研究方向"); !strings.Contains(got, "分布式系统") {
		t.Errorf("Recall() = %q", got)
	}
	if got := f.orch.Recall("user/不存在"); !strings.Contains(got, "没有找到相关记忆") {
		t.Errorf("Recall(missing) = %q", got)
	}
	if got := f.orch.Remember("bad-format"); !strings.Contains(got, "格式错误") {
		t.Errorf("Remember(malformed) = %q", got)
	}
	if got := f.orch.Recall("a/b/c"); !strings.Contains(got, "格式错误") {
		t.Errorf("Recall(malformed) = %q", got)
	}
}
