// Package orchestrator routes a user query through a fixed precedence of
// processing steps: preference capture, preference recall, realtime search,
// knowledge lookup, personal memory inference, and finally the agent loop
// with optional specialized handlers. The first step that produces an
// answer wins; later steps never run.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aura-ai/aura/internal/agent"
	"github.com/aura-ai/aura/internal/classify"
	"github.com/aura-ai/aura/internal/extract"
	"github.com/aura-ai/aura/internal/handler"
	"github.com/aura-ai/aura/internal/memory"
	"github.com/aura-ai/aura/internal/provider"
	"github.com/aura-ai/aura/internal/retrieval"
)

// Classifier tags a query with intents.
type Classifier interface {
	Classify(query string) classify.IntentSet
}

// Extractor pulls structured memory information out of free-form queries.
type Extractor interface {
	ExtractPreference(ctx context.Context, query string) (extract.Preference, bool)
	InferMemoryKey(ctx context.Context, query string) (category, key string, ok bool)
}

// AgentRunner executes the reason-act loop.
type AgentRunner interface {
	Run(ctx context.Context, req agent.Request) (agent.Response, error)
}

// Config carries the orchestrator's tunables.
type Config struct {
	// SystemPrompt is passed to the agent loop on the default path.
	SystemPrompt string `yaml:"system_prompt"`
}

// Orchestrator is the top-level query processor.
type Orchestrator struct {
	classifier Classifier
	extractor  Extractor
	store      memory.Store
	knowledge  retrieval.Client
	agent      AgentRunner
	handlers   *handler.Registry
	provider   provider.Provider
	config     Config
	logger     *slog.Logger
}

// New wires an orchestrator from its collaborators.
func New(
	classifier Classifier,
	extractor Extractor,
	store memory.Store,
	knowledge retrieval.Client,
	agentRunner AgentRunner,
	handlers *handler.Registry,
	p provider.Provider,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		classifier: classifier,
		extractor:  extractor,
		store:      store,
		knowledge:  knowledge,
		agent:      agentRunner,
		handlers:   handlers,
		provider:   p,
		config:     cfg,
		logger:     logger.With("component", "orchestrator"),
	}
}

// ProcessQuery runs a query through the precedence pipeline and returns the
// response. Internal failures never surface as errors: the user gets an
// apologetic message and the details go to the log.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "请输入想要处理的内容。"
	}

	intents := o.classifier.Classify(query)
	o.logger.Info("query classified", "intents", intentNames(intents))

	// 1. Preference statement: extract and store, then confirm.
	if intents.Has(classify.IntentPreferenceStatement) {
		if response, ok := o.handlePreferenceStatement(ctx, query); ok {
			return o.finish(query, response)
		}
	}

	// 2. Preference question: answer from stored facts.
	if intents.Has(classify.IntentPreferenceQuestion) {
		if response, ok := o.handlePreferenceQuestion(ctx, query); ok {
			return o.finish(query, response)
		}
	}

	// 3. Realtime: the agent searches the web; no fallthrough on failure.
	if intents.Has(classify.IntentRealtime) {
		return o.finish(query, o.handleRealtime(ctx, query))
	}

	// 4. Knowledge: consult the knowledge base, fall through when the
	// result is missing or judged irrelevant.
	if intents.Has(classify.IntentKnowledge) {
		if response, ok := o.handleKnowledge(ctx, query); ok {
			return o.finish(query, response)
		}
	}

	// 5. Personal memory: infer a stored key and answer from it.
	if intents.Has(classify.IntentPersonalMemory) {
		if response, ok := o.handlePersonalMemory(ctx, query); ok {
			return o.finish(query, response)
		}
	}

	// 6. Default: agent loop, then an optional specialized handler.
	return o.finish(query, o.handleDefault(ctx, query))
}

func (o *Orchestrator) handlePreferenceStatement(ctx context.Context, query string) (string, bool) {
	pref, found := o.extractor.ExtractPreference(ctx, query)
	if !found {
		return "", false
	}

	if err := o.store.AddFact(pref.Category, pref.Key, pref.Value); err != nil {
		o.logger.Error("store preference failed", "error", err)
		return o.apology(err), true
	}
	o.logger.Info("preference stored", "category", pref.Category, "key", pref.Key)

	prompt := fmt.Sprintf(`用户表达了偏好: "%s"

我已经记录了这个偏好（%s是%s）。请给出一个友好专业的回复，
简洁清晰地确认记录了这个偏好，避免戏剧化表述。`, query, pref.Key, pref.Value)

	response, err := provider.CompleteText(ctx, o.provider, prompt)
	if err != nil {
		// The fact is already stored; fall back to a plain confirmation.
		o.logger.Warn("preference confirmation failed", "error", err)
		return fmt.Sprintf("已记住你%s是%s", pref.Key, pref.Value), true
	}
	return response, true
}

func (o *Orchestrator) handlePreferenceQuestion(ctx context.Context, query string) (string, bool) {
	recalled := o.recallPreferences(query)
	if recalled == "" {
		return "", false
	}

	prompt := fmt.Sprintf(`用户询问了自己的偏好: "%s"

根据我的记录，%s。

请友好专业地直接回答用户的问题，不要编造额外信息。`, query, recalled)

	response, err := provider.CompleteText(ctx, o.provider, prompt)
	if err != nil {
		o.logger.Warn("preference answer failed", "error", err)
		return recalled, true
	}
	return response, true
}

// recallPreferences looks up stored preferences for the query. Hinted keys
// are tried in order; without a hint all stored preferences are reported.
func (o *Orchestrator) recallPreferences(query string) string {
	keys := classify.PreferenceKeys(query)

	if len(keys) == 0 {
		facts, err := o.store.FactsByCategory("preference")
		if err != nil || len(facts) == 0 {
			return ""
		}
		parts := make([]string, 0, len(facts))
		for _, f := range facts {
			parts = append(parts, fmt.Sprintf("你%s是%s", f.Key, f.Value))
		}
		return strings.Join(parts, "；")
	}

	for _, key := range keys {
		fact, err := o.store.GetFact("preference", key)
		if err == nil {
			return fmt.Sprintf("你%s是%s", fact.Key, fact.Value)
		}
		if !errors.Is(err, memory.ErrFactNotFound) {
			o.logger.Error("preference lookup failed", "key", key, "error", err)
		}
	}
	return ""
}

func (o *Orchestrator) handleRealtime(ctx context.Context, query string) string {
	resp, err := o.agent.Run(ctx, agent.Request{
		Query:        query,
		SystemPrompt: o.config.SystemPrompt,
	})
	if err != nil {
		o.logger.Error("realtime agent run failed", "error", err)
		return o.apology(err)
	}
	return resp.Content
}

func (o *Orchestrator) handleKnowledge(ctx context.Context, query string) (string, bool) {
	passage, found, err := o.knowledge.Retrieve(ctx, query)
	if err != nil {
		o.logger.Error("knowledge retrieval failed", "error", err)
		return "", false
	}
	if !found {
		return "", false
	}

	if !o.isRelevant(ctx, query, passage) {
		o.logger.Info("knowledge result judged irrelevant")
		return "", false
	}

	prompt := fmt.Sprintf(`用户查询: "%s"

根据知识库搜索到的信息: %s

请客观友好地回答，不要编造额外信息，只回答已知事实。回答要简洁清晰。`, query, passage)

	response, err := provider.CompleteText(ctx, o.provider, prompt)
	if err != nil {
		o.logger.Error("knowledge answer failed", "error", err)
		return "", false
	}
	return response, true
}

// isRelevant asks the model for a binary judgment on whether the retrieved
// passage answers the query. The negative form is checked first so that
// "不相关" is not misread as containing "相关".
func (o *Orchestrator) isRelevant(ctx context.Context, query, passage string) bool {
	prompt := fmt.Sprintf(`用户查询: "%s"
知识库返回: "%s"

请判断知识库的返回结果是否与用户查询相关。
如果相关且有用，回答"相关"。
如果不相关或没有找到有用信息，回答"不相关"。
只回答一个词，不要解释。`, query, passage)

	verdict, err := provider.CompleteText(ctx, o.provider, prompt)
	if err != nil {
		o.logger.Warn("relevance check failed", "error", err)
		return false
	}

	verdict = strings.ToLower(strings.TrimSpace(verdict))
	if strings.Contains(verdict, "不相关") || strings.Contains(verdict, "irrelevant") || strings.Contains(verdict, "not relevant") {
		return false
	}
	return strings.Contains(verdict, "相关") || strings.Contains(verdict, "relevant")
}

func (o *Orchestrator) handlePersonalMemory(ctx context.Context, query string) (string, bool) {
	category, key, ok := o.extractor.InferMemoryKey(ctx, query)
	if !ok {
		return "", false
	}

	fact, err := o.store.GetFact(category, key)
	if err != nil {
		if !errors.Is(err, memory.ErrFactNotFound) {
			o.logger.Error("memory lookup failed", "error", err)
		}
		return "", false
	}

	prompt := fmt.Sprintf(`用户查询: "%s"

根据记忆: %s

请客观友好地回答，不要编造额外信息，只回答已知事实。回答要简洁清晰。`, query, fact.Value)

	response, err := provider.CompleteText(ctx, o.provider, prompt)
	if err != nil {
		o.logger.Error("memory answer failed", "error", err)
		return "", false
	}
	return response, true
}

func (o *Orchestrator) handleDefault(ctx context.Context, query string) string {
	resp, err := o.agent.Run(ctx, agent.Request{
		Query:        query,
		SystemPrompt: o.config.SystemPrompt,
	})
	if err != nil {
		o.logger.Error("agent run failed", "error", err)
		// Last resort: answer without tools.
		fallback, ferr := provider.CompleteText(ctx, o.provider,
			fmt.Sprintf("用户查询: %s\n\n请提供友好有用的回复。", query))
		if ferr != nil {
			return o.apology(err)
		}
		return fallback
	}

	if h := o.handlers.Select(query); h != nil {
		o.logger.Info("specialized handler used", "handler", h.Name())
		response, herr := h.Handle(ctx, handler.Request{Query: query, Agent: resp})
		if herr != nil {
			o.logger.Error("handler failed", "handler", h.Name(), "error", herr)
			return resp.Content
		}
		return response
	}

	return resp.Content
}

// finish records the exchange in the conversation log and returns the
// response. A failed log write is a persistence failure and surfaces as
// the apology instead of the answer.
func (o *Orchestrator) finish(query, response string) string {
	if _, err := o.store.AddConversation(query, response); err != nil {
		o.logger.Error("conversation log failed", "error", err)
		return o.apology(err)
	}
	return response
}

func (o *Orchestrator) apology(err error) string {
	return fmt.Sprintf("❌ 处理您的问题时出错: %v", err)
}

func intentNames(set classify.IntentSet) []string {
	names := make([]string, 0, len(set))
	for _, intent := range []classify.Intent{
		classify.IntentPreferenceStatement,
		classify.IntentPreferenceQuestion,
		classify.IntentRealtime,
		classify.IntentKnowledge,
		classify.IntentPersonalMemory,
		classify.IntentGeneric,
	} {
		if set.Has(intent) {
			names = append(names, string(intent))
		}
	}
	return names
}
