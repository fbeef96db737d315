package agent

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aura-ai/aura/internal/provider"
	"github.com/aura-ai/aura/internal/tool"
)

// Sentinel errors for agent loop termination.
var (
	ErrMaxIterationsReached = errors.New("agent: max iterations reached")
	ErrLoopDetected         = errors.New("agent: loop detected")
)

// Loop implements the reason-act loop: the model is called with the tool
// definitions, requested tools are executed, and their results are fed
// back until the model answers without calling a tool.
type Loop struct {
	provider provider.Provider
	registry *tool.Registry
	executor *ToolExecutor
	config   LoopConfig
	logger   *slog.Logger
}

// NewLoop creates a Loop with the given provider, tool registry, and config.
func NewLoop(p provider.Provider, registry *tool.Registry, cfg LoopConfig, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		provider: p,
		registry: registry,
		executor: NewToolExecutor(registry),
		config:   cfg.withDefaults(),
		logger:   logger.With("component", "agent"),
	}
}

// buildInitialMessages assembles the initial message history from the request.
func buildInitialMessages(req Request) []provider.LLMMessage {
	var messages []provider.LLMMessage
	if req.SystemPrompt != "" {
		messages = append(messages, provider.LLMMessage{
			Role:    provider.MessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, req.History...)
	return append(messages, provider.LLMMessage{
		Role:    provider.MessageRoleUser,
		Content: req.Query,
	})
}

// appendToolResults adds tool execution results to the conversation history.
func appendToolResults(messages []provider.LLMMessage, records []ToolCallRecord) []provider.LLMMessage {
	for _, rec := range records {
		messages = append(messages, provider.LLMMessage{
			Role:    provider.MessageRoleTool,
			Content: rec.Output.Content,
			ToolID:  rec.ID,
		})
	}
	return messages
}

// Run executes the reason-act loop synchronously and returns the final response.
//
// A context.WithTimeout is applied using l.config.Timeout. If the caller's
// context already carries a shorter deadline, the shorter one takes effect.
func (l *Loop) Run(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	detector := newLoopDetector(l.config.LoopThreshold)
	messages := buildInitialMessages(req)
	tools := l.registry.Definitions()

	var allToolCalls []ToolCallRecord
	var totalUsage provider.TokenUsage

	for i := 0; i < l.config.MaxIterations; i++ {
		// Check context cancellation (timeout or external cancel).
		if err := ctx.Err(); err != nil {
			stopReason := StopReasonError
			if errors.Is(err, context.DeadlineExceeded) {
				stopReason = StopReasonTimeout
			}
			return Response{
				ToolCalls:  allToolCalls,
				TotalUsage: totalUsage,
				Iterations: i,
				StopReason: stopReason,
			}, err
		}

		resp, err := l.provider.Complete(ctx, provider.CompletionRequest{
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return Response{
				ToolCalls:  allToolCalls,
				TotalUsage: totalUsage,
				Iterations: i,
				StopReason: StopReasonError,
			}, err
		}

		totalUsage.PromptTokens += resp.Usage.PromptTokens
		totalUsage.CompletionTokens += resp.Usage.CompletionTokens
		totalUsage.TotalTokens += resp.Usage.TotalTokens

		// No tool calls means the model is done reasoning.
		if len(resp.ToolCalls) == 0 {
			return Response{
				Content:    resp.Content,
				ToolCalls:  allToolCalls,
				TotalUsage: totalUsage,
				Iterations: i + 1,
				StopReason: StopReasonComplete,
			}, nil
		}

		// Check for loops before appending the assistant message to avoid
		// leaving an orphan assistant message without tool results.
		for _, tc := range resp.ToolCalls {
			if detector.record(tc.Name, tc.Arguments) {
				return Response{
					ToolCalls:  allToolCalls,
					TotalUsage: totalUsage,
					Iterations: i + 1,
					StopReason: StopReasonLoopDetected,
				}, ErrLoopDetected
			}
		}

		// The replayed assistant message must declare the calls that the
		// following tool results answer.
		messages = append(messages, provider.LLMMessage{
			Role:      provider.MessageRoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		records := l.executor.Execute(ctx, resp.ToolCalls)
		allToolCalls = append(allToolCalls, records...)

		for _, rec := range records {
			l.logger.Debug("tool executed",
				"tool", rec.Name,
				"duration", rec.Duration,
				"is_error", rec.Output.IsError)
		}

		messages = appendToolResults(messages, records)
	}

	return Response{
		ToolCalls:  allToolCalls,
		TotalUsage: totalUsage,
		Iterations: l.config.MaxIterations,
		StopReason: StopReasonMaxIterations,
	}, ErrMaxIterationsReached
}
