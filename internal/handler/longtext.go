package handler

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aura-ai/aura/internal/provider"
)

// minLongTextQueryLen filters out short queries like "总结一下" that carry
// a generation keyword but no material to work with. Measured in runes so
// Chinese and English queries are treated alike.
const minLongTextQueryLen = 15

var generationPattern = regexp.MustCompile(`摘要|总结|概述|分析|报告|文章|写一篇|生成|写作|summary|summarize|report|article|essay`)

// LongTextHandler produces summaries, reports, and other long-form writing.
type LongTextHandler struct {
	provider provider.Provider
}

var _ Handler = (*LongTextHandler)(nil)

// NewLongTextHandler creates the long-form text handler.
func NewLongTextHandler(p provider.Provider) *LongTextHandler {
	return &LongTextHandler{provider: p}
}

// Name implements Handler.
func (h *LongTextHandler) Name() string { return "longtext" }

// CanHandle implements Handler.
func (h *LongTextHandler) CanHandle(query string) bool {
	return generationPattern.MatchString(strings.ToLower(query)) &&
		utf8.RuneCountInString(query) > minLongTextQueryLen
}

// Handle implements Handler.
func (h *LongTextHandler) Handle(ctx context.Context, req Request) (string, error) {
	searchResults := req.Agent.LastToolOutput("websearch")

	var prompt string
	switch {
	case strings.Contains(req.Query, "摘要") || strings.Contains(req.Query, "总结"):
		prompt = summarizationPrompt(req.Query, searchResults)
	case strings.Contains(req.Query, "报告"):
		prompt = reportPrompt(req.Query, searchResults)
	case strings.Contains(req.Query, "分析"):
		prompt = analysisPrompt(req.Query, searchResults)
	default:
		prompt = generalWritingPrompt(req.Query, searchResults)
	}

	response, err := provider.CompleteText(ctx, h.provider, prompt)
	if err != nil {
		return "", fmt.Errorf("handler: longtext response: %w", err)
	}
	return response, nil
}

func summarizationPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s
%s
请生成一份摘要。要求：

1. 抓住核心要点，省略次要细节
2. 保持原意，不添加新信息
3. 结构清晰，篇幅精炼`, query, withSearchContext(searchResults))
}

func reportPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s
%s
请撰写一份报告。包含：

1. 背景与目标
2. 主要发现或内容
3. 结论与建议

使用客观正式的语言，分节组织内容。`, query, withSearchContext(searchResults))
}

func analysisPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s
%s
请提供一份分析。要求：

1. 先陈述事实，再给出解读
2. 区分确定的结论与推测
3. 指出信息不足之处`, query, withSearchContext(searchResults))
}

func generalWritingPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s
%s
请完成这一写作任务。文风自然，结构清晰，
长度与任务要求匹配。`, query, withSearchContext(searchResults))
}
