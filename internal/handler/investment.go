package handler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aura-ai/aura/internal/provider"
)

// Both patterns must match: a finance term alone ("股票怎么买") is not
// enough, the query must also ask for advice or analysis.
var (
	investmentPattern = regexp.MustCompile(`股市|投资|基金|股票|证券|金融市场|理财|债券|stock|invest|fund|market`)
	analysisPattern   = regexp.MustCompile(`建议|分析|资讯|行情|走势|预测|策略|报告|advice|analysis|news|trend|forecast|strategy`)
)

// InvestmentHandler answers finance and market queries by rewriting web
// search output with a purpose-built prompt.
type InvestmentHandler struct {
	provider provider.Provider
}

var _ Handler = (*InvestmentHandler)(nil)

// NewInvestmentHandler creates the investment handler.
func NewInvestmentHandler(p provider.Provider) *InvestmentHandler {
	return &InvestmentHandler{provider: p}
}

// Name implements Handler.
func (h *InvestmentHandler) Name() string { return "investment" }

// CanHandle implements Handler.
func (h *InvestmentHandler) CanHandle(query string) bool {
	lower := strings.ToLower(query)
	return investmentPattern.MatchString(lower) && analysisPattern.MatchString(lower)
}

// Handle implements Handler.
func (h *InvestmentHandler) Handle(ctx context.Context, req Request) (string, error) {
	searchResults := req.Agent.LastToolOutput("websearch")
	if searchResults == "" {
		return "很抱歉，我无法获取相关的市场信息。请尝试更具体的查询，或稍后再试。", nil
	}

	var prompt string
	switch {
	case strings.Contains(req.Query, "资讯") || strings.Contains(strings.ToLower(req.Query), "news"):
		prompt = marketNewsPrompt(req.Query, searchResults)
	case strings.Contains(req.Query, "建议") || strings.Contains(req.Query, "策略"):
		prompt = investmentAdvicePrompt(req.Query, searchResults)
	case strings.Contains(req.Query, "分析"):
		prompt = marketAnalysisPrompt(req.Query, searchResults)
	default:
		prompt = generalFinancePrompt(req.Query, searchResults)
	}

	response, err := provider.CompleteText(ctx, h.provider, prompt)
	if err != nil {
		return "", fmt.Errorf("handler: investment response: %w", err)
	}
	return response, nil
}

func marketNewsPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s

搜索结果:
%s

请基于以上搜索结果，提供今日市场资讯概述。请涵盖以下内容:

1. 主要指数表现与重要涨跌数据
2. 热门板块与个股动向
3. 关键市场新闻与事件
4. 可能的市场走势分析

请使用客观、专业的语言，避免过度预测。回复应简洁清晰，便于快速理解。`, query, searchResults)
}

func investmentAdvicePrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s

搜索结果:
%s

请基于以上搜索结果，为用户提供一份简洁清晰的投资策略建议。包括以下几个方面：

1. 主要行业板块机会与风险
2. 短期与长期投资策略区分
3. 风险管理建议
4. 需要关注的具体指标或新闻

不做绝对的买卖建议，并在最后注明投资有风险，本建议仅供参考。`, query, searchResults)
}

func marketAnalysisPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s

搜索结果:
%s

请基于以上搜索结果，提供一份市场分析。请包含：

1. 市场环境总体评估
2. 主要指数技术面分析
3. 影响市场的宏观因素
4. 行业轮动或资金流向分析

分析应该客观且基于事实，避免过度主观判断。`, query, searchResults)
}

func generalFinancePrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s

搜索结果:
%s

请基于以上搜索结果，回答用户的金融相关问题。使用清晰易懂的语言，
如搜索结果不足以完全回答问题，请明确指出并提供基于可用信息的最佳回答。`, query, searchResults)
}
