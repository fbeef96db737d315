package handler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aura-ai/aura/internal/provider"
)

var (
	techPattern   = regexp.MustCompile(`代码|编程|程序|开发|api|函数|类|对象|接口|技术文档|算法|code|program|function|interface|algorithm`)
	actionPattern = regexp.MustCompile(`生成|编写|实现|创建|写一个|开发|设计|generate|write|implement|create|design`)
)

// TechnicalHandler answers code and technical documentation requests.
type TechnicalHandler struct {
	provider provider.Provider
}

var _ Handler = (*TechnicalHandler)(nil)

// NewTechnicalHandler creates the technical handler.
func NewTechnicalHandler(p provider.Provider) *TechnicalHandler {
	return &TechnicalHandler{provider: p}
}

// Name implements Handler.
func (h *TechnicalHandler) Name() string { return "technical" }

// CanHandle implements Handler.
func (h *TechnicalHandler) CanHandle(query string) bool {
	lower := strings.ToLower(query)
	return techPattern.MatchString(lower) && actionPattern.MatchString(lower)
}

// Handle implements Handler.
func (h *TechnicalHandler) Handle(ctx context.Context, req Request) (string, error) {
	searchResults := req.Agent.LastToolOutput("websearch")

	var prompt string
	switch {
	case strings.Contains(req.Query, "代码") || strings.Contains(req.Query, "程序") || strings.Contains(req.Query, "函数"):
		prompt = codeGenerationPrompt(req.Query, searchResults)
	case strings.Contains(strings.ToLower(req.Query), "api") || strings.Contains(req.Query, "接口"):
		prompt = apiDocPrompt(req.Query, searchResults)
	case strings.Contains(req.Query, "算法"):
		prompt = algorithmPrompt(req.Query, searchResults)
	default:
		prompt = generalTechPrompt(req.Query, searchResults)
	}

	response, err := provider.CompleteText(ctx, h.provider, prompt)
	if err != nil {
		return "", fmt.Errorf("handler: technical response: %w", err)
	}
	return response, nil
}

func withSearchContext(searchResults string) string {
	if searchResults == "" {
		return ""
	}
	return fmt.Sprintf("\n参考资料:\n%s\n", searchResults)
}

func codeGenerationPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s
%s
请生成满足需求的代码。要求：

1. 代码完整可运行，附必要的注释
2. 说明关键设计决策
3. 指出可能的边界情况

代码放在围栏代码块中，说明放在代码块之外。`, query, withSearchContext(searchResults))
}

func apiDocPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s
%s
请编写清晰的接口说明。包含：

1. 接口用途与调用方式
2. 参数与返回值说明
3. 一个简短的使用示例`, query, withSearchContext(searchResults))
}

func algorithmPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s
%s
请讲解相关算法。包含：

1. 算法思路与适用场景
2. 时间与空间复杂度
3. 一个简洁的参考实现`, query, withSearchContext(searchResults))
}

func generalTechPrompt(query, searchResults string) string {
	return fmt.Sprintf(`用户查询: %s
%s
请回答这个技术问题。使用清晰的结构和简洁的语言，
必要时给出示例，避免不确定的断言。`, query, withSearchContext(searchResults))
}
