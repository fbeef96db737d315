// Package extract turns free-form user input into structured memory records
// by prompting the language model and parsing its JSON output. Model output
// is untrusted: reasoning markup, prose around the JSON, and malformed
// responses all degrade to "nothing extracted" rather than errors.
package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/aura-ai/aura/internal/provider"
)

// Preference is a single extracted user preference.
type Preference struct {
	Category string
	Key      string
	Value    string
}

// Extractor prompts the model for structured extractions.
type Extractor struct {
	provider provider.Provider
	logger   *slog.Logger
}

// New creates an extractor backed by the given provider.
func New(p provider.Provider, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		provider: p,
		logger:   logger.With("component", "extract"),
	}
}

const preferencePrompt = `Extract preference information from the user input below:
"%s"

If the user expresses a preference (liking a thing, an activity, a color, and so on), return JSON:
{
    "has_preference": true,
    "category": "preference",
    "key": "the kind of thing liked, e.g. color, food, music",
    "value": "what exactly is liked"
}

For example, for "记住我喜欢红色" return:
{
    "has_preference": true,
    "category": "preference",
    "key": "color",
    "value": "红色"
}

If no preference is expressed, return:
{
    "has_preference": false
}

Return only the JSON, with no extra commentary.`

type preferencePayload struct {
	HasPreference bool   `json:"has_preference"`
	Category      string `json:"category"`
	Key           string `json:"key"`
	Value         string `json:"value"`
}

// ExtractPreference asks the model whether the query states a preference and,
// if so, what to store. Extraction failures of any kind return found=false;
// this path must never surface an error to the user.
func (e *Extractor) ExtractPreference(ctx context.Context, query string) (Preference, bool) {
	prompt := strings.Replace(preferencePrompt, "%s", query, 1)

	raw, err := provider.CompleteText(ctx, e.provider, prompt)
	if err != nil {
		e.logger.Warn("preference extraction call failed", "error", err)
		return Preference{}, false
	}

	block, ok := lastJSONBlock(raw)
	if !ok {
		e.logger.Warn("no JSON block in preference extraction output", "output", truncate(raw, 200))
		return Preference{}, false
	}

	var payload preferencePayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		e.logger.Warn("preference extraction JSON invalid", "error", err, "block", truncate(block, 200))
		return Preference{}, false
	}
	if !payload.HasPreference || strings.TrimSpace(payload.Value) == "" {
		return Preference{}, false
	}

	pref := Preference{
		Category: strings.TrimSpace(payload.Category),
		Key:      strings.TrimSpace(payload.Key),
		Value:    strings.TrimSpace(payload.Value),
	}
	if pref.Category == "" {
		pref.Category = "preference"
	}
	if pref.Key == "" {
		pref.Key = "general"
	}
	return pref, true
}

const memoryKeyPrompt = `From the user query below, extract the key most likely to exist in the memory system:
"%s"

Return the single most likely category/key pair, in the form:
category/key

Queries about personal information, preferences, habits, status, or progress may have a stored memory.
Examples:
- "我的论文进度如何" -> user/论文进度
- "我喜欢什么颜色" -> preference/color
- "我的研究方向是什么" -> user/research

Return only one category/key pair and nothing else.`

// InferMemoryKey asks the model which stored fact the query is likely about.
// The answer must parse as exactly category/key with both parts non-empty;
// anything else returns ok=false.
func (e *Extractor) InferMemoryKey(ctx context.Context, query string) (category, key string, ok bool) {
	prompt := strings.Replace(memoryKeyPrompt, "%s", query, 1)

	raw, err := provider.CompleteText(ctx, e.provider, prompt)
	if err != nil {
		e.logger.Warn("memory key inference call failed", "error", err)
		return "", "", false
	}

	candidate := lastKeyLine(raw)
	parts := strings.Split(candidate, "/")
	if len(parts) != 2 {
		return "", "", false
	}
	category = strings.TrimSpace(parts[0])
	key = strings.TrimSpace(parts[1])
	if category == "" || key == "" {
		return "", "", false
	}
	return category, key, true
}

// lastKeyLine picks the last non-empty line that looks like category/key,
// skipping reasoning markup the model may emit before its answer.
func lastKeyLine(raw string) string {
	lines := strings.Split(raw, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "<") {
			continue
		}
		if strings.Count(line, "/") == 1 {
			return line
		}
	}
	return strings.TrimSpace(raw)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
