package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aura-ai/aura/internal/memory"
)

// Remember stores a fact given as "category/key/value" and returns a user
// facing confirmation. Malformed input gets a usage hint, not an error.
func (o *Orchestrator) Remember(input string) string {
	parts := strings.Split(input, "/")
	if len(parts) != 3 {
		return "格式错误，请使用: category/key/value"
	}

	category, key, value := parts[0], parts[1], parts[2]
	if err := o.store.AddFact(category, key, value); err != nil {
		o.logger.Error("remember failed", "error", err)
		return fmt.Sprintf("记忆出错: %v", err)
	}
	return fmt.Sprintf("已记住: %s/%s/%s", category, key, value)
}

// Recall looks up a fact given as "category/key".
func (o *Orchestrator) Recall(input string) string {
	parts := strings.Split(input, "/")
	if len(parts) != 2 {
		return "格式错误，请使用: category/key"
	}

	category, key := parts[0], parts[1]
	fact, err := o.store.GetFact(category, key)
	if err != nil {
		if errors.Is(err, memory.ErrFactNotFound) {
			return fmt.Sprintf("没有找到相关记忆: %s/%s", category, key)
		}
		o.logger.Error("recall failed", "error", err)
		return fmt.Sprintf("回忆出错: %v", err)
	}
	return fmt.Sprintf("%s/%s: %s", category, key, fact.Value)
}
