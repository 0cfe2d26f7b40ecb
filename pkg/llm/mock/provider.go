package mock

import (
	"context"
	"fmt"
	"strings"

	"turkgpt/pkg/llm"
)

// MockProvider answers locally without any network call. It echoes the
// last user message so conversations stay readable during development.
type MockProvider struct{}

var _ llm.LLMProvider = &MockProvider{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	last := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == llm.RoleUser {
			last = strings.TrimSpace(history[i].Content)
			break
		}
	}
	if last == "" {
		return "Merhaba! Size nasıl yardımcı olabilirim?", nil
	}
	return fmt.Sprintf("Mesajınızı aldım: %q", last), nil
}
