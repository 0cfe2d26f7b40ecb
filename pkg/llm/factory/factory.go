package factory

import (
	"context"
	"fmt"

	"turkgpt/pkg/llm"
	"turkgpt/pkg/llm/huggingface"
	"turkgpt/pkg/llm/mock"
	"turkgpt/pkg/llm/ollama"
	"turkgpt/pkg/llm/openai"
)

const (
	ProviderOpenAI      = "openai"
	ProviderOllama      = "ollama"
	ProviderHuggingFace = "huggingface"
	ProviderMock        = "mock"
)

type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewLLMProvider builds the single provider the process talks to.
func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		return openai.NewOpenAIProvider(ctx, openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case ProviderOllama:
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case ProviderHuggingFace:
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case ProviderMock:
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
