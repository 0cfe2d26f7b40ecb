package openai

import (
	"context"
	"fmt"

	"turkgpt/pkg/llm"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const DefaultModel = "gpt-4o-mini"

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIProvider talks to the chat completions API through an eino ChatModel.
type OpenAIProvider struct {
	chatModel model.BaseChatModel
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(ctx context.Context, cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai provider requires an api key")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	chatModel, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	return NewWithChatModel(chatModel), nil
}

// NewWithChatModel wraps any eino chat model.
func NewWithChatModel(chatModel model.BaseChatModel) *OpenAIProvider {
	return &OpenAIProvider{chatModel: chatModel}
}

func toSchema(history []llm.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			out = append(out, schema.SystemMessage(msg.Content))
		case llm.RoleAssistant:
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		default:
			out = append(out, schema.UserMessage(msg.Content))
		}
	}
	return out
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	modelOpts := []model.Option{
		model.WithTemperature(float32(options.Temperature)),
		model.WithMaxTokens(options.MaxTokens),
	}
	if options.Model != "" {
		modelOpts = append(modelOpts, model.WithModel(options.Model))
	}

	resp, err := p.chatModel.Generate(ctx, toSchema(history), modelOpts...)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if resp == nil {
		return "", llm.ErrEmptyCompletion
	}
	return resp.Content, nil
}
