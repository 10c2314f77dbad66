package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAIGenerator talks to any OpenAI-compatible chat endpoint.
type OpenAIGenerator struct {
	chat model.BaseChatModel
}

func NewOpenAIGenerator(ctx context.Context, apiKey, modelName, baseURL string) (*OpenAIGenerator, error) {
	temp := float32(0.2)
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Model:       modelName,
		Temperature: &temp,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &OpenAIGenerator{chat: chat}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	return resp.Content, nil
}
