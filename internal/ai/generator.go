package ai

import (
	"context"
	"fmt"

	"taskboard-backend/internal/config"
)

// Generator sends one system+user prompt pair to a text model and returns
// its raw reply.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// NewGenerator builds the generator named by cfg.Provider. It returns a nil
// Generator and no error when no API key is configured.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIGenerator(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
