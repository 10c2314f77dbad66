package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard-backend/internal/config"
)

func TestNewGenerator_NoKeyDisablesAI(t *testing.T) {
	gen, err := NewGenerator(context.Background(), config.AIConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.Nil(t, gen)
	assert.False(t, NewAdapter(gen).Enabled())
}

func TestNewGenerator_UnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), config.AIConfig{Provider: "llama", APIKey: "k"})
	assert.ErrorContains(t, err, "llama")
}
