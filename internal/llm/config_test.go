package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"disabled", func(c *Config) {}, ""},
		{"mock needs no key", func(c *Config) { c.Provider = ProviderMock }, ""},
		{"anthropic without key", func(c *Config) { c.Provider = ProviderAnthropic }, "api key is required"},
		{"unknown provider", func(c *Config) { c.Provider = "llama"; c.APIKey = "k" }, `unknown provider "llama"`},
		{"no attempts", func(c *Config) {
			c.Provider = ProviderOpenAI
			c.APIKey = "k"
			c.Retry.MaxAttempts = 0
		}, "max attempts"},
		{"openrouter", func(c *Config) { c.Provider = ProviderOpenRouter; c.APIKey = "k" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewProviderResolvesModels(t *testing.T) {
	tests := []struct {
		provider, model, want string
	}{
		{ProviderAnthropic, "", "claude-haiku-4-5-20251001"},
		{ProviderAnthropic, "claude-sonnet", "claude-sonnet-4-20250514"},
		{ProviderOpenAI, "", "gpt-4o-mini"},
		{ProviderOpenRouter, "", "google/gemini-2.0-flash-exp"},
		{ProviderOpenAI, "my-finetune", "my-finetune"},
		{ProviderMock, "", "mock"},
	}
	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.want, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Provider = tt.provider
			cfg.APIKey = "test-key"
			cfg.Model = tt.model

			p, err := NewProvider(context.Background(), cfg, nil, zaptest.NewLogger(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ModelID())
		})
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("openai/gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Nil(t, LookupCost("unknown-model"))
}
