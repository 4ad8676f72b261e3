package llm

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures one provider.
type Config struct {
	// Provider is one of the Provider* names. Empty disables the LLM.
	Provider string
	APIKey   string

	// Model is a friendly alias (see the per-provider model maps) or a raw model ID.
	Model string

	// BaseURL overrides the endpoint of OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Delay is the exponential backoff before retry attempt+1, capped at MaxWait
// and spread by up to 20% either way.
func (c RetryConfig) Delay(attempt int) time.Duration {
	d := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt))
	if c.MaxWait > 0 {
		d = math.Min(d, float64(c.MaxWait))
	}
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(max(d, 0))
}

// DefaultConfig returns a disabled Config with retry and timeout defaults.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("llm: api key is required for the %s provider", c.Provider)
		}
	default:
		return fmt.Errorf("llm: unknown provider %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm: retry max attempts must be at least 1")
	}
	return nil
}

// defaultModel is used when Config.Model is empty.
func defaultModel(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "claude-haiku"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOpenRouter:
		return "google/gemini-2.0-flash-exp"
	case ProviderGemini:
		return "gemini-flash"
	}
	return ""
}

// resolveModel maps a friendly model name to a provider model ID.
// Unknown names are passed through so raw model IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
