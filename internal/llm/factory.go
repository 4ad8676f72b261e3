package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/sovbot/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base. repo may be nil to skip event recording.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel(cfg.Provider)
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.APIKey, model)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.APIKey, model, cfg.BaseURL)
	case ProviderOpenRouter:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOpenRouterBaseURL
		}
		var op *OpenAIProvider
		if op, err = NewOpenAIProvider(cfg.APIKey, model, baseURL); err == nil {
			op.name = ProviderOpenRouter
			base = op
		}
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.APIKey, model)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("llm: no provider configured")
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := base
	if repo != nil {
		p = WithLogging(p, cfg.Provider, repo, logger)
	}
	return WithRetry(p, cfg.Retry), nil
}
