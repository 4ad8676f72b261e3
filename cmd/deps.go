package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/sovbot/internal/catalog"
	"github.com/abhisek/sovbot/internal/diagnosis"
	"github.com/abhisek/sovbot/internal/llm"
	"github.com/abhisek/sovbot/internal/session"
	"github.com/abhisek/sovbot/internal/store"
)

// newEngine builds the questionnaire engine over an in-memory session store.
// Expired sessions are recorded in repo by the returned recorder, which the
// caller must Run.
func newEngine(repo store.EventRepo, log *zap.Logger) (*diagnosis.Engine, *diagnosis.ExpiryRecorder, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	ttl, err := cfg.SessionTTL()
	if err != nil {
		return nil, nil, err
	}
	expiries := diagnosis.NewExpiryRecorder(repo, log, diagnosis.DefaultExpiryQueue)
	sessions := session.NewMemoryStore(cfg.Sessions.MaxSessions, ttl, expiries.Evict)
	engine, err := diagnosis.New(cfg.DiagnosisConfig(), cat, sessions,
		diagnosis.WithEventRepo(repo),
		diagnosis.WithLogger(log),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build engine: %w", err)
	}
	return engine, expiries, nil
}

// newProvider returns the commentary LLM provider, or nil when commentary is
// not configured. A provider that fails to build is logged and skipped.
func newProvider(ctx context.Context, repo store.EventRepo) llm.Provider {
	if !cfg.CommentaryEnabled() {
		return nil
	}
	llmCfg, err := cfg.LLMProviderConfig()
	if err != nil {
		logger.Warn("commentary disabled", zap.Error(err))
		return nil
	}
	provider, err := llm.NewProvider(ctx, llmCfg, repo, logger.Named("llm"))
	if err != nil {
		logger.Warn("commentary disabled", zap.Error(err))
		return nil
	}
	return provider
}
