// Package commentary produces an optional LLM interpretation of a finished
// diagnosis and hands it back for delivery as a follow-up message.
package commentary

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/sovbot/internal/llm"
)

// DeliverFunc sends finished commentary to the user.
type DeliverFunc func(ctx context.Context, c *Commentary) error

// Config controls the worker.
type Config struct {
	QueueSize int
	Timeout   time.Duration // per job, including retries
	Generator GeneratorConfig
}

// DefaultConfig returns the worker defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize: 32,
		Timeout:   45 * time.Second,
		Generator: DefaultGeneratorConfig(),
	}
}

// Service queues commentary jobs and processes them one at a time in Run.
// A nil provider makes every Submit a no-op.
type Service struct {
	generator *Generator
	cfg       Config
	logger    *zap.Logger
	pending   chan job
}

type job struct {
	req     Request
	deliver DeliverFunc
}

// NewService creates a commentary service.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	s := &Service{
		cfg:     cfg,
		logger:  logger,
		pending: make(chan job, cfg.QueueSize),
	}
	if provider != nil {
		s.generator = NewGenerator(provider, cfg.Generator)
	}
	return s
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s.generator != nil
}

// Submit queues commentary for req without blocking. It returns false when
// the service is disabled or the queue is full.
func (s *Service) Submit(req Request, deliver DeliverFunc) bool {
	if s.generator == nil {
		return false
	}
	select {
	case s.pending <- job{req: req, deliver: deliver}:
		return true
	default:
		s.logger.Warn("commentary queue full, dropping job", zap.String("session_id", req.SessionID))
		return false
	}
}

// Run processes queued jobs until ctx is done. Jobs still queued at that
// point are dropped.
func (s *Service) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-s.pending:
			s.process(ctx, j)
		}
	}
}

func (s *Service) process(ctx context.Context, j job) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	log := s.logger.With(zap.String("session_id", j.req.SessionID))

	c, err := s.generator.Generate(ctx, j.req)
	if err != nil {
		log.Warn("commentary failed", zap.Error(err))
		return
	}
	if j.deliver == nil {
		return
	}
	if err := j.deliver(ctx, c); err != nil {
		log.Warn("deliver commentary", zap.Error(err))
		return
	}
	log.Debug("commentary delivered", zap.Int("programs", len(c.Programs)))
}
