package diagnosis

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/sovbot/internal/session"
	"github.com/abhisek/sovbot/internal/store"
)

func (e *Engine) recordSession(ctx context.Context, st *session.State, action string) {
	if e.events == nil {
		return
	}
	err := e.events.AppendSessionEvent(context.WithoutCancel(ctx), store.SessionEventData{
		SessionID:     st.ID,
		UserID:        int64(st.UserID),
		Action:        action,
		Stage:         st.Stage.String(),
		QuestionIndex: st.QuestionIndex,
	})
	if err != nil {
		e.logger.Warn("record session event", zap.String("action", action), zap.Error(err))
	}
}

func (e *Engine) recordAnswer(ctx context.Context, data store.AnswerEventData) {
	if e.events == nil {
		return
	}
	if err := e.events.AppendAnswerEvent(context.WithoutCancel(ctx), data); err != nil {
		e.logger.Warn("record answer event", zap.Error(err))
	}
}

func (e *Engine) recordResult(ctx context.Context, st *session.State, ranking []Ranked) {
	if e.events == nil {
		return
	}
	narrowed := make([]store.RankedTopic, len(st.Narrowed))
	for i, c := range st.Narrowed {
		narrowed[i] = store.RankedTopic{TopicID: c.TopicID, Score: c.Score}
		if t, err := e.catalog.Topic(c.TopicID); err == nil {
			narrowed[i].Name = t.Name
		}
	}
	err := e.events.AppendResultEvent(context.WithoutCancel(ctx), store.ResultEventData{
		SessionID:    st.ID,
		UserID:       int64(st.UserID),
		Ranking:      StoreRanking(ranking),
		Narrowed:     narrowed,
		DurationSecs: int(st.UpdatedAt.Sub(st.StartedAt).Seconds()),
	})
	if err != nil {
		e.logger.Warn("record result event", zap.Error(err))
	}
}

// StoreRanking converts a result to its stored form.
func StoreRanking(ranking []Ranked) []store.RankedTopic {
	out := make([]store.RankedTopic, len(ranking))
	for i, r := range ranking {
		out[i] = store.RankedTopic{TopicID: r.TopicID, Name: r.Name, Score: r.Score}
	}
	return out
}

// DefaultExpiryQueue is the number of evicted sessions an ExpiryRecorder
// holds before it starts dropping them.
const DefaultExpiryQueue = 1024

// ExpiryRecorder records sessions dropped from the store before completion.
// Evict is the store's eviction hook and only queues; Run does the logging
// and the writes.
type ExpiryRecorder struct {
	repo    store.EventRepo
	logger  *zap.Logger
	pending chan *session.State
}

// NewExpiryRecorder creates a recorder writing to repo. A nil repo only logs.
func NewExpiryRecorder(repo store.EventRepo, logger *zap.Logger, queueSize int) *ExpiryRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = DefaultExpiryQueue
	}
	return &ExpiryRecorder{
		repo:    repo,
		logger:  logger,
		pending: make(chan *session.State, queueSize),
	}
}

// Evict queues st without blocking. The store calls it under its own lock.
func (r *ExpiryRecorder) Evict(st *session.State) {
	if st.Stage == session.StageDone {
		return
	}
	select {
	case r.pending <- st:
	default:
		r.logger.Warn("expiry queue full, dropping event", zap.String("session_id", st.ID))
	}
}

// Run records queued expiries until ctx is done, then records whatever is
// still queued.
func (r *ExpiryRecorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return nil
		case st := <-r.pending:
			r.record(ctx, st)
		}
	}
}

func (r *ExpiryRecorder) drain() {
	for {
		select {
		case st := <-r.pending:
			r.record(context.Background(), st)
		default:
			return
		}
	}
}

func (r *ExpiryRecorder) record(ctx context.Context, st *session.State) {
	r.logger.Debug("session expired",
		zap.String("session_id", st.ID),
		zap.Int64("user_id", int64(st.UserID)),
		zap.Stringer("stage", st.Stage),
		zap.Int("index", st.QuestionIndex))
	if r.repo == nil {
		return
	}
	err := r.repo.AppendSessionEvent(context.WithoutCancel(ctx), store.SessionEventData{
		SessionID:     st.ID,
		UserID:        int64(st.UserID),
		Action:        store.ActionExpired,
		Stage:         st.Stage.String(),
		QuestionIndex: st.QuestionIndex,
	})
	if err != nil {
		r.logger.Warn("record expired session", zap.Error(err))
	}
}
