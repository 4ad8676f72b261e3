// Package diagnosis runs the two-stage questionnaire state machine: a broad
// first pass over every topic, a deep dive over the top scorers, and a final
// ranking over all topics.
package diagnosis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/sovbot/internal/callback"
	"github.com/abhisek/sovbot/internal/catalog"
	"github.com/abhisek/sovbot/internal/session"
	"github.com/abhisek/sovbot/internal/store"
)

// UnknownSessionPolicy decides what an answer without an active session does.
type UnknownSessionPolicy string

const (
	// PolicyRestart starts a new session and emits its first prompt.
	PolicyRestart UnknownSessionPolicy = "restart"
	// PolicyIgnore drops the answer without a reply.
	PolicyIgnore UnknownSessionPolicy = "ignore"
)

// Config holds the engine's tunables.
type Config struct {
	NarrowTo       int // K: candidates kept for the deep dive
	TopN           int // N: topics in the final result
	UnknownSession UnknownSessionPolicy
}

// DefaultConfig returns K=8, N=3 and the restart policy.
func DefaultConfig() Config {
	return Config{
		NarrowTo:       8,
		TopN:           3,
		UnknownSession: PolicyRestart,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.NarrowTo < 0 {
		return fmt.Errorf("diagnosis: narrow_to must not be negative, got %d", c.NarrowTo)
	}
	if c.TopN < 1 {
		return fmt.Errorf("diagnosis: top_n must be at least 1, got %d", c.TopN)
	}
	switch c.UnknownSession {
	case PolicyRestart, PolicyIgnore:
	default:
		return fmt.Errorf("diagnosis: unknown_session must be %q or %q, got %q",
			PolicyRestart, PolicyIgnore, c.UnknownSession)
	}
	return nil
}

// Engine applies inbound events to per-user sessions. It is safe for
// concurrent use; events of one user are serialized, different users run
// in parallel.
type Engine struct {
	cfg      Config
	catalog  *catalog.Catalog
	sessions session.Store
	locks    *session.Locker
	events   store.EventRepo
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithEventRepo records session, answer and result events. Recording
// happens after the session is stored; failures are only logged.
func WithEventRepo(repo store.EventRepo) Option {
	return func(e *Engine) { e.events = repo }
}

// WithLogger sets the engine's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSessionIDs overrides the session ID generator.
func WithSessionIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an engine over cat that keeps sessions in sessions.
func New(cfg Config, cat *catalog.Catalog, sessions session.Store, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cat == nil || sessions == nil {
		return nil, fmt.Errorf("diagnosis: catalog and session store are required")
	}
	if need := min(cfg.NarrowTo, cat.TopicCount()); cat.SecondStageLen() < need {
		return nil, fmt.Errorf("diagnosis: narrow_to %d needs %d stage-two questions, catalog has %d",
			cfg.NarrowTo, need, cat.SecondStageLen())
	}
	e := &Engine{
		cfg:      cfg,
		catalog:  cat,
		sessions: sessions,
		locks:    session.NewLocker(),
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog returns the content the engine asks from.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// TotalQuestions is the questionnaire length over both stages.
func (e *Engine) TotalQuestions() int {
	return e.catalog.FirstStageLen() + min(e.cfg.NarrowTo, e.catalog.TopicCount())
}

// HandlePayload decodes an answer button payload and handles it. An
// undecodable payload yields (nil, ErrMalformedPayload) and touches nothing.
func (e *Engine) HandlePayload(ctx context.Context, userID session.UserID, payload string) (*Outbound, error) {
	a, err := callback.Decode(payload)
	if err != nil {
		e.logger.Debug("dropping malformed payload",
			zap.Int64("user_id", int64(userID)), zap.String("payload", payload), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return e.Handle(ctx, Event{UserID: userID, Kind: EventAnswer, Answer: a})
}

// Handle applies one event and returns the message to show next. A nil
// Outbound means nothing should be sent. A classified recovery is reported
// as ErrStaleAnswer, ErrUnknownSession or ErrMalformedPayload next to the
// outbound, which is still meant to be delivered.
func (e *Engine) Handle(ctx context.Context, ev Event) (*Outbound, error) {
	unlock := e.locks.Lock(ev.UserID)
	defer unlock()

	switch ev.Kind {
	case EventStart:
		return e.begin(ctx, ev.UserID, store.ActionStart), nil
	case EventRestart:
		return e.begin(ctx, ev.UserID, store.ActionRestart), nil
	case EventAnswer:
		return e.answer(ctx, ev.UserID, ev.Answer)
	default:
		return nil, fmt.Errorf("diagnosis: unsupported event kind %s", ev.Kind)
	}
}

// begin replaces any session of userID with a fresh one.
func (e *Engine) begin(ctx context.Context, userID session.UserID, action string) *Outbound {
	now := e.now()
	st := session.NewState(e.newID(), userID, e.catalog.TopicCount(), now)
	narrowed, done := e.settle(st)
	e.sessions.Put(st)

	e.recordSession(ctx, st, action)
	if narrowed {
		e.recordSession(ctx, st, store.ActionNarrowed)
	}
	if done {
		return e.complete(ctx, st)
	}
	return e.prompt(st)
}

func (e *Engine) answer(ctx context.Context, userID session.UserID, a callback.Answer) (*Outbound, error) {
	log := e.logger.With(
		zap.Int64("user_id", int64(userID)),
		zap.Stringer("answer_stage", a.Stage),
		zap.Int("answer_index", a.Index))

	st, ok := e.sessions.Get(userID)
	if !ok {
		log.Debug("answer without session")
		return e.unknownSession(ctx, userID)
	}

	if st.Stage == session.StageDone {
		if stage, idx := e.finalPosition(st); a.Stage == stage && a.Index == idx {
			log.Debug("replayed final answer")
			return e.result(st), ErrStaleAnswer
		}
		log.Debug("answer after completion", zap.String("session_id", st.ID))
		return e.unknownSession(ctx, userID)
	}

	if a.Stage != st.Stage || a.Index != st.QuestionIndex {
		log.Debug("stale answer",
			zap.Stringer("stage", st.Stage), zap.Int("index", st.QuestionIndex))
		return e.prompt(st), ErrStaleAnswer
	}

	q, topicID, err := e.question(st)
	if err != nil {
		return nil, err
	}
	if !q.HasWeight(a.Weight) {
		log.Debug("weight not on scale", zap.Int("weight", a.Weight))
		return e.prompt(st), fmt.Errorf("%w: weight %d not on scale", ErrMalformedPayload, a.Weight)
	}

	answered := store.AnswerEventData{
		SessionID:     st.ID,
		UserID:        int64(userID),
		Stage:         st.Stage.String(),
		QuestionIndex: st.QuestionIndex,
		TopicID:       topicID,
		Weight:        a.Weight,
	}
	st.AddScore(topicID, a.Weight)
	st.QuestionIndex++
	st.UpdatedAt = e.now()
	narrowed, done := e.settle(st)
	e.sessions.Put(st)

	e.recordAnswer(ctx, answered)
	if narrowed {
		e.recordSession(ctx, st, store.ActionNarrowed)
	}
	if done {
		return e.complete(ctx, st), nil
	}
	return e.prompt(st), nil
}

// settle moves st past any exhausted stage: it narrows when the first bank
// is used up and completes when the deep dive is.
func (e *Engine) settle(st *session.State) (narrowed, done bool) {
	if st.Stage == session.StageFirst && st.QuestionIndex >= e.catalog.FirstStageLen() {
		st.Narrowed = TopK(st.Scores, e.cfg.NarrowTo)
		st.Stage = session.StageSecond
		st.QuestionIndex = 0
		narrowed = true
	}
	if st.Stage == session.StageSecond && st.QuestionIndex >= len(st.Narrowed) {
		st.Stage = session.StageDone
		done = true
	}
	return narrowed, done
}

// finalPosition is the stage and index of the answer that completed st.
func (e *Engine) finalPosition(st *session.State) (session.Stage, int) {
	if len(st.Narrowed) > 0 {
		return session.StageSecond, len(st.Narrowed) - 1
	}
	return session.StageFirst, e.catalog.FirstStageLen() - 1
}

func (e *Engine) unknownSession(ctx context.Context, userID session.UserID) (*Outbound, error) {
	if e.cfg.UnknownSession == PolicyIgnore {
		return nil, ErrUnknownSession
	}
	return e.begin(ctx, userID, store.ActionRestart), ErrUnknownSession
}

// question resolves the current question and the topic it scores. Stage-two
// questions are positional and score the candidate narrowed at their index.
func (e *Engine) question(st *session.State) (catalog.Question, int, error) {
	switch st.Stage {
	case session.StageFirst:
		q, err := e.catalog.FirstStage(st.QuestionIndex)
		return q, q.TopicID, err
	case session.StageSecond:
		if st.QuestionIndex >= len(st.Narrowed) {
			return catalog.Question{}, 0, fmt.Errorf("diagnosis: index %d past narrowed list", st.QuestionIndex)
		}
		q, err := e.catalog.Second(st.QuestionIndex)
		return q, st.Narrowed[st.QuestionIndex].TopicID, err
	default:
		return catalog.Question{}, 0, fmt.Errorf("diagnosis: no question in stage %s", st.Stage)
	}
}

func (e *Engine) prompt(st *session.State) *Outbound {
	q, topicID, err := e.question(st)
	if err != nil {
		e.logger.Error("resolve question", zap.String("session_id", st.ID), zap.Error(err))
		return nil
	}

	text := q.Prompt
	number := st.QuestionIndex + 1
	if st.Stage == session.StageSecond {
		number += e.catalog.FirstStageLen()
		if t, err := e.catalog.Topic(topicID); err == nil {
			text = q.Bind(t)
		}
	}
	p := &Prompt{
		Stage:   st.Stage,
		Index:   st.QuestionIndex,
		Number:  number,
		Total:   e.TotalQuestions(),
		TopicID: topicID,
		Text:    text,
		Choices: make([]Choice, 0, len(q.Scale)),
	}
	for _, c := range q.Scale {
		value, err := callback.Encode(callback.Answer{Stage: st.Stage, Weight: c.Weight, Index: st.QuestionIndex})
		if err != nil {
			e.logger.Error("encode choice", zap.String("session_id", st.ID), zap.Error(err))
			return nil
		}
		p.Choices = append(p.Choices, Choice{Label: c.Label, Value: value})
	}

	return &Outbound{
		UserID:    st.UserID,
		SessionID: st.ID,
		Kind:      OutboundPrompt,
		Prompt:    p,
	}
}

// Rank orders all topics of scores and returns the first n with names.
func (e *Engine) Rank(scores []int, n int) []Ranked {
	top := TopK(scores, n)
	out := make([]Ranked, len(top))
	for i, c := range top {
		out[i] = Ranked{TopicID: c.TopicID, Score: c.Score}
		if t, err := e.catalog.Topic(c.TopicID); err == nil {
			out[i].Name = t.Name
		}
	}
	return out
}

func (e *Engine) result(st *session.State) *Outbound {
	return &Outbound{
		UserID:    st.UserID,
		SessionID: st.ID,
		Kind:      OutboundResult,
		Result:    e.Rank(st.Scores, e.cfg.TopN),
	}
}

func (e *Engine) complete(ctx context.Context, st *session.State) *Outbound {
	out := e.result(st)
	e.recordSession(ctx, st, store.ActionComplete)
	e.recordResult(ctx, st, out.Result)
	e.logger.Info("diagnosis complete",
		zap.String("session_id", st.ID),
		zap.Int64("user_id", int64(st.UserID)),
		zap.Int("narrowed", len(st.Narrowed)))
	return out
}
