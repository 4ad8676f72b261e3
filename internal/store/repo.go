package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	UserID int64     // only this user (0 = all users)
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session lifecycle actions.
const (
	ActionStart    = "start"
	ActionRestart  = "restart"
	ActionNarrowed = "narrowed"
	ActionComplete = "complete"
	ActionExpired  = "expired"
)

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID     string
	UserID        int64
	Action        string
	Stage         string
	QuestionIndex int
}

// AnswerEventData captures one accepted answer.
type AnswerEventData struct {
	SessionID     string
	UserID        int64
	Stage         string
	QuestionIndex int
	TopicID       int
	Weight        int
}

// RankedTopic is a topic with its score, as stored in result events.
type RankedTopic struct {
	TopicID int    `json:"topic_id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
}

// ResultEventData captures the final ranking of a completed session.
type ResultEventData struct {
	SessionID    string
	UserID       int64
	Ranking      []RankedTopic
	Narrowed     []RankedTopic
	DurationSecs int
}

// ResultEvent is a stored completion.
type ResultEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	ResultEventData
}

// TopicCount is how many completed sessions ranked a topic in their result.
type TopicCount struct {
	Name  string
	Count int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request.
type LLMEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendResultEvent(ctx context.Context, data ResultEventData) error

	// QueryResults returns completed sessions, newest first.
	QueryResults(ctx context.Context, opts QueryOpts) ([]ResultEvent, error)

	// TopicFrequency counts how often each topic appears in stored rankings.
	TopicFrequency(ctx context.Context) ([]TopicCount, error)

	// CountSessions returns the number of recorded session starts (including restarts).
	CountSessions(ctx context.Context) (int, error)

	// DeleteUser removes every session, answer and result event of a user.
	DeleteUser(ctx context.Context, userID int64) (int64, error)

	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
