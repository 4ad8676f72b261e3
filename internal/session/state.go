package session

import (
	"slices"
	"time"
)

// UserID is the transport-level identity of a chat user.
type UserID int64

// Stage is the questionnaire phase a session is in.
type Stage int

const (
	StageFirst  Stage = iota // Broad pass: one question per topic
	StageSecond              // Deep dive over the narrowed candidates
	StageDone                // Ranking computed and emitted
)

func (s Stage) String() string {
	switch s {
	case StageFirst:
		return "first"
	case StageSecond:
		return "second"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Candidate is one entry of the narrowed list: a topic and the score it had
// when stage one ended.
type Candidate struct {
	TopicID int
	Score   int
}

// State is the per-user progress record driving the diagnostic engine.
type State struct {
	// ID identifies this run of the questionnaire; a restart gets a new ID.
	ID string

	UserID UserID
	Stage  Stage

	// QuestionIndex is the position within the current stage's question list.
	QuestionIndex int

	// Scores has one slot per topic and only ever grows additively.
	Scores []int

	// Narrowed is nil until stage one completes and never changes afterwards.
	Narrowed []Candidate

	StartedAt time.Time
	UpdatedAt time.Time
}

// NewState creates a fresh session at the first stage with zeroed scores.
func NewState(id string, userID UserID, topicCount int, now time.Time) *State {
	return &State{
		ID:        id,
		UserID:    userID,
		Stage:     StageFirst,
		Scores:    make([]int, topicCount),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers can mutate without affecting the stored value.
func (s *State) Clone() *State {
	c := *s
	c.Scores = slices.Clone(s.Scores)
	c.Narrowed = slices.Clone(s.Narrowed)
	return &c
}

// AddScore adds weight to a single topic's score.
func (s *State) AddScore(topicID, weight int) {
	s.Scores[topicID] += weight
}
