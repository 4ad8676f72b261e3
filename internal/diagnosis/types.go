package diagnosis

import (
	"errors"
	"fmt"

	"github.com/abhisek/sovbot/internal/callback"
	"github.com/abhisek/sovbot/internal/session"
)

// Classified recoveries. Handle may return one of these together with a
// non-nil Outbound; the outbound should still be delivered.
var (
	// ErrStaleAnswer: the answer's stage or index is not the session's
	// current position. Nothing changed; the current prompt is re-emitted.
	ErrStaleAnswer = errors.New("stale answer")

	// ErrUnknownSession: an answer arrived with no active session.
	ErrUnknownSession = errors.New("unknown session")

	// ErrMalformedPayload: the answer could not be decoded, or its weight is
	// not on the current question's scale.
	ErrMalformedPayload = errors.New("malformed payload")
)

// EventKind tags an inbound event.
type EventKind int

const (
	EventStart EventKind = iota
	EventRestart
	EventAnswer
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventRestart:
		return "restart"
	case EventAnswer:
		return "answer"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one inbound user action, already decoded at the transport boundary.
type Event struct {
	UserID session.UserID
	Kind   EventKind

	// Answer is set for EventAnswer only.
	Answer callback.Answer
}

// OutboundKind tags an outbound message.
type OutboundKind int

const (
	OutboundPrompt OutboundKind = iota
	OutboundResult
)

// Outbound is what the engine wants shown to the user next.
type Outbound struct {
	UserID    session.UserID
	SessionID string
	Kind      OutboundKind

	Prompt *Prompt // OutboundPrompt only
	Result []Ranked
}

// Prompt is a question with its encoded answer buttons.
type Prompt struct {
	Stage session.Stage
	Index int // position within the stage

	// Number is the 1-based position over both stages; Total is the
	// questionnaire length.
	Number int
	Total  int

	TopicID int
	Text    string
	Choices []Choice
}

// Choice is one answer button. Value is the callback encoding of the answer.
type Choice struct {
	Label string
	Value string
}

// Ranked is one line of the final result.
type Ranked struct {
	TopicID int
	Name    string
	Score   int
}
