package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/sovbot/internal/callback"
	"github.com/abhisek/sovbot/internal/session"
)

// Action is what an update asks the bot to do.
type Action int

const (
	ActionNone    Action = iota
	ActionWelcome        // /start
	ActionConsent        // show the consent screen
	ActionAbout
	ActionLegal
	ActionBack    // back to the welcome screen
	ActionBegin   // consent given: start the questionnaire
	ActionRestart // /restart or the result's restart button
	ActionAnswer  // an answer button
)

// Inbound is an update reduced to what the bot acts on.
type Inbound struct {
	Action Action
	UserID session.UserID
	ChatID int64

	// MessageID is the message carrying the pressed button.
	MessageID  int
	CallbackID string
	FirstName  string

	// Payload is the raw answer button data for ActionAnswer.
	Payload string
}

// Decode classifies an update. ok is false for updates the bot has no use
// for (channel posts, edits, updates without a sender).
func Decode(u tgbotapi.Update) (in Inbound, ok bool) {
	switch {
	case u.CallbackQuery != nil:
		return decodeCallback(u.CallbackQuery)
	case u.Message != nil:
		return decodeMessage(u.Message)
	}
	return Inbound{}, false
}

func decodeMessage(m *tgbotapi.Message) (Inbound, bool) {
	if m.From == nil || m.Chat == nil {
		return Inbound{}, false
	}
	in := Inbound{
		UserID:    session.UserID(m.From.ID),
		ChatID:    m.Chat.ID,
		FirstName: m.From.FirstName,
	}
	if !m.IsCommand() {
		return in, true
	}
	switch m.Command() {
	case "start":
		in.Action = ActionWelcome
	case "restart":
		in.Action = ActionRestart
	}
	return in, true
}

func decodeCallback(q *tgbotapi.CallbackQuery) (Inbound, bool) {
	if q.From == nil {
		return Inbound{}, false
	}
	in := Inbound{
		UserID:     session.UserID(q.From.ID),
		ChatID:     q.From.ID,
		CallbackID: q.ID,
		FirstName:  q.From.FirstName,
	}
	if q.Message != nil {
		in.MessageID = q.Message.MessageID
		if q.Message.Chat != nil {
			in.ChatID = q.Message.Chat.ID
		}
	}

	switch q.Data {
	case dataStartDiagnostics:
		in.Action = ActionConsent
	case dataAboutMethod:
		in.Action = ActionAbout
	case dataShowLegal:
		in.Action = ActionLegal
	case dataBackToStart:
		in.Action = ActionBack
	case dataConfirmConsent:
		in.Action = ActionBegin
	case dataRestart:
		in.Action = ActionRestart
	default:
		if callback.IsAnswer(q.Data) {
			in.Action = ActionAnswer
			in.Payload = q.Data
		}
	}
	return in, true
}
