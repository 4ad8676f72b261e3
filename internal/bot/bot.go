// Package bot connects the questionnaire engine to Telegram: it decodes
// updates, drives the welcome and consent screens, renders engine output and
// sends result commentary as a follow-up.
package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/abhisek/sovbot/internal/commentary"
	"github.com/abhisek/sovbot/internal/diagnosis"
)

// commentedSessions bounds how many session IDs the bot remembers as
// already having commentary requested.
const commentedSessions = 4096

// Bot handles decoded updates.
type Bot struct {
	engine     *diagnosis.Engine
	sender     Sender
	commentary *commentary.Service
	logger     *zap.Logger

	// commented holds the sessions whose result was delivered and handed to
	// the commentary service.
	commented *lru.Cache[string, struct{}]
}

// New creates a Bot. svc may be nil to disable commentary.
func New(engine *diagnosis.Engine, sender Sender, svc *commentary.Service, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	commented, err := lru.New[string, struct{}](commentedSessions)
	if err != nil {
		panic(err) // only for a non-positive size
	}
	return &Bot{engine: engine, sender: sender, commentary: svc, logger: logger, commented: commented}
}

// HandleUpdate processes one webhook update. It returns an error only when a
// message the user is waiting for could not be delivered, so the caller can
// ask Telegram to redeliver the update.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) error {
	in, ok := Decode(u)
	if !ok {
		return nil
	}
	return b.Handle(ctx, in)
}

// Handle processes one decoded update.
func (b *Bot) Handle(ctx context.Context, in Inbound) error {
	log := b.logger.With(zap.Int64("user_id", int64(in.UserID)))

	if in.CallbackID != "" {
		if err := b.sender.AnswerCallback(ctx, in.CallbackID); err != nil {
			log.Warn("answer callback", zap.Error(err))
		}
	}

	switch in.Action {
	case ActionWelcome:
		return b.send(ctx, welcomeReply(in.ChatID, in.FirstName, 0))
	case ActionBack:
		return b.send(ctx, welcomeReply(in.ChatID, in.FirstName, in.MessageID))
	case ActionConsent:
		return b.send(ctx, consentReply(in.ChatID, in.MessageID))
	case ActionAbout:
		return b.send(ctx, aboutReply(in.ChatID, in.MessageID))
	case ActionLegal:
		return b.send(ctx, legalReply(in.ChatID, in.MessageID))
	case ActionBegin:
		if err := b.send(ctx, Reply{ChatID: in.ChatID, EditID: in.MessageID, Text: beginText}); err != nil {
			// The questionnaire still starts; losing the banner is harmless.
			log.Warn("edit consent message", zap.Error(err))
		}
		out, err := b.engine.Handle(ctx, diagnosis.Event{UserID: in.UserID, Kind: diagnosis.EventStart})
		return b.deliver(ctx, in, out, err)
	case ActionRestart:
		out, err := b.engine.Handle(ctx, diagnosis.Event{UserID: in.UserID, Kind: diagnosis.EventRestart})
		return b.deliver(ctx, in, out, err)
	case ActionAnswer:
		out, err := b.engine.HandlePayload(ctx, in.UserID, in.Payload)
		return b.deliver(ctx, in, out, err)
	default:
		log.Debug("ignoring update", zap.Int("action", int(in.Action)))
		return nil
	}
}

// deliver sends engine output. Classified recoveries are logged and their
// outbound, if any, is still sent. Commentary is requested the first time a
// session's result reaches the chat, which may be on a redelivered answer
// when the first send failed.
func (b *Bot) deliver(ctx context.Context, in Inbound, out *diagnosis.Outbound, err error) error {
	switch {
	case err == nil:
	case errors.Is(err, diagnosis.ErrStaleAnswer),
		errors.Is(err, diagnosis.ErrUnknownSession),
		errors.Is(err, diagnosis.ErrMalformedPayload):
		b.logger.Debug("recovered", zap.Int64("user_id", int64(in.UserID)), zap.Error(err))
	default:
		b.logger.Error("engine", zap.Int64("user_id", int64(in.UserID)), zap.Error(err))
		return nil
	}
	if out == nil {
		return nil
	}

	if err := b.send(ctx, Render(in.ChatID, out)); err != nil {
		return err
	}
	if out.Kind == diagnosis.OutboundResult {
		b.requestCommentary(in, out)
	}
	return nil
}

func (b *Bot) requestCommentary(in Inbound, out *diagnosis.Outbound) {
	if b.commentary == nil || !b.commentary.Enabled() {
		return
	}
	if seen, _ := b.commented.ContainsOrAdd(out.SessionID, struct{}{}); seen {
		return
	}
	req := commentary.Request{
		SessionID: out.SessionID,
		FirstName: in.FirstName,
		Ranking:   out.Result,
	}
	b.commentary.Submit(req, func(ctx context.Context, c *commentary.Commentary) error {
		return b.sender.Send(ctx, commentaryReply(in.ChatID, c))
	})
}

func (b *Bot) send(ctx context.Context, r Reply) error {
	if err := b.sender.Send(ctx, r); err != nil {
		return fmt.Errorf("deliver to chat %d: %w", r.ChatID, err)
	}
	return nil
}
