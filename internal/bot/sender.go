package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers replies to the chat platform.
type Sender interface {
	Send(ctx context.Context, r Reply) error

	// AnswerCallback acknowledges a button press so the client stops
	// showing progress.
	AnswerCallback(ctx context.Context, callbackID string) error
}

// TelegramSender sends replies through the Bot API.
type TelegramSender struct {
	api *tgbotapi.BotAPI
}

// NewTelegramSender wraps a connected Bot API client.
func NewTelegramSender(api *tgbotapi.BotAPI) *TelegramSender {
	return &TelegramSender{api: api}
}

// Connect creates a Bot API client. endpoint may be empty for the public
// API. The token is checked with getMe.
func Connect(token, endpoint string) (*tgbotapi.BotAPI, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	return api, nil
}

func (s *TelegramSender) Send(ctx context.Context, r Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	markup := inlineKeyboard(r.Keyboard)

	if r.EditID != 0 {
		edit := tgbotapi.NewEditMessageText(r.ChatID, r.EditID, r.Text)
		edit.ReplyMarkup = markup
		edit.DisableWebPagePreview = r.NoPreview
		if r.HTML {
			edit.ParseMode = tgbotapi.ModeHTML
		}
		if _, err := s.api.Request(edit); err != nil {
			return fmt.Errorf("edit message %d: %w", r.EditID, err)
		}
		return nil
	}

	msg := tgbotapi.NewMessage(r.ChatID, r.Text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	msg.DisableWebPagePreview = r.NoPreview
	if r.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (s *TelegramSender) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func inlineKeyboard(rows [][]Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]tgbotapi.InlineKeyboardButton, len(rows))
	for i, r := range rows {
		out[i] = make([]tgbotapi.InlineKeyboardButton, len(r))
		for j, b := range r {
			if b.URL != "" {
				out[i][j] = tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL)
			} else {
				out[i][j] = tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data)
			}
		}
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(out...)
	return &markup
}

// SetWebhook registers baseURL + "/webhook" with the secret token Telegram
// will echo in every delivery.
func SetWebhook(api *tgbotapi.BotAPI, baseURL, secret string) (string, error) {
	if baseURL == "" || secret == "" {
		return "", fmt.Errorf("set webhook: WEBHOOK_URL and WEBHOOK_SECRET are required")
	}
	url := webhookURL(baseURL)
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	params["allowed_updates"] = `["message","callback_query"]`
	if _, err := api.MakeRequest("setWebhook", params); err != nil {
		return "", fmt.Errorf("set webhook: %w", err)
	}
	return url, nil
}

// DeleteWebhook unregisters the webhook.
func DeleteWebhook(api *tgbotapi.BotAPI) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

func webhookURL(base string) string {
	return strings.TrimRight(base, "/") + WebhookPath
}
