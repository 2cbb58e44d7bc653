// Package telegram wraps the Telegram Bot API client. Handlers depend
// on the API interface rather than the concrete client so tests can
// substitute a fake.
package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// API is the slice of the Bot API surface this backend uses.
type API interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *tgbot.EditMessageTextParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *tgbot.AnswerCallbackQueryParams) (bool, error)
	SetWebhook(ctx context.Context, params *tgbot.SetWebhookParams) (bool, error)
}

// New builds the shared bot client. Updates arrive through our own
// webhook endpoint, so the client's internal update loop stays unused
// and getMe is skipped to keep startup free of network calls.
func New(token string) (*tgbot.Bot, error) {
	return tgbot.New(token, tgbot.WithSkipGetMe())
}
