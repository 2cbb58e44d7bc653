// Package bot routes normalized Telegram updates to business handlers
// that read and mutate the earnings ledger and reply through the
// messaging platform.
package bot

import (
	"context"
	"errors"
	"fmt"

	"adrewards-bot-backend/internal/ledger"
	"adrewards-bot-backend/internal/platform/telegram"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Handler dispatches inbound updates. One instance is shared by all
// webhook deliveries; it holds no per-request state.
type Handler struct {
	store    ledger.Store
	api      telegram.API
	composer *Composer
}

func NewHandler(store ledger.Store, api telegram.API, composer *Composer) *Handler {
	return &Handler{store: store, api: api, composer: composer}
}

// HandleUpdate registers the sender and routes the update. Errors
// bubble up to the ingress layer, which logs them and acknowledges the
// delivery anyway.
func (h *Handler) HandleUpdate(ctx context.Context, upd *models.Update) error {
	switch {
	case upd.Message != nil && upd.Message.From != nil:
		return h.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		return h.handleCallback(ctx, upd.CallbackQuery)
	}
	return nil
}

func (h *Handler) handleMessage(ctx context.Context, msg *models.Message) error {
	from := msg.From
	if err := h.store.EnsureUser(ctx, from.ID, from.FirstName, from.Username); err != nil {
		return fmt.Errorf("ensure user %d: %w", from.ID, err)
	}

	chatID := msg.Chat.ID

	switch RouteMessage(msg.Text) {
	case ActionWelcome:
		if err := h.send(ctx, chatID, h.composer.Menu()); err != nil {
			return err
		}
		return h.send(ctx, chatID, h.composer.Greeting(displayName(from)))

	case ActionBalance:
		u, err := h.store.Get(ctx, from.ID)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return h.send(ctx, chatID, h.composer.StartRequired())
		}
		if err != nil {
			return fmt.Errorf("get user %d: %w", from.ID, err)
		}
		return h.send(ctx, chatID, h.composer.Balance(u))

	case ActionWatchAds:
		return h.send(ctx, chatID, h.composer.WatchAds())

	case ActionWithdraw:
		u, err := h.store.Get(ctx, from.ID)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return h.send(ctx, chatID, h.composer.StartRequired())
		}
		if err != nil {
			return fmt.Errorf("get user %d: %w", from.ID, err)
		}
		if u.Balance < h.composer.minWithdrawal {
			return h.send(ctx, chatID, h.composer.WithdrawShortfall(u.Balance))
		}
		return h.send(ctx, chatID, h.composer.WithdrawMethods())

	case ActionInstructions:
		return h.send(ctx, chatID, h.composer.Instructions())

	default:
		return h.send(ctx, chatID, h.composer.Menu())
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *models.CallbackQuery) error {
	from := cb.From
	if err := h.store.EnsureUser(ctx, from.ID, from.FirstName, from.Username); err != nil {
		return fmt.Errorf("ensure user %d: %w", from.ID, err)
	}

	// The originating message can be too old for Telegram to expose;
	// nothing can be edited then, so only the press is acknowledged.
	origin := cb.Message.Message
	if origin == nil {
		return h.answer(ctx, cb.ID, "")
	}

	action, method := RouteCallback(cb.Data)
	switch action {
	case CallbackActionConfirmAd:
		if err := h.store.Credit(ctx, from.ID, h.composer.adReward); err != nil {
			return fmt.Errorf("credit user %d: %w", from.ID, err)
		}
		u, err := h.store.Get(ctx, from.ID)
		if err != nil {
			return fmt.Errorf("get user %d: %w", from.ID, err)
		}
		if err := h.answer(ctx, cb.ID, fmt.Sprintf("✅ +$%.2f credited!", h.composer.adReward)); err != nil {
			return err
		}
		return h.edit(ctx, origin.Chat.ID, origin.ID, h.composer.AdConfirmed(u))

	case CallbackActionCancelAd:
		if err := h.answer(ctx, cb.ID, ""); err != nil {
			return err
		}
		return h.edit(ctx, origin.Chat.ID, origin.ID, h.composer.AdCancelled())

	case CallbackActionWithdrawMethod:
		if err := h.answer(ctx, cb.ID, ""); err != nil {
			return err
		}
		return h.edit(ctx, origin.Chat.ID, origin.ID, h.composer.WithdrawInstruction(method))

	case CallbackActionCancelWithdraw:
		if err := h.answer(ctx, cb.ID, ""); err != nil {
			return err
		}
		return h.edit(ctx, origin.Chat.ID, origin.ID, h.composer.WithdrawCancelled())

	default:
		return h.answer(ctx, cb.ID, "")
	}
}

func (h *Handler) send(ctx context.Context, chatID int64, reply Reply) error {
	_, err := h.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        reply.Text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: reply.Markup,
	})
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (h *Handler) edit(ctx context.Context, chatID int64, messageID int, reply Reply) error {
	_, err := h.api.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      reply.Text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("edit message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (h *Handler) answer(ctx context.Context, callbackID, text string) error {
	_, err := h.api.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}
	return nil
}

func displayName(u *models.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "there"
}
