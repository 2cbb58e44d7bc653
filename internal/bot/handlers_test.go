package bot

import (
	"context"
	"fmt"
	"testing"

	"adrewards-bot-backend/internal/ledger"
	"adrewards-bot-backend/internal/ledger/memory"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	sent    []*tgbot.SendMessageParams
	edits   []*tgbot.EditMessageTextParams
	answers []*tgbot.AnswerCallbackQueryParams
	sendErr error
}

func (f *fakeAPI) SendMessage(_ context.Context, params *tgbot.SendMessageParams) (*models.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, params)
	return &models.Message{}, nil
}

func (f *fakeAPI) EditMessageText(_ context.Context, params *tgbot.EditMessageTextParams) (*models.Message, error) {
	f.edits = append(f.edits, params)
	return &models.Message{}, nil
}

func (f *fakeAPI) AnswerCallbackQuery(_ context.Context, params *tgbot.AnswerCallbackQueryParams) (bool, error) {
	f.answers = append(f.answers, params)
	return true, nil
}

func (f *fakeAPI) SetWebhook(_ context.Context, _ *tgbot.SetWebhookParams) (bool, error) {
	return true, nil
}

func newTestHandler() (*Handler, *fakeAPI, ledger.Store) {
	api := &fakeAPI{}
	store := memory.NewRepository()
	h := NewHandler(store, api, testComposer())
	return h, api, store
}

func messageUpdate(userID int64, text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   10,
			From: &models.User{ID: userID, FirstName: "Ayesha", Username: "ayesha99"},
			Chat: models.Chat{ID: userID},
			Text: text,
		},
	}
}

func callbackUpdate(userID int64, data string) *models.Update {
	return &models.Update{
		ID: 2,
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-1",
			From: models.User{ID: userID, FirstName: "Ayesha", Username: "ayesha99"},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{ID: 55, Chat: models.Chat{ID: userID}},
			},
		},
	}
}

func TestStartRegistersUserAndGreets(t *testing.T) {
	h, api, store := newTestHandler()

	require.NoError(t, h.HandleUpdate(context.Background(), messageUpdate(7, "/start")))

	u, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, u.Balance)
	assert.Zero(t, u.TotalEarned)
	assert.Zero(t, u.AdsWatched)

	// Menu keyboard first, then the greeting.
	require.Len(t, api.sent, 2)
	assert.IsType(t, &models.ReplyKeyboardMarkup{}, api.sent[0].ReplyMarkup)
	assert.Contains(t, api.sent[1].Text, "Ayesha")
	assert.Contains(t, api.sent[1].Text, "$0.02")
	assert.Contains(t, api.sent[1].Text, "$1.00")
}

func TestBalanceForRegisteredUser(t *testing.T) {
	h, api, store := newTestHandler()
	require.NoError(t, store.EnsureUser(context.Background(), 7, "Ayesha", "ayesha99"))
	require.NoError(t, store.Credit(context.Background(), 7, 0.02))

	require.NoError(t, h.HandleUpdate(context.Background(), messageUpdate(7, "/balance")))

	require.Len(t, api.sent, 1)
	assert.Contains(t, api.sent[0].Text, "$0.02")
	assert.Contains(t, api.sent[0].Text, "1")
}

func TestBalanceViaMenuLabel(t *testing.T) {
	h, api, store := newTestHandler()
	require.NoError(t, store.EnsureUser(context.Background(), 7, "Ayesha", "ayesha99"))

	require.NoError(t, h.HandleUpdate(context.Background(), messageUpdate(7, LabelBalance)))

	require.Len(t, api.sent, 1)
	assert.Contains(t, api.sent[0].Text, "$0.00")
}

func TestWatchAdsSendsAdKeyboard(t *testing.T) {
	h, api, _ := newTestHandler()

	require.NoError(t, h.HandleUpdate(context.Background(), messageUpdate(7, LabelWatchAds)))

	require.Len(t, api.sent, 1)
	kb, ok := api.sent[0].ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "https://ads.example.com/watch", kb.InlineKeyboard[0][0].URL)
}

func TestWithdrawBelowMinimum(t *testing.T) {
	h, api, store := newTestHandler()
	require.NoError(t, store.EnsureUser(context.Background(), 7, "Ayesha", "ayesha99"))
	// 25 ads at $0.02 leaves the balance at $0.50, under the $1.00 floor.
	for i := 0; i < 25; i++ {
		require.NoError(t, store.Credit(context.Background(), 7, 0.02))
	}

	require.NoError(t, h.HandleUpdate(context.Background(), messageUpdate(7, LabelWithdraw)))

	require.Len(t, api.sent, 1)
	assert.Contains(t, api.sent[0].Text, "$0.50")
	assert.Contains(t, api.sent[0].Text, "$1.00")
	assert.Nil(t, api.sent[0].ReplyMarkup, "no payment-method keyboard below the minimum")

	u, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.50, u.Balance, 1e-9, "withdraw request must not mutate the row")
}

func TestWithdrawAtMinimumShowsMethods(t *testing.T) {
	h, api, store := newTestHandler()
	require.NoError(t, store.EnsureUser(context.Background(), 7, "Ayesha", "ayesha99"))
	for i := 0; i < 50; i++ {
		require.NoError(t, store.Credit(context.Background(), 7, 0.02))
	}

	require.NoError(t, h.HandleUpdate(context.Background(), messageUpdate(7, LabelWithdraw)))

	require.Len(t, api.sent, 1)
	kb, ok := api.sent[0].ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, len(Methods)+1)

	u, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.InDelta(t, 1.00, u.Balance, 1e-9, "presenting methods must not debit")
	assert.Equal(t, int64(50), u.AdsWatched)
}

func TestWithdrawForUnknownUserPromptsStart(t *testing.T) {
	h, api, store := newTestHandler()

	// EnsureUser runs before routing, so build the prompt condition by
	// wrapping a store whose Get pretends the row vanished.
	h.store = notFoundStore{store}

	require.NoError(t, h.HandleUpdate(context.Background(), messageUpdate(7, LabelWithdraw)))

	require.Len(t, api.sent, 1)
	assert.Contains(t, api.sent[0].Text, "/start")
}

type notFoundStore struct{ ledger.Store }

func (notFoundStore) Get(context.Context, int64) (*ledger.User, error) {
	return nil, ledger.ErrUserNotFound
}

func TestConfirmAdCreditsAndEditsInPlace(t *testing.T) {
	h, api, store := newTestHandler()
	require.NoError(t, store.EnsureUser(context.Background(), 7, "Ayesha", "ayesha99"))

	require.NoError(t, h.HandleUpdate(context.Background(), callbackUpdate(7, CallbackConfirmAd)))

	u, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, u.Balance, 1e-9)
	assert.InDelta(t, 0.02, u.TotalEarned, 1e-9)
	assert.Equal(t, int64(1), u.AdsWatched)

	require.Len(t, api.answers, 1)
	require.Len(t, api.edits, 1)
	assert.Equal(t, 55, api.edits[0].MessageID)
	assert.Contains(t, api.edits[0].Text, "$0.02")
	assert.Contains(t, api.edits[0].Text, "1")
	assert.Empty(t, api.sent, "confirmation edits the originating message")
}

func TestConfirmAdForFreshUserCreditsFromZero(t *testing.T) {
	h, api, store := newTestHandler()

	// No prior /start: EnsureUser on the callback creates the row.
	require.NoError(t, h.HandleUpdate(context.Background(), callbackUpdate(9, CallbackConfirmAd)))

	u, err := store.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, u.Balance, 1e-9)
	assert.Equal(t, int64(1), u.AdsWatched)
	require.Len(t, api.edits, 1)
}

func TestCancelAdEditsWithoutMutation(t *testing.T) {
	h, api, store := newTestHandler()

	require.NoError(t, h.HandleUpdate(context.Background(), callbackUpdate(7, CallbackCancelAd)))

	u, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, u.Balance)
	assert.Zero(t, u.AdsWatched)

	require.Len(t, api.edits, 1)
	assert.Contains(t, api.edits[0].Text, "cancelled")
}

func TestWithdrawMethodSelectionIsAdvisoryOnly(t *testing.T) {
	h, api, store := newTestHandler()
	require.NoError(t, store.EnsureUser(context.Background(), 7, "Ayesha", "ayesha99"))
	for i := 0; i < 50; i++ {
		require.NoError(t, store.Credit(context.Background(), 7, 0.02))
	}

	require.NoError(t, h.HandleUpdate(context.Background(), callbackUpdate(7, "withdraw_nagad")))

	require.Len(t, api.edits, 1)
	assert.Contains(t, api.edits[0].Text, "Nagad")
	assert.Contains(t, api.edits[0].Text, "/nagad")

	u, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.InDelta(t, 1.00, u.Balance, 1e-9, "method selection never debits the balance")
}

func TestCancelWithdrawEdits(t *testing.T) {
	h, api, _ := newTestHandler()

	require.NoError(t, h.HandleUpdate(context.Background(), callbackUpdate(7, CallbackCancelWithdraw)))

	require.Len(t, api.edits, 1)
	assert.Contains(t, api.edits[0].Text, "Withdrawal cancelled")
}

func TestUnknownCallbackOnlyAnswers(t *testing.T) {
	h, api, _ := newTestHandler()

	require.NoError(t, h.HandleUpdate(context.Background(), callbackUpdate(7, "withdraw_paypal")))

	assert.Len(t, api.answers, 1)
	assert.Empty(t, api.edits)
	assert.Empty(t, api.sent)
}

func TestUnrecognizedTextShowsMenu(t *testing.T) {
	h, api, _ := newTestHandler()

	require.NoError(t, h.HandleUpdate(context.Background(), messageUpdate(7, "what is this")))

	require.Len(t, api.sent, 1)
	assert.IsType(t, &models.ReplyKeyboardMarkup{}, api.sent[0].ReplyMarkup)
}

func TestSendFailurePropagates(t *testing.T) {
	h, api, _ := newTestHandler()
	api.sendErr = fmt.Errorf("telegram: 502")

	err := h.HandleUpdate(context.Background(), messageUpdate(7, "/start"))
	require.Error(t, err)
}

func TestNewUserFullScenario(t *testing.T) {
	h, api, store := newTestHandler()
	ctx := context.Background()

	// /start → zeroed row.
	require.NoError(t, h.HandleUpdate(ctx, messageUpdate(7, "/start")))
	u, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Zero(t, u.Balance)

	// confirm ad → $0.02, one ad watched.
	require.NoError(t, h.HandleUpdate(ctx, callbackUpdate(7, CallbackConfirmAd)))
	u, err = store.Get(ctx, 7)
	require.NoError(t, err)
	require.InDelta(t, 0.02, u.Balance, 1e-9)
	require.Equal(t, int64(1), u.AdsWatched)

	// balance query reflects the stored state.
	require.NoError(t, h.HandleUpdate(ctx, messageUpdate(7, "/balance")))
	last := api.sent[len(api.sent)-1]
	assert.Contains(t, last.Text, "$0.02")
	assert.Contains(t, last.Text, "Ads watched: <b>1</b>")
}
