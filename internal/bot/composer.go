package bot

import (
	"fmt"

	"adrewards-bot-backend/internal/ledger"

	"github.com/go-telegram/bot/models"
)

// Text commands and persistent menu labels. Matching is exact and
// case-sensitive.
const (
	TextStart        = "/start"
	TextBalance      = "/balance"
	LabelBalance     = "💰 Balance"
	LabelWatchAds    = "📺 Watch Ads"
	LabelWithdraw    = "💸 Withdraw"
	LabelInstruction = "📖 Instructions"
)

// Callback payloads carried by inline buttons.
const (
	CallbackConfirmAd      = "confirm_ad"
	CallbackCancelAd       = "cancel_ad"
	CallbackCancelWithdraw = "cancel_withdraw"

	withdrawPrefix = "withdraw_"
)

// Method is one of the supported regional payment options.
type Method struct {
	ID    string
	Label string
}

// Methods is the fixed set of withdrawal options.
var Methods = []Method{
	{ID: "bkash", Label: "bKash"},
	{ID: "nagad", Label: "Nagad"},
	{ID: "rocket", Label: "Rocket"},
	{ID: "upay", Label: "Upay"},
}

// Reply is the outbound content a handler produces: message text plus
// an optional keyboard.
type Reply struct {
	Text   string
	Markup models.ReplyMarkup
}

// Composer builds every user-facing message and keyboard. All texts use
// HTML parse mode.
type Composer struct {
	adReward      float64
	minWithdrawal float64
	adURL         string
}

func NewComposer(adReward, minWithdrawal float64, adURL string) *Composer {
	return &Composer{adReward: adReward, minWithdrawal: minWithdrawal, adURL: adURL}
}

func (c *Composer) MenuKeyboard() models.ReplyMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: LabelWatchAds}, {Text: LabelBalance}},
			{{Text: LabelWithdraw}, {Text: LabelInstruction}},
		},
		ResizeKeyboard: true,
		IsPersistent:   true,
	}
}

func (c *Composer) Menu() Reply {
	return Reply{
		Text:   "👇 Choose an option from the menu below.",
		Markup: c.MenuKeyboard(),
	}
}

func (c *Composer) Greeting(firstName string) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"👋 <b>Welcome, %s!</b>\n\n"+
				"📺 Watch ads and earn <b>$%.2f</b> for every ad you complete.\n"+
				"💸 Withdraw your earnings once you reach <b>$%.2f</b>.\n\n"+
				"🚀 Tap <b>%s</b> to start earning!",
			firstName, c.adReward, c.minWithdrawal, LabelWatchAds),
	}
}

func (c *Composer) StartRequired() Reply {
	return Reply{Text: "❗ Please send /start first to register."}
}

func (c *Composer) Balance(u *ledger.User) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"💰 <b>Your Balance</b>\n\n"+
				"💵 Balance: <b>$%.2f</b>\n"+
				"📈 Total earned: <b>$%.2f</b>\n"+
				"📺 Ads watched: <b>%d</b>\n\n"+
				"💸 Minimum withdrawal: $%.2f",
			u.Balance, u.TotalEarned, u.AdsWatched, c.minWithdrawal),
	}
}

func (c *Composer) WatchAds() Reply {
	return Reply{
		Text: "📺 <b>Watch the ad below</b>\n\n" +
			"1️⃣ Open the link and watch the full ad.\n" +
			"2️⃣ Come back and press <b>I watched the ad</b>.",
		Markup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: "🎬 Open Ad", URL: c.adURL}},
				{{Text: "✅ I watched the ad", CallbackData: CallbackConfirmAd}},
				{{Text: "❌ Cancel", CallbackData: CallbackCancelAd}},
			},
		},
	}
}

func (c *Composer) WithdrawShortfall(balance float64) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"❌ <b>Not enough balance to withdraw.</b>\n\n"+
				"💵 Your balance: $%.2f\n"+
				"💸 Minimum withdrawal: $%.2f\n\n"+
				"📺 Keep watching ads to earn more!",
			balance, c.minWithdrawal),
	}
}

func (c *Composer) WithdrawMethods() Reply {
	rows := make([][]models.InlineKeyboardButton, 0, len(Methods)+1)
	for _, m := range Methods {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: m.Label, CallbackData: withdrawPrefix + m.ID},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "❌ Cancel", CallbackData: CallbackCancelWithdraw},
	})

	return Reply{
		Text:   "💸 <b>Choose a payment method:</b>",
		Markup: &models.InlineKeyboardMarkup{InlineKeyboard: rows},
	}
}

func (c *Composer) Instructions() Reply {
	return Reply{
		Text: fmt.Sprintf(
			"📖 <b>How it works</b>\n\n"+
				"1️⃣ Tap <b>%s</b> and open the ad link.\n"+
				"2️⃣ Watch the full ad, then press <b>I watched the ad</b>.\n"+
				"3️⃣ You earn <b>$%.2f</b> per confirmed ad.\n"+
				"4️⃣ Reach <b>$%.2f</b> and tap <b>%s</b>.\n"+
				"5️⃣ Pick a method: bKash, Nagad, Rocket or Upay.\n\n"+
				"🕒 Withdrawals are processed within 24 hours.",
			LabelWatchAds, c.adReward, c.minWithdrawal, LabelWithdraw),
	}
}

func (c *Composer) AdConfirmed(u *ledger.User) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"✅ <b>Ad confirmed!</b>\n\n"+
				"💵 You earned: $%.2f\n"+
				"💰 New balance: $%.2f\n"+
				"📺 Total ads watched: %d",
			c.adReward, u.Balance, u.AdsWatched),
	}
}

func (c *Composer) AdCancelled() Reply {
	return Reply{Text: "❌ Ad cancelled. Tap " + LabelWatchAds + " when you are ready."}
}

func (c *Composer) WithdrawInstruction(m Method) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"📤 <b>%s selected.</b>\n\n"+
				"Send the following command to request your withdrawal:\n"+
				"<code>/%s &lt;amount&gt; &lt;account_number&gt;</code>\n\n"+
				"🕒 Requests are processed within 24 hours.",
			m.Label, m.ID),
	}
}

func (c *Composer) WithdrawCancelled() Reply {
	return Reply{Text: "❌ Withdrawal cancelled."}
}
