// Package ledger defines the per-user earnings ledger: one row per
// Telegram user holding the withdrawable balance, lifetime earnings and
// the count of confirmed ad views.
package ledger

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User is a single ledger row. FirstName and Username are captured at
// first contact and never synced afterwards.
type User struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	Username    string    `json:"username"`
	Balance     float64   `json:"balance"`
	TotalEarned float64   `json:"total_earned"`
	AdsWatched  int64     `json:"ads_watched"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the persistence contract for ledger rows.
type Store interface {
	// EnsureUser inserts a zeroed row for id if none exists. Calling it
	// for an existing user must leave the row untouched, so it is safe
	// to invoke on every inbound update.
	EnsureUser(ctx context.Context, id int64, firstName, username string) error

	// Get returns the row for id, or ErrUserNotFound.
	Get(ctx context.Context, id int64) (*User, error)

	// Credit atomically increases balance and total_earned by amount
	// and ads_watched by one. Returns ErrUserNotFound when no row
	// exists for id.
	Credit(ctx context.Context, id int64, amount float64) error
}
