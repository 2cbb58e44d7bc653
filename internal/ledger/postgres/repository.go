package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"adrewards-bot-backend/internal/ledger"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id      BIGINT PRIMARY KEY,
	first_name   TEXT NOT NULL DEFAULT '',
	username     TEXT NOT NULL DEFAULT '',
	balance      NUMERIC(12,2) NOT NULL DEFAULT 0,
	total_earned NUMERIC(12,2) NOT NULL DEFAULT 0,
	ads_watched  BIGINT NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ledger.Store {
	return &repository{db: db}
}

// Migrate creates the users table when it does not exist yet. Gated by
// DB_AUTO_MIGRATE so production schemas stay under operator control.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate users table: %w", err)
	}
	return nil
}

func (r *repository) EnsureUser(ctx context.Context, id int64, firstName, username string) error {
	query := `
		INSERT INTO users (user_id, first_name, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, id, firstName, username); err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*ledger.User, error) {
	query := `
		SELECT user_id, first_name, username, balance, total_earned, ads_watched, created_at
		FROM users
		WHERE user_id = $1
	`

	var u ledger.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.FirstName, &u.Username,
		&u.Balance, &u.TotalEarned, &u.AdsWatched, &u.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// Credit is a single UPDATE so concurrent confirmations for the same
// user cannot lose increments.
func (r *repository) Credit(ctx context.Context, id int64, amount float64) error {
	query := `
		UPDATE users
		SET balance = balance + $2,
		    total_earned = total_earned + $2,
		    ads_watched = ads_watched + 1
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to credit user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to credit user: %w", err)
	}
	if affected == 0 {
		return ledger.ErrUserNotFound
	}
	return nil
}
