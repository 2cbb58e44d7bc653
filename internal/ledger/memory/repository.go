// Package memory holds an in-memory ledger.Store used by tests and
// local development runs that have no PostgreSQL available.
package memory

import (
	"context"
	"sync"
	"time"

	"adrewards-bot-backend/internal/ledger"
)

type repository struct {
	mu    sync.Mutex
	users map[int64]*ledger.User
}

func NewRepository() ledger.Store {
	return &repository{users: make(map[int64]*ledger.User)}
}

func (r *repository) EnsureUser(_ context.Context, id int64, firstName, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; ok {
		return nil
	}
	r.users[id] = &ledger.User{
		ID:        id,
		FirstName: firstName,
		Username:  username,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *repository) Get(_ context.Context, id int64) (*ledger.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ledger.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *repository) Credit(_ context.Context, id int64, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ledger.ErrUserNotFound
	}
	u.Balance += amount
	u.TotalEarned += amount
	u.AdsWatched++
	return nil
}
