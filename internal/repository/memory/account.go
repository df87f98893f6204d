// Package memory provides in-process stores for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

// AccountRepository keeps accounts in a map keyed by ID. Username and email
// are unique across entries.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]model.Account
	now      func() time.Time
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[uuid.UUID]model.Account),
		now:      time.Now,
	}
}

func (r *AccountRepository) GetByUsername(_ context.Context, username string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == username {
			return clone(a), nil
		}
	}

	return model.Account{}, model.ErrNotFound
}

func (r *AccountRepository) Upsert(ctx context.Context, account model.Account) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.accounts {
		if id == account.ID {
			continue
		}
		if a.Username == account.Username || a.Email == account.Email {
			return model.Account{}, model.ErrConflict
		}
	}

	now := r.now().UTC()
	stored := clone(account)
	if prev, ok := r.accounts[account.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.accounts[stored.ID] = stored

	return clone(stored), nil
}

// Len returns the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func clone(a model.Account) model.Account {
	if a.VerificationCode != nil {
		code := *a.VerificationCode
		a.VerificationCode = &code
	}
	a.Roles = a.Roles.Clone()
	return a
}
