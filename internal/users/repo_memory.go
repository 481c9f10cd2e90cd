package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps accounts in process memory. It backs dev runs that
// start without a database.
type MemoryRepo struct {
	mu       sync.RWMutex
	accounts map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{accounts: make(map[string]User)}
}

// Upsert inserts or refreshes an account. CreatedAt survives reruns.
func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.accounts[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.accounts[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return account, nil
}

var _ Repo = (*MemoryRepo)(nil)
