package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"denti-directory/internal/domain/accounts"
)

type userRepo struct {
	mu      sync.RWMutex
	byID    map[string]accounts.User
	byEmail map[string]string
}

func NewUserRepo() accounts.Repository {
	return &userRepo{
		byID:    make(map[string]accounts.User),
		byEmail: make(map[string]string),
	}
}

func (r *userRepo) Create(ctx context.Context, u accounts.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	email := accounts.NormalizeEmail(u.Email)
	if _, taken := r.byEmail[email]; taken {
		return accounts.ErrEmailTaken
	}
	u.Email = email
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[accounts.NormalizeEmail(email)]
	if !ok {
		return accounts.User{}, accounts.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return accounts.User{}, accounts.ErrNotFound
	}
	return u, nil
}
