package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"denti-directory/internal/domain/posts"
)

type postRepo struct {
	mu   sync.RWMutex
	byID map[string]posts.Post
}

func NewPostRepo() posts.Repository {
	return &postRepo{
		byID: make(map[string]posts.Post),
	}
}

func (r *postRepo) Create(ctx context.Context, p posts.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("post id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("post already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *postRepo) Update(ctx context.Context, id string, patch posts.Patch, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return posts.ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = updatedAt
	r.byID[id] = p
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return posts.Post{}, posts.ErrNotFound
	}
	return p, nil
}

// List: más recientes primero.
func (r *postRepo) List(ctx context.Context) ([]posts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]posts.Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}
