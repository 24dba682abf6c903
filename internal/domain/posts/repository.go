package posts

import (
	"context"
	"time"
)

// Repository: List devuelve los artículos ordenados por CreatedAt descendente.
type Repository interface {
	Create(ctx context.Context, p Post) error
	Update(ctx context.Context, id string, patch Patch, updatedAt time.Time) error
	GetByID(ctx context.Context, id string) (Post, error)
	List(ctx context.Context) ([]Post, error)
	Delete(ctx context.Context, id string) error
}
