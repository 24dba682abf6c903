package auth

import (
	"context"
	"time"
)

// RevocationStore recuerda tokens cerrados (por jti) hasta que expiran solos.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
