package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "denti:revoked:"

// Redis comparte las revocaciones entre réplicas. La key expira con el token.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Connect abre el cliente y verifica la conexión.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *Redis) Revoke(ctx context.Context, jti string, until time.Time) error {
	return r.client.Set(ctx, keyPrefix+jti, 1, ttlUntil(until)).Err()
}

func (r *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, keyPrefix+jti).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}
