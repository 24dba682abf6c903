// Package revocation guarda los jti de tokens cerrados hasta que vencen.
package revocation

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// minTTL cubre tokens que ya vencieron al momento de revocarlos.
const minTTL = time.Minute

// Memory guarda jti revocados en proceso; cada entrada vence con el token.
type Memory struct {
	c *cache.Cache
}

func NewMemory() *Memory {
	return &Memory{c: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (m *Memory) Revoke(_ context.Context, jti string, until time.Time) error {
	m.c.Set(jti, struct{}{}, ttlUntil(until))
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.c.Get(jti)
	return ok, nil
}

func ttlUntil(until time.Time) time.Duration {
	ttl := time.Until(until)
	if ttl < minTTL {
		return minTTL
	}
	return ttl
}
