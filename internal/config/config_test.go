package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DEV_AUTH", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "static", cfg.Geocoder)
	assert.Equal(t, 5, cfg.SignInBurst)
	assert.Empty(t, cfg.DBDSN)
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
}

func TestLoad_RejectsDevSecretWithoutDevAuth(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cr3t-from-vault")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.DevAuth)
}

func TestLoad_PrefixedAndPlainNames(t *testing.T) {
	t.Setenv("DENTI_PORT", "9090")
	t.Setenv("DB_DSN", "postgres://denti@localhost/denti")
	t.Setenv("DENTI_TOKEN_TTL", "2h")
	t.Setenv("JWT_SECRET", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "postgres://denti@localhost/denti", cfg.DBDSN)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
}

func TestLoad_RejectsUnknownGeocoder(t *testing.T) {
	t.Setenv("GEOCODER", "carrier-pigeon")
	t.Setenv("JWT_SECRET", "s3cr3t")

	_, err := Load()
	assert.Error(t, err)
}
