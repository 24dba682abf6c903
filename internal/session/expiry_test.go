package session_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"denti-directory/internal/adapters/auth/local"
	"denti-directory/internal/adapters/storage/memory"
	"denti-directory/internal/session"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegistry_ExpiredTokensAreReleased(t *testing.T) {
	provider, err := local.New(memory.NewUserRepo(), local.Options{
		Secret:     []byte("registry-test-secret"),
		TokenTTL:   time.Second,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	reg := session.NewRegistry(provider, nil)
	defer reg.Close()

	for i := 0; i < 20; i++ {
		s, err := provider.SignUp(context.Background(), fmt.Sprintf("user%d@example.com", i), "abc123", "")
		require.NoError(t, err)
		require.NotNil(t, reg.Attach(s.Token))
	}

	require.Eventually(t, func() bool { return reg.Len() == 0 }, 5*time.Second, 20*time.Millisecond)
}
