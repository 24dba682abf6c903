package local

import (
	"context"
	"sync"
	"testing"
	"time"

	"denti-directory/internal/adapters/storage/memory"
	"denti-directory/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(memory.NewUserRepo(), Options{
		Secret:      []byte("test-secret"),
		TokenTTL:    time.Hour,
		BcryptCost:  bcrypt.MinCost,
		SignInRate:  0.0001,
		SignInBurst: 3,
	})
	require.NoError(t, err)
	return p
}

// recorder junta las notificaciones de Subscribe.
type recorder struct {
	mu  sync.Mutex
	got []*auth.Identity
}

func (r *recorder) fn(id *auth.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, id)
}

func (r *recorder) snapshot() []*auth.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*auth.Identity(nil), r.got...)
}

func TestSignUpAndSignIn(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	sess, err := p.SignUp(ctx, "Ana@Example.com", "abc123", "Ana")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "ana@example.com", sess.Identity.Email)
	assert.Equal(t, "Ana", sess.Identity.DisplayName)

	claims, err := p.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Identity.UID, claims.UserID)

	again, err := p.SignIn(ctx, "ana@example.com", "abc123")
	require.NoError(t, err)
	assert.Equal(t, sess.Identity.UID, again.Identity.UID)
	assert.NotEqual(t, sess.Token, again.Token)
}

func TestSignUp_Errors(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "ana@example.com", "abc12", "")
	assert.Equal(t, auth.CodeWeakPassword, auth.CodeOf(err))

	_, err = p.SignUp(ctx, "no-email", "abc123", "")
	assert.Equal(t, auth.CodeInvalidEmail, auth.CodeOf(err))

	_, err = p.SignUp(ctx, "ana@example.com", "abc123", "")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "ANA@example.com", "abc123", "")
	assert.Equal(t, auth.CodeEmailAlreadyInUse, auth.CodeOf(err))
}

func TestSignIn_WrongCredentialsAndThrottle(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "ana@example.com", "abc123", "")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "ana@example.com", "wrong1")
	assert.Equal(t, auth.CodeInvalidCredential, auth.CodeOf(err))

	_, err = p.SignIn(ctx, "nadie@example.com", "abc123")
	assert.Equal(t, auth.CodeInvalidCredential, auth.CodeOf(err))

	// Ráfaga de 3 por email: el primer intento ya consumió uno.
	_, _ = p.SignIn(ctx, "ana@example.com", "wrong2")
	_, _ = p.SignIn(ctx, "ana@example.com", "wrong3")
	_, err = p.SignIn(ctx, "ana@example.com", "abc123")
	assert.Equal(t, auth.CodeTooManyRequests, auth.CodeOf(err))
}

func TestVerify_RejectsForeignAndExpiredTokens(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	sess, err := p.SignUp(ctx, "ana@example.com", "abc123", "")
	require.NoError(t, err)

	other, err := New(memory.NewUserRepo(), Options{Secret: []byte("other")})
	require.NoError(t, err)
	_, err = other.Verify(ctx, sess.Token)
	assert.Equal(t, auth.CodeInvalidToken, auth.CodeOf(err))

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.Verify(ctx, sess.Token)
	assert.Equal(t, auth.CodeInvalidToken, auth.CodeOf(err))

	_, err = p.Verify(ctx, "garbage")
	assert.Equal(t, auth.CodeInvalidToken, auth.CodeOf(err))
}

func TestSubscribe_DeliversCurrentThenSignOut(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	sess, err := p.SignUp(ctx, "ana@example.com", "abc123", "")
	require.NoError(t, err)

	rec := &recorder{}
	unsub := p.Subscribe(sess.Token, rec.fn)
	defer unsub()

	got := rec.snapshot()
	require.Len(t, got, 1, "current state is delivered before Subscribe returns")
	require.NotNil(t, got[0])
	assert.Equal(t, sess.Identity.UID, got[0].UID)

	require.NoError(t, p.SignOut(ctx, sess.Token))

	require.Eventually(t, func() bool {
		got := rec.snapshot()
		return len(got) == 2 && got[1] == nil
	}, time.Second, 5*time.Millisecond)

	_, err = p.Verify(ctx, sess.Token)
	assert.Equal(t, auth.CodeInvalidToken, auth.CodeOf(err))
}

func TestSubscribe_UnknownTokenDeliversNil(t *testing.T) {
	p := newTestProvider(t)

	rec := &recorder{}
	unsub := p.Subscribe("not-a-token", rec.fn)
	unsub()
	unsub()

	got := rec.snapshot()
	require.Len(t, got, 1)
	assert.Nil(t, got[0])
}

func TestSignOut_InvalidTokenIsNoop(t *testing.T) {
	p := newTestProvider(t)
	assert.NoError(t, p.SignOut(context.Background(), "garbage"))
}
