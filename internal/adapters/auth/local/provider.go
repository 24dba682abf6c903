// Package local implementa el proveedor de autenticación propio:
// cuentas con bcrypt, sesiones JWT (HS256) y notificaciones de identidad por
// token sobre un pubsub.SimpleHub.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"denti-directory/internal/adapters/revocation"
	"denti-directory/internal/domain/accounts"
	"denti-directory/internal/forms"
	"denti-directory/internal/platform/logger"
	"denti-directory/internal/ports/auth"

	"github.com/google/uuid"
	"github.com/juju/pubsub/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	DefaultTokenTTL = 24 * time.Hour

	topicPrefix = "session."
)

type Options struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int

	// Intentos de sign-in por email: SignInRate por segundo con ráfaga SignInBurst.
	SignInRate  float64
	SignInBurst int

	// Revocations es opcional; por defecto se usa una en memoria.
	Revocations auth.RevocationStore
	Logger      logger.Logger
}

// Provider implementa auth.Provider y auth.AuthVerifier.
type Provider struct {
	users   accounts.Repository
	secret  []byte
	ttl     time.Duration
	cost    int
	revoked auth.RevocationStore
	log     logger.Logger

	limit    rate.Limit
	burst    int
	limiters *cache.Cache
	limMu    sync.Mutex

	hub *pubsub.SimpleHub

	now   func() time.Time
	newID func() string
}

var (
	_ auth.Provider     = (*Provider)(nil)
	_ auth.AuthVerifier = (*Provider)(nil)
)

func New(users accounts.Repository, opts Options) (*Provider, error) {
	if users == nil {
		return nil, errors.New("local auth: users repository required")
	}
	if len(opts.Secret) == 0 {
		return nil, errors.New("local auth: secret required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.SignInRate <= 0 {
		opts.SignInRate = 0.2
	}
	if opts.SignInBurst <= 0 {
		opts.SignInBurst = 5
	}
	if opts.Revocations == nil {
		opts.Revocations = revocation.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	return &Provider{
		users:    users,
		secret:   opts.Secret,
		ttl:      opts.TokenTTL,
		cost:     opts.BcryptCost,
		revoked:  opts.Revocations,
		log:      opts.Logger.With(map[string]any{"component": "auth.local"}),
		limit:    rate.Limit(opts.SignInRate),
		burst:    opts.SignInBurst,
		limiters: cache.New(30*time.Minute, 10*time.Minute),
		hub:      pubsub.NewSimpleHub(nil),
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (auth.Session, error) {
	email = accounts.NormalizeEmail(email)
	if !forms.LooksLikeEmail(email) {
		return auth.Session{}, auth.NewError(auth.CodeInvalidEmail)
	}
	if len(password) < accounts.MinPasswordLength {
		return auth.Session{}, auth.NewError(auth.CodeWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		// bcrypt rechaza contraseñas de más de 72 bytes.
		return auth.Session{}, &auth.Error{Code: auth.CodeWeakPassword, Err: err}
	}

	u := accounts.User{
		ID:           p.newID(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.users.Create(ctx, u); err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			return auth.Session{}, &auth.Error{Code: auth.CodeEmailAlreadyInUse, Err: err}
		}
		return auth.Session{}, fmt.Errorf("local auth: create user: %w", err)
	}

	p.log.Info("user signed up", map[string]any{"user_id": u.ID})
	return p.issue(u)
}

// SignIn no distingue email inexistente de contraseña incorrecta.
func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	email = accounts.NormalizeEmail(email)
	if !forms.LooksLikeEmail(email) {
		return auth.Session{}, auth.NewError(auth.CodeInvalidEmail)
	}
	if !p.limiterFor(email).Allow() {
		p.log.Warn("sign-in throttled", map[string]any{"email": email})
		return auth.Session{}, auth.NewError(auth.CodeTooManyRequests)
	}

	u, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return auth.Session{}, &auth.Error{Code: auth.CodeInvalidCredential, Err: err}
		}
		return auth.Session{}, fmt.Errorf("local auth: load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return auth.Session{}, &auth.Error{Code: auth.CodeInvalidCredential, Err: err}
	}

	return p.issue(u)
}

// SignOut revoca el token y avisa a los suscriptores. Un token inválido o
// vencido ya está cerrado: no es error.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	tc, err := p.parse(token)
	if err != nil {
		return nil
	}

	until := p.now()
	if tc.ExpiresAt != nil {
		until = tc.ExpiresAt.Time
	}
	if err := p.revoked.Revoke(ctx, tc.ID, until); err != nil {
		return fmt.Errorf("local auth: revoke: %w", err)
	}

	p.publish(token, nil)
	p.log.Info("user signed out", map[string]any{"user_id": tc.Subject})
	return nil
}

// Verify valida firma, vencimiento y revocación.
func (p *Provider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	tc, err := p.parse(token)
	if err != nil {
		return auth.Claims{}, &auth.Error{Code: auth.CodeInvalidToken, Err: err}
	}

	revoked, err := p.revoked.IsRevoked(ctx, tc.ID)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("local auth: revocation lookup: %w", err)
	}
	if revoked {
		return auth.Claims{}, auth.NewError(auth.CodeInvalidToken)
	}

	return auth.Claims{UserID: tc.Subject, Email: tc.Email, DisplayName: tc.Name}, nil
}

// Subscribe entrega el estado actual del token y luego cada cambio.
// Al vencer el token se notifica nil.
func (p *Provider) Subscribe(token string, fn func(*auth.Identity)) func() {
	unsub := p.hub.Subscribe(topicPrefix+token, func(_ string, data interface{}) {
		id, _ := data.(*auth.Identity)
		fn(id)
	})

	var (
		expiry *time.Timer
		cur    *auth.Identity
	)
	if claims, err := p.Verify(context.Background(), token); err == nil {
		id := claims.Identity()
		cur = &id
		if tc, err := p.parse(token); err == nil && tc.ExpiresAt != nil {
			expiry = time.AfterFunc(tc.ExpiresAt.Sub(p.now()), func() { fn(nil) })
		}
	}
	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			if expiry != nil {
				expiry.Stop()
			}
			unsub()
		})
	}
}

func (p *Provider) publish(token string, id *auth.Identity) {
	p.hub.Publish(topicPrefix+token, id)
}

func (p *Provider) limiterFor(email string) *rate.Limiter {
	p.limMu.Lock()
	defer p.limMu.Unlock()

	if v, ok := p.limiters.Get(email); ok {
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(p.limit, p.burst)
	p.limiters.SetDefault(email, l)
	return l
}
