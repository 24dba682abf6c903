package local

import (
	"errors"
	"fmt"
	"time"

	"denti-directory/internal/domain/accounts"
	"denti-directory/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (p *Provider) issue(u accounts.User) (auth.Session, error) {
	now := p.now()
	exp := now.Add(p.ttl)

	claims := tokenClaims{
		Email: u.Email,
		Name:  u.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        p.newID(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return auth.Session{}, fmt.Errorf("local auth: sign token: %w", err)
	}

	return auth.Session{
		Token:     signed,
		ExpiresAt: exp,
		Identity:  auth.Identity{UID: u.ID, Email: u.Email, DisplayName: u.DisplayName},
	}, nil
}

func (p *Provider) parse(token string) (*tokenClaims, error) {
	tc := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, tc,
		func(*jwt.Token) (interface{}, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if tc.Subject == "" || tc.ID == "" {
		return nil, errors.New("token without subject or id")
	}
	return tc, nil
}

// TokenTTL es la vigencia de las sesiones; la vista web la usa para la cookie.
func (p *Provider) TokenTTL() time.Duration {
	return p.ttl
}
