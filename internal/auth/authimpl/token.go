package authimpl

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/auth"
	"github.com/orgball2608/elixir/internal/domain"
)

type tokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock
}

func (t *tokenIssuer) issue(id domain.Identity) (string, error) {
	now := t.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id.String(),
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// verify maps every invalid or expired token onto ErrNoSession.
func (t *tokenIssuer) verify(token string) (domain.Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil {
		return "", errors.Join(auth.ErrNoSession, fmt.Errorf("session token rejected: %w", err))
	}
	if claims.Subject == "" {
		return "", auth.ErrNoSession
	}
	return domain.Identity(claims.Subject), nil
}
