package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/orgball2608/elixir/internal/domain"
)

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("user already registered")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidEmail       = errors.New("unable to validate email address: invalid format")
	ErrNoSession          = errors.New("no active session")
)

type Listener func(domain.AuthEvent)

type Subscription interface {
	Unsubscribe()
}

//go:generate go run go.uber.org/mock/mockgen -source=auth.go -destination=mocks/mock.go
type Client interface {
	// SignUp registers the account and signs it in.
	SignUp(ctx context.Context, email, password string) (domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
	SignOut(ctx context.Context) error
	// CurrentSession returns ErrNoSession when nobody is signed in.
	CurrentSession(ctx context.Context) (domain.Identity, error)
	// OnAuthStateChange calls listener for every sign-in and sign-out until unsubscribed.
	OnAuthStateChange(listener Listener) Subscription
}

// NormalizeEmail lower-cases and trims an address before lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateCredentials(email, password string) error {
	if !govalidator.IsEmail(email) {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
