package credential

import (
	"context"
	"errors"

	"github.com/orgball2608/elixir/internal/domain"
)

var (
	ErrNotFound      = errors.New("credential not found")
	ErrAlreadyExists = errors.New("email already registered")
)

//go:generate go run go.uber.org/mock/mockgen -source=credential.go -destination=mocks/mock.go
type Repository interface {
	Create(ctx context.Context, cred domain.Credential) error
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
}
