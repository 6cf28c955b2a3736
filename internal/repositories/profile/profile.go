package profile

import (
	"context"
	"errors"

	"github.com/orgball2608/elixir/internal/domain"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

// Update holds the fields the profile editor may change.
type Update struct {
	Bio       string
	AvatarURL string
}

//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=mocks/mock.go
type Repository interface {
	Create(ctx context.Context, profile domain.Profile) error
	GetByUserID(ctx context.Context, userID domain.Identity) (*domain.Profile, error)
	Update(ctx context.Context, userID domain.Identity, update Update) error
}
