package post

import (
	"context"
	"errors"

	"github.com/orgball2608/elixir/internal/domain"
)

var (
	ErrNotFound     = errors.New("post not found")
	ErrCannotCreate = errors.New("error create post")
)

// Filter narrows List. A zero Filter selects every post.
type Filter struct {
	AuthorID domain.Identity
}

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	// List returns posts joined with their author's profile, newest id first.
	List(ctx context.Context, filter Filter) ([]domain.Post, error)

	// Create inserts a post and returns it with its assigned id.
	Create(ctx context.Context, post domain.Post) (*domain.Post, error)

	// AddLike adds userID to the post's like set if absent and returns the stored set.
	AddLike(ctx context.Context, id int64, userID domain.Identity) ([]domain.Identity, error)
}
