package object

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/elixir/internal/domain"
)

var (
	ErrNotFound      = errors.New("object not found")
	ErrAlreadyExists = errors.New("object already exists")
)

//go:generate go run go.uber.org/mock/mockgen -source=object.go -destination=mocks/mock.go
type Repository interface {
	Put(ctx context.Context, obj domain.Object) error
	Get(ctx context.Context, bucket, key string) (*domain.Object, error)
	// DeleteOrphans removes objects in bucket created before olderThan whose
	// public URL (urlPrefix + key) is used by no post and no profile.
	DeleteOrphans(ctx context.Context, bucket, urlPrefix string, olderThan time.Time) (int64, error)
}
