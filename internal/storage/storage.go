package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orgball2608/elixir/internal/domain"
)

var (
	ErrEmptyObject   = errors.New("object is empty")
	ErrTooLarge      = errors.New("object exceeds upload limit")
	ErrAlreadyExists = errors.New("object key already taken")
	ErrNotFound      = errors.New("object not found")
)

// PublicPath is the route public objects are served from.
const PublicPath = "/storage/v1/object/public"

//go:generate go run go.uber.org/mock/mockgen -source=storage.go -destination=mocks/mock.go
type Client interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error
	PublicURL(bucket, key string) string
	Download(ctx context.Context, bucket, key string) (*domain.Object, error)
}

// ObjectKey derives a storage key from a base name and a timestamp.
// Two uploads of the same name within one millisecond collide.
func ObjectKey(name string, at time.Time) string {
	return fmt.Sprintf("%s-%d", SanitizeKey(name), at.UnixMilli())
}

// SanitizeKey maps name onto [A-Za-z0-9._-] so keys need no URL escaping.
func SanitizeKey(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload"
	}
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// PublicPrefix is the URL every public object in bucket starts with.
func PublicPrefix(baseURL, bucket string) string {
	return strings.TrimRight(baseURL, "/") + PublicPath + "/" + bucket + "/"
}
