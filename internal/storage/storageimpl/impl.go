package storageimpl

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/observability"
	"github.com/orgball2608/elixir/internal/repositories/object"
	"github.com/orgball2608/elixir/internal/storage"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Objects object.Repository
	Config  *config.Config
	Logger  logger.Logger
}

type StorageImpl struct {
	objects  object.Repository
	baseURL  string
	maxBytes int64
	logger   logger.Logger
}

func New(opts Opts) *StorageImpl {
	return &StorageImpl{
		objects:  opts.Objects,
		baseURL:  opts.Config.Storage.PublicBaseURL,
		maxBytes: opts.Config.Storage.MaxUploadBytes,
		logger:   opts.Logger.WithComponent("Storage"),
	}
}

var _ storage.Client = (*StorageImpl)(nil)

func (s *StorageImpl) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if len(data) == 0 {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		return storage.ErrEmptyObject
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: %d > %d bytes", storage.ErrTooLarge, len(data), s.maxBytes)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	err := s.objects.Put(ctx, domain.Object{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		observability.UploadsTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, object.ErrAlreadyExists) {
			return fmt.Errorf("%w: %s/%s", storage.ErrAlreadyExists, bucket, key)
		}
		return err
	}

	observability.UploadsTotal.WithLabelValues("stored").Inc()
	s.logger.Info("Object uploaded", "bucket", bucket, "key", key, "bytes", len(data), "content_type", contentType)
	return nil
}

func (s *StorageImpl) PublicURL(bucket, key string) string {
	return storage.PublicPrefix(s.baseURL, bucket) + key
}

func (s *StorageImpl) Download(ctx context.Context, bucket, key string) (*domain.Object, error) {
	obj, err := s.objects.Get(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return obj, nil
}
