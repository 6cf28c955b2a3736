package composer

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/observability"
	"github.com/orgball2608/elixir/internal/repositories/post"
	"github.com/orgball2608/elixir/internal/storage"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/errors"
	"github.com/orgball2608/elixir/pkg/logger"
	"go.uber.org/fx"
)

var (
	ErrAuthRequired = errors.New(errors.CodeAuthRequired, "login required to create posts")
	ErrEmptyText    = errors.New(errors.CodeValidation, "post text is required")
)

type Opts struct {
	fx.In

	Posts   post.Repository
	Storage storage.Client
	Config  *config.Config
	Clock   clockwork.Clock
	Logger  logger.Logger
}

type Composer struct {
	posts   post.Repository
	storage storage.Client
	bucket  string
	clock   clockwork.Clock
	logger  logger.Logger
}

func New(opts Opts) *Composer {
	return &Composer{
		posts:   opts.Posts,
		storage: opts.Storage,
		bucket:  opts.Config.Storage.Bucket,
		clock:   opts.Clock,
		logger:  opts.Logger.WithComponent("Composer"),
	}
}

// CreatePost uploads image, if any, and then inserts the post. A failed
// upload aborts before anything is written. Callers refresh their own feeds.
func (c *Composer) CreatePost(ctx context.Context, text string, image *domain.Upload, author domain.Identity) (*domain.Post, error) {
	if author.IsZero() {
		return nil, ErrAuthRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	var imageURL string
	if image != nil {
		key := storage.ObjectKey(image.Filename, c.clock.Now())
		if err := c.storage.Upload(ctx, c.bucket, key, image.Data, image.ContentType); err != nil {
			observability.PostsCreatedTotal.WithLabelValues("upload_failed").Inc()
			c.logger.Error("Failed to upload post image", "key", key, "error", err)
			return nil, errors.WrapWithCode(err, errors.CodeUpload, "failed to upload image")
		}
		imageURL = c.storage.PublicURL(c.bucket, key)
	}

	created, err := c.posts.Create(ctx, domain.Post{
		Text:     text,
		ImageURL: imageURL,
		AuthorID: author,
		Likes:    []domain.Identity{},
	})
	if err != nil {
		observability.PostsCreatedTotal.WithLabelValues("failed").Inc()
		c.logger.Error("Failed to create post", "author", author, "error", err)
		return nil, errors.WrapWithCode(err, errors.CodeQuery, "failed to create post")
	}

	observability.PostsCreatedTotal.WithLabelValues("created").Inc()
	c.logger.Info("Post created", "id", created.ID, "author", author, "with_image", imageURL != "")
	return created, nil
}
