package like

import (
	"context"

	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/observability"
	"github.com/orgball2608/elixir/internal/repositories/post"
	"github.com/orgball2608/elixir/pkg/errors"
	"github.com/orgball2608/elixir/pkg/logger"
)

// ErrAuthRequired is returned when there is no viewer. Callers should prompt for login.
var ErrAuthRequired = errors.New(errors.CodeAuthRequired, "login required to like posts")

type Outcome string

const (
	Liked        Outcome = "liked"
	AlreadyLiked Outcome = "already_liked"
	AuthRequired Outcome = "auth_required"
	Failed       Outcome = "failed"
)

// Result carries the post as it should be displayed after the attempt.
type Result struct {
	Post    domain.Post
	Outcome Outcome
}

// Toggler adds the viewer to a post's like set. There is no unlike.
type Toggler struct {
	posts  post.Repository
	logger logger.Logger
}

func New(posts post.Repository, log logger.Logger) *Toggler {
	return &Toggler{
		posts:  posts,
		logger: log.WithComponent("Like"),
	}
}

// Toggle writes the like first and reflects the stored set only once the
// write is acknowledged. On failure the returned post is p, unchanged.
func (t *Toggler) Toggle(ctx context.Context, p domain.Post, viewer domain.Identity) (Result, error) {
	if viewer.IsZero() {
		observability.LikesTotal.WithLabelValues(string(AuthRequired)).Inc()
		return Result{Post: p, Outcome: AuthRequired}, ErrAuthRequired
	}

	if p.HasLike(viewer) {
		observability.LikesTotal.WithLabelValues(string(AlreadyLiked)).Inc()
		return Result{Post: p, Outcome: AlreadyLiked}, nil
	}

	stored, err := t.posts.AddLike(ctx, p.ID, viewer)
	if err != nil {
		observability.LikesTotal.WithLabelValues(string(Failed)).Inc()
		t.logger.Warn("Failed to like post", "post_id", p.ID, "error", err)
		if errors.Is(err, post.ErrNotFound) {
			return Result{Post: p, Outcome: Failed}, errors.WrapWithCode(err, errors.CodeNotFound, "post not found")
		}
		return Result{Post: p, Outcome: Failed}, errors.WrapWithCode(err, errors.CodeQuery, "failed to like post")
	}

	observability.LikesTotal.WithLabelValues(string(Liked)).Inc()
	return Result{Post: p.WithLikes(stored), Outcome: Liked}, nil
}
