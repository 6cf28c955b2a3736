package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/like"
	"github.com/orgball2608/elixir/internal/observability"
	"github.com/orgball2608/elixir/internal/realtime"
	"github.com/orgball2608/elixir/internal/repositories/post"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/samber/lo"
)

// PostsTable is the table live updates are taken from.
const PostsTable = "posts"

var (
	ErrClosed        = errors.New("feed closed")
	ErrScopeChanged  = errors.New("feed scope changed while loading")
	ErrPostNotInFeed = errors.New("post is not in this feed")
)

// Scope selects which posts a feed shows. The zero Scope is the global feed.
type Scope struct {
	AuthorID domain.Identity
}

func Global() Scope { return Scope{} }

func Author(id domain.Identity) Scope { return Scope{AuthorID: id} }

func (s Scope) IsGlobal() bool { return s.AuthorID.IsZero() }

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return "author"
}

type Options struct {
	// OnInsert is called after a live insert has been prepended.
	OnInsert func(domain.Post)
}

type Factory struct {
	posts    post.Repository
	realtime realtime.Client
	likes    *like.Toggler
	logger   logger.Logger
}

func NewFactory(posts post.Repository, rt realtime.Client, likes *like.Toggler, log logger.Logger) *Factory {
	return &Factory{
		posts:    posts,
		realtime: rt,
		likes:    likes,
		logger:   log.WithComponent("Feed"),
	}
}

// Feed is an in-memory list of posts, newest id first, kept current by
// live inserts when it shows the global scope. Every deferred completion
// is tagged with the generation it started in and dropped once the scope
// changes or the feed is closed.
type Feed struct {
	posts    post.Repository
	realtime realtime.Client
	likes    *like.Toggler
	logger   logger.Logger
	opts     Options
	liveCtx  context.Context

	mu         sync.Mutex
	scope      Scope
	items      []domain.Post
	generation uint64
	closed     bool
	sub        realtime.Subscription
}

// Open creates a feed for scope and runs the initial load. A failed load
// still returns a usable, empty feed next to the error.
func (f *Factory) Open(ctx context.Context, scope Scope, opts Options) (*Feed, error) {
	fd := &Feed{
		posts:    f.posts,
		realtime: f.realtime,
		likes:    f.likes,
		logger:   f.logger,
		opts:     opts,
		liveCtx:  context.WithoutCancel(ctx),
	}
	return fd, fd.SetScope(ctx, scope)
}

// SetScope drops the current items and reloads for scope.
func (f *Feed) SetScope(ctx context.Context, scope Scope) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.generation++
	gen := f.generation
	f.scope = scope
	f.items = nil
	prev := f.sub
	f.sub = nil
	f.mu.Unlock()

	if prev != nil {
		prev.Unsubscribe()
	}

	if scope.IsGlobal() {
		f.subscribe(gen)
	}

	return f.load(ctx, gen, scope)
}

// subscribe runs before the initial load so inserts committed while the
// load is in flight are not missed.
func (f *Feed) subscribe(gen uint64) {
	sub, err := f.realtime.Subscribe(f.liveCtx, PostsTable, realtime.Insert, f.onEvent(gen))
	if err != nil {
		f.logger.Warn("Live updates unavailable", "error", err)
		return
	}

	f.mu.Lock()
	if f.closed || f.generation != gen {
		f.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	f.sub = sub
	f.mu.Unlock()
}

func (f *Feed) load(ctx context.Context, gen uint64, scope Scope) error {
	start := time.Now()
	loaded, err := f.posts.List(ctx, post.Filter{AuthorID: scope.AuthorID})
	observability.FeedLoadDuration.WithLabelValues(scope.String()).Observe(time.Since(start).Seconds())

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if f.generation != gen {
		return ErrScopeChanged
	}
	if err != nil {
		// Rows that arrived live during the failed load are dropped too.
		f.items = nil
		f.logger.Error("Failed to load feed", "scope", scope.String(), "error", err)
		return fmt.Errorf("failed to load feed: %w", err)
	}

	// Anything prepended live during the load stays in front unless the
	// load already returned it.
	loadedIDs := lo.SliceToMap(loaded, func(p domain.Post) (int64, struct{}) { return p.ID, struct{}{} })
	live := lo.Filter(f.items, func(p domain.Post, _ int) bool {
		_, ok := loadedIDs[p.ID]
		return !ok
	})
	f.items = append(live, loaded...)

	f.logger.Debug("Feed loaded", "scope", scope.String(), "posts", len(loaded))
	return nil
}

// onEvent prepends inserted rows as they arrive, without their author summary.
func (f *Feed) onEvent(gen uint64) realtime.Handler {
	return func(ev realtime.Event) {
		var row domain.PostRow
		if err := json.Unmarshal(ev.Record, &row); err != nil {
			f.logger.Warn("Dropping undecodable post row", "error", err)
			return
		}
		p := row.Post()

		f.mu.Lock()
		if f.closed || f.generation != gen || f.indexOf(p.ID) >= 0 {
			f.mu.Unlock()
			return
		}
		f.items = append([]domain.Post{p}, f.items...)
		onInsert := f.opts.OnInsert
		f.mu.Unlock()

		if onInsert != nil {
			onInsert(p)
		}
	}
}

// Like adds viewer to the like set of the post with id and, once the
// backend acknowledges it, reflects the stored set in the feed.
func (f *Feed) Like(ctx context.Context, id int64, viewer domain.Identity) (like.Result, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return like.Result{}, ErrClosed
	}
	gen := f.generation
	i := f.indexOf(id)
	if i < 0 {
		f.mu.Unlock()
		return like.Result{}, ErrPostNotInFeed
	}
	p := f.items[i]
	f.mu.Unlock()

	res, err := f.likes.Toggle(ctx, p, viewer)
	if err != nil || res.Outcome != like.Liked {
		return res, err
	}

	f.mu.Lock()
	if !f.closed && f.generation == gen {
		if i := f.indexOf(id); i >= 0 {
			f.items[i] = f.items[i].WithLikes(res.Post.Likes)
		}
	}
	f.mu.Unlock()

	return res, nil
}

// Posts returns a copy of the current items.
func (f *Feed) Posts() []domain.Post {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Post, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Get(id int64) (domain.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(id)
	if i < 0 {
		return domain.Post{}, false
	}
	return f.items[i], true
}

func (f *Feed) Scope() Scope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scope
}

// Close releases the live subscription. Completions still in flight are discarded.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.generation++
	f.items = nil
	sub := f.sub
	f.sub = nil
	f.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

func (f *Feed) indexOf(id int64) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}
