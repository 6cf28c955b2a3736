package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/feed"
	"github.com/orgball2608/elixir/internal/like"
)

// openView points the current view at scope, opening it on first use.
func (c *CommandImpl) openView(ctx context.Context, scope feed.Scope) (*feed.Feed, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view == nil {
		view, err := c.Feeds.Open(ctx, scope, feed.Options{OnInsert: c.onLiveInsert})
		c.view = view
		return view, err
	}
	return c.view, c.view.SetScope(ctx, scope)
}

func (c *CommandImpl) currentView() *feed.Feed {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *CommandImpl) showFeed(ctx context.Context, chatID int64, scope feed.Scope, title string) error {
	view, err := c.openView(ctx, scope)
	if err != nil {
		c.Logger.Warn("Feed load failed", "scope", scope.String(), "error", err)
		return c.reply(chatID, "❌ Could not load posts right now.")
	}

	_, err = c.Telegram.SendMarkdown(chatID, renderFeed(title, view.Posts(), c.Config.Feed.PageSize))
	return err
}

func (c *CommandImpl) handleFeed(ctx context.Context, chatID int64) error {
	return c.showFeed(ctx, chatID, feed.Global(), "Latest posts")
}

func (c *CommandImpl) handleUser(ctx context.Context, chatID int64, args string) error {
	id := domain.Identity(strings.TrimSpace(args))
	if id.IsZero() {
		return c.reply(chatID, "Usage: /user <user id>")
	}

	p, err := c.Accounts.ViewProfile(ctx, id)
	if err != nil {
		return c.replyError(chatID, err)
	}
	if _, err := c.Telegram.SendMarkdown(chatID, renderProfile(*p)); err != nil {
		return err
	}

	return c.showFeed(ctx, chatID, feed.Author(id), "Posts by @"+p.Username)
}

func (c *CommandImpl) handleLike(ctx context.Context, chatID int64, args string) error {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(args), "#"), 10, 64)
	if err != nil {
		return c.reply(chatID, "Usage: /like <post id>")
	}

	viewer, err := c.viewer(ctx)
	if err != nil {
		return c.replyError(chatID, err)
	}

	view := c.currentView()
	if view == nil {
		if view, err = c.openView(ctx, feed.Global()); err != nil {
			return c.reply(chatID, "❌ Could not load posts right now.")
		}
	}

	res, err := view.Like(ctx, id, viewer)
	switch {
	case errors.Is(err, feed.ErrPostNotInFeed):
		return c.reply(chatID, fmt.Sprintf("Post #%d is not in the current feed. Open it with /feed or /user first.", id))
	case err != nil:
		return c.replyError(chatID, err)
	case res.Outcome == like.AlreadyLiked:
		return c.reply(chatID, fmt.Sprintf("You already like post #%d.", id))
	}

	_, err = c.Telegram.SendMarkdown(chatID, renderLiked(res.Post))
	return err
}

// onLiveInsert pushes posts that appear on the global feed to the owner.
func (c *CommandImpl) onLiveInsert(p domain.Post) {
	text := renderNewPost(p)
	if p.ImageURL == "" {
		c.Telegram.NotifyOwner(text)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Telegram.SendPhotoByURL(ctx, c.Config.Telegram.User, p.ImageURL, text); err != nil {
		c.Logger.Warn("Falling back to text for new post", "post_id", p.ID, "error", err)
		c.Telegram.NotifyOwner(text)
	}
}
