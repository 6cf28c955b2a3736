package commandimpl

import (
	"sync"

	"github.com/orgball2608/elixir/internal/account"
	"github.com/orgball2608/elixir/internal/command"
	"github.com/orgball2608/elixir/internal/composer"
	"github.com/orgball2608/elixir/internal/feed"
	"github.com/orgball2608/elixir/internal/profileedit"
	"github.com/orgball2608/elixir/internal/ratelimit"
	"github.com/orgball2608/elixir/internal/session"
	"github.com/orgball2608/elixir/internal/telegram"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram telegram.Client
	Session  *session.Store
	Accounts *account.Service
	Feeds    *feed.Factory
	Composer *composer.Composer
	Profiles *profileedit.Editor
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	Session  *session.Store
	Accounts *account.Service
	Feeds    *feed.Factory
	Composer *composer.Composer
	Profiles *profileedit.Editor
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
	Config   *config.Config

	// view is the feed the owner is currently looking at, like a page in a browser.
	mu   sync.Mutex
	view *feed.Feed
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram: opts.Telegram,
		Session:  opts.Session,
		Accounts: opts.Accounts,
		Feeds:    opts.Feeds,
		Composer: opts.Composer,
		Profiles: opts.Profiles,
		Limiter:  opts.Limiter,
		Logger:   opts.Logger.WithComponent("Command"),
		Config:   opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)

// Close releases the current feed view.
func (c *CommandImpl) Close() {
	c.mu.Lock()
	view := c.view
	c.view = nil
	c.mu.Unlock()

	if view != nil {
		view.Close()
	}
}
