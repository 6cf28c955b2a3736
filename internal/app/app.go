package app

import (
	"context"
	"errors"

	"github.com/orgball2608/elixir/internal/account"
	"github.com/orgball2608/elixir/internal/backend"
	"github.com/orgball2608/elixir/internal/command"
	"github.com/orgball2608/elixir/internal/command/commandimpl"
	"github.com/orgball2608/elixir/internal/composer"
	"github.com/orgball2608/elixir/internal/db"
	"github.com/orgball2608/elixir/internal/feed"
	"github.com/orgball2608/elixir/internal/janitor"
	"github.com/orgball2608/elixir/internal/like"
	"github.com/orgball2608/elixir/internal/profileedit"
	"github.com/orgball2608/elixir/internal/ratelimit"
	"github.com/orgball2608/elixir/internal/server"
	"github.com/orgball2608/elixir/internal/session"
	"github.com/orgball2608/elixir/internal/telegram"
	"github.com/orgball2608/elixir/internal/telegram/telegramimpl"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/orgball2608/elixir/pkg/retry"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
	),
	fx.Invoke(func(cfg *config.Config, log logger.Logger) error {
		if err := db.Migrate(cfg); err != nil {
			return err
		}
		log.Info("Migrations applied")
		return nil
	}),
	backend.Module,
	session.Module,
	like.Module,
	feed.Module,
	composer.Module,
	profileedit.Module,
	account.Module,
	ratelimit.Module,
	telegramimpl.Module,
	fx.Provide(
		commandimpl.New,
		func(c *commandimpl.CommandImpl) command.Client { return c },
	),
	janitor.Module,
	server.Module,
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, log logger.Logger, tgClient telegram.Client, cmdClient command.Client, cmd *commandimpl.CommandImpl) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				err := retry.Do(ctx, log, "HandleCommand", func() error {
					err := cmdClient.HandleCommand(ctx)
					if ctx.Err() != nil {
						return retry.Permanent(ctx.Err())
					}
					return err
				}, retry.ReconnectConfig())
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Error("Command handler stopped", "error", err)
				}
			}()

			tgClient.NotifyOwner("✨ Elixir is up\\. Type /help to start\\.")
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			cmd.Close()
			return nil
		},
	})
}
