package redis

import (
	"context"
	"fmt"

	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC     fx.Lifecycle
	Logger logger.Logger
	Config *config.Config
}

// New returns a redis client, or nil when the cache is disabled.
func New(opts Opts) (*goredis.Client, error) {
	if opts.Config.Redis.Disabled {
		opts.Logger.Info("Redis disabled, profile cache off")
		return nil, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Config.Redis.Addr,
		Password: opts.Config.Redis.Pass,
		DB:       opts.Config.Redis.DB,
	})

	opts.LC.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("failed to ping redis: %w", err)
				}
				opts.Logger.Info("Connected to redis", "addr", opts.Config.Redis.Addr)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		},
	)

	return client, nil
}
