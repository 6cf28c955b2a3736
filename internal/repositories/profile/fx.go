package profile

import (
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	NewPgxRepository,
	func(pg *PgxRepository, client *redis.Client, cfg *config.Config, log logger.Logger) Repository {
		if client == nil {
			return pg
		}
		return NewCachedRepository(client, pg, cfg.Redis.TTL, log)
	},
)
