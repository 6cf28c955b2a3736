package ratelimit

import (
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/pkg/config"
	"go.uber.org/fx"
)

var Module = fx.Module("ratelimit",
	fx.Provide(
		fx.Annotate(
			func(cfg *config.Config, clock clockwork.Clock) *InMemoryLimiter {
				return NewInMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Per, cfg.RateLimit.Burst, clock)
			},
			fx.As(new(Limiter)),
		),
	),
)
