package janitor

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("janitor",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, j *Janitor) {
		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return j.Start(ctx)
			},
			OnStop: func(context.Context) error {
				cancel()
				return j.Stop()
			},
		})
	}),
)
