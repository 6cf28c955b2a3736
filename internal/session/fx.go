package session

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("session",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, store *Store) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				store.Start(ctx)
				return nil
			},
			OnStop: func(context.Context) error {
				store.Close()
				return nil
			},
		})
	}),
)
