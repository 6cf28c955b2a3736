package feed

import "go.uber.org/fx"

var Module = fx.Module("feed",
	fx.Provide(NewFactory),
)
