package like

import "go.uber.org/fx"

var Module = fx.Module("like",
	fx.Provide(New),
)
