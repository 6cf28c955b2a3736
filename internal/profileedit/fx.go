package profileedit

import "go.uber.org/fx"

var Module = fx.Module("profileedit",
	fx.Provide(New),
)
