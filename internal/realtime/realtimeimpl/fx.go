package realtimeimpl

import (
	"github.com/orgball2608/elixir/internal/realtime"
	"go.uber.org/fx"
)

var Module = fx.Module("realtime",
	fx.Provide(fx.Annotate(New, fx.As(new(realtime.Client)))),
)
