package authimpl

import (
	"github.com/orgball2608/elixir/internal/auth"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(fx.Annotate(New, fx.As(new(auth.Client)))),
)
