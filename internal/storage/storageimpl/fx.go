package storageimpl

import (
	"github.com/orgball2608/elixir/internal/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("storage",
	fx.Provide(fx.Annotate(New, fx.As(new(storage.Client)))),
)
