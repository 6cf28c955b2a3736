package fx

import (
	"github.com/orgball2608/elixir/internal/repositories/credential"
	"github.com/orgball2608/elixir/internal/repositories/object"
	"github.com/orgball2608/elixir/internal/repositories/post"
	"github.com/orgball2608/elixir/internal/repositories/profile"
	"go.uber.org/fx"
)

var Module = fx.Options(
	post.Module,
	profile.Module,
	credential.Module,
	object.Module,
)
