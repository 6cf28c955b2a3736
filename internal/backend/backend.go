// Package backend assembles the adapters every component talks to: auth,
// tables, object storage and realtime. It is the one place that knows they
// all live in postgres, with redis in front of profiles.
package backend

import (
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/auth/authimpl"
	"github.com/orgball2608/elixir/internal/realtime/realtimeimpl"
	repositories "github.com/orgball2608/elixir/internal/repositories/fx"
	"github.com/orgball2608/elixir/internal/storage/storageimpl"
	"github.com/orgball2608/elixir/pkg/pgx"
	"github.com/orgball2608/elixir/pkg/redis"
	"go.uber.org/fx"
)

var Module = fx.Module("backend",
	fx.Provide(
		pgx.New,
		redis.New,
		clockwork.NewRealClock,
	),
	repositories.Module,
	authimpl.Module,
	storageimpl.Module,
	realtimeimpl.Module,
)
