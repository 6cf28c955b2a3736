package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/elixir/internal/observability"
	"github.com/orgball2608/elixir/internal/storage"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	LC      fx.Lifecycle
	Config  *config.Config
	Logger  logger.Logger
	Storage storage.Client
	Pool    *pgxpool.Pool
	Redis   *redis.Client
}

func New(opts Opts) *http.Server {
	log := opts.Logger.WithComponent("HTTP")

	deps := map[string]observability.Pinger{"postgres": opts.Pool}
	if opts.Redis != nil {
		deps["redis"] = observability.PingerFunc(func(ctx context.Context) error {
			return opts.Redis.Ping(ctx).Err()
		})
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           NewRouter(opts.Storage, deps, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
			}

			log.Info("Starting server", "addr", srv.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(func(*http.Server) {}),
)
