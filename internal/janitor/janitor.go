package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/repositories/object"
	"github.com/orgball2608/elixir/internal/storage"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"go.uber.org/fx"
)

const sweepTimeout = 5 * time.Minute

type Opts struct {
	fx.In

	Objects object.Repository
	Config  *config.Config
	Clock   clockwork.Clock
	Logger  logger.Logger
}

// Janitor deletes uploads nothing points at, such as the image of a post
// whose insert failed or an avatar that was replaced.
type Janitor struct {
	objects   object.Repository
	bucket    string
	prefix    string
	retention time.Duration
	hour      uint
	timezone  string
	clock     clockwork.Clock
	logger    logger.Logger

	scheduler gocron.Scheduler
}

func New(opts Opts) *Janitor {
	return &Janitor{
		objects:   opts.Objects,
		bucket:    opts.Config.Storage.Bucket,
		prefix:    storage.PublicPrefix(opts.Config.Storage.PublicBaseURL, opts.Config.Storage.Bucket),
		retention: opts.Config.Janitor.Retention,
		hour:      opts.Config.Janitor.Hour,
		timezone:  opts.Config.Janitor.Timezone,
		clock:     opts.Clock,
		logger:    opts.Logger.WithComponent("Janitor"),
	}
}

// Sweep removes orphaned objects older than the retention window.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	olderThan := j.clock.Now().Add(-j.retention)

	deleted, err := j.objects.DeleteOrphans(ctx, j.bucket, j.prefix, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned objects: %w", err)
	}
	return deleted, nil
}

// Start schedules Sweep once a day at the configured hour.
func (j *Janitor) Start(ctx context.Context) error {
	loc, err := time.LoadLocation(j.timezone)
	if err != nil {
		loc = time.Local
		j.logger.Warn("Failed to load timezone, using local timezone", "timezone", j.timezone, "error", err)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc), gocron.WithClock(j.clock))
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(j.hour, 0, 0))),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}

			j.logger.Info("Starting scheduled storage cleanup")

			sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
			defer cancel()

			deleted, err := j.Sweep(sweepCtx)
			if err != nil {
				j.logger.Error("Storage cleanup failed", "error", err)
				return
			}
			j.logger.Info("Storage cleanup completed", "objects_deleted", deleted)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule storage cleanup: %w", err)
	}

	scheduler.Start()
	j.scheduler = scheduler
	return nil
}

func (j *Janitor) Stop() error {
	if j.scheduler == nil {
		return nil
	}
	if err := j.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down cleanup scheduler: %w", err)
	}
	return nil
}
