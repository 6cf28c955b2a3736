package janitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	mock_object "github.com/orgball2608/elixir/internal/repositories/object/mocks"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newJanitor(t *testing.T) (*Janitor, *mock_object.MockRepository) {
	objects := mock_object.NewMockRepository(gomock.NewController(t))

	cfg := &config.Config{}
	cfg.Storage.Bucket = "taskimages"
	cfg.Storage.PublicBaseURL = "http://localhost:8080/"
	cfg.Janitor.Retention = 24 * time.Hour
	cfg.Janitor.Hour = 3
	cfg.Janitor.Timezone = "UTC"

	return New(Opts{
		Objects: objects,
		Config:  cfg,
		Clock:   clockwork.NewFakeClockAt(now),
		Logger:  logger.NewNop(),
	}), objects
}

func TestSweep(t *testing.T) {
	j, objects := newJanitor(t)

	objects.EXPECT().
		DeleteOrphans(gomock.Any(), "taskimages", "http://localhost:8080/storage/v1/object/public/taskimages/", now.Add(-24*time.Hour)).
		Return(int64(4), nil)

	deleted, err := j.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}

func TestSweep_Error(t *testing.T) {
	j, objects := newJanitor(t)

	objects.EXPECT().DeleteOrphans(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("locked"))

	_, err := j.Sweep(context.Background())
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	j, _ := newJanitor(t)

	require.NoError(t, j.Stop())
	require.NoError(t, j.Start(context.Background()))
	require.NoError(t, j.Stop())
}
