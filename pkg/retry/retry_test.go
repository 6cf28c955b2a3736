package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fastConfig(retries uint64) Config {
	return Config{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      1,
	}
}

func TestDo_RetriesUntilLimit(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewNop(), "test", func() error {
		attempts++
		return errBoom
	}, fastConfig(2))

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 3, attempts)
}

func TestDo_SucceedsAfterFailure(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewNop(), "test", func() error {
		attempts++
		if attempts < 2 {
			return errBoom
		}
		return nil
	}, fastConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDo_PermanentStops(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewNop(), "test", func() error {
		attempts++
		return Permanent(errBoom)
	}, fastConfig(5))

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, attempts)
}

func TestDo_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, logger.NewNop(), "test", func() error {
		return errBoom
	}, fastConfig(0))

	require.Error(t, err)
}
