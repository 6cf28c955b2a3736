package telegramimpl

import (
	"testing"

	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresOwner(t *testing.T) {
	cfg := &config.Config{}
	cfg.Telegram.Token = "123:abc"

	_, err := New(Opts{Config: cfg, Logger: logger.NewNop()})

	require.ErrorIs(t, err, ErrNoOwner)
}
