package realtimeimpl

import (
	"testing"

	"github.com/orgball2608/elixir/internal/realtime"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	var got []realtime.Event
	handler := func(ev realtime.Event) { got = append(got, ev) }
	log := logger.NewNop()

	assert.True(t, dispatch(log, `{"table":"posts","type":"INSERT","record":{"id":1}}`, "posts", realtime.Insert, handler))
	assert.False(t, dispatch(log, `{"table":"posts","type":"UPDATE","record":{"id":1}}`, "posts", realtime.Insert, handler))
	assert.False(t, dispatch(log, `{"table":"profiles","type":"INSERT","record":{"user_id":"u1"}}`, "posts", realtime.Insert, handler))
	assert.False(t, dispatch(log, `garbage`, "posts", realtime.Insert, handler))

	require.Len(t, got, 1)
	assert.JSONEq(t, `{"id":1}`, string(got[0].Record))
}

func TestSubscription_UnsubscribeTwice(t *testing.T) {
	done := make(chan struct{})
	cancelled := 0
	sub := &subscription{
		cancel: func() {
			cancelled++
			close(done)
		},
		done: done,
	}

	sub.Unsubscribe()
	sub.Unsubscribe()

	assert.Equal(t, 1, cancelled)
}
