package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	ev, err := Decode(`{"table":"posts","type":"INSERT","record":{"id":3,"text":"hi"}}`)
	require.NoError(t, err)

	assert.Equal(t, "posts", ev.Table)
	assert.Equal(t, Insert, ev.Kind)
	assert.JSONEq(t, `{"id":3,"text":"hi"}`, string(ev.Record))
	assert.True(t, ev.Matches("posts", Insert))
	assert.False(t, ev.Matches("posts", Update))
	assert.False(t, ev.Matches("profiles", Insert))
}

func TestDecode_Malformed(t *testing.T) {
	for _, payload := range []string{
		`not json`,
		`{"type":"INSERT","record":{}}`,
		`{"table":"posts","record":{}}`,
		`{"table":"posts","type":"INSERT"}`,
	} {
		_, err := Decode(payload)
		assert.ErrorIs(t, err, ErrMalformedEvent, payload)
	}
}
