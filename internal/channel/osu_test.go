package channel_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/channel"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
	"github.com/sensorhandler/sensorhandler/internal/sink"
)

func TestOsu_Decode(t *testing.T) {
	type step struct {
		payload string
		want    []sink.Event
		wantErr bool
	}
	cases := []struct {
		name  string
		steps []step
	}{
		{
			name: "bit 2 is outside the table",
			steps: []step{
				{payload: "5", want: []sink.Event{sink.Press(keycode.KeyZ)}},
			},
		},
		{
			name: "both keys on the first frame",
			steps: []step{
				{payload: "3", want: []sink.Event{sink.Press(keycode.KeyZ), sink.Press(keycode.KeyX)}},
			},
		},
		{
			name: "repeat frame is idempotent",
			steps: []step{
				{payload: "2", want: []sink.Event{sink.Press(keycode.KeyX)}},
				{payload: "2"},
				{payload: "0", want: []sink.Event{sink.Release(keycode.KeyX)}},
			},
		},
		{
			name: "malformed frames keep state",
			steps: []step{
				{payload: "1", want: []sink.Event{sink.Press(keycode.KeyZ)}},
				{payload: "abc", wantErr: true},
				{payload: "256", wantErr: true},
				{payload: "-1", wantErr: true},
				{payload: "1"},
				{payload: "0", want: []sink.Event{sink.Release(keycode.KeyZ)}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			osu := channel.NewOsu("osu")
			for i, s := range tc.steps {
				got, err := osu.Decode(s.payload)
				if s.wantErr {
					require.Error(t, err, "step %d", i)
					assert.True(t, errors.Is(err, channel.ErrDecode))
					assert.True(t, errors.Is(err, bitmask.ErrInvalidMask))
					continue
				}
				require.NoError(t, err, "step %d", i)
				assert.Equal(t, s.want, got, "step %d", i)
			}
		})
	}
}

func TestOsu_Profile(t *testing.T) {
	p := channel.NewOsu("Virtual osu! input").Profile()
	assert.Equal(t, "Virtual osu! input", p.Name)
	assert.Equal(t, []uint16{keycode.KeyZ, keycode.KeyX}, p.Keys)
	assert.Empty(t, p.RelAxes)
}

func TestOsu_Release(t *testing.T) {
	osu := channel.NewOsu("osu")
	_, err := osu.Decode("3")
	require.NoError(t, err)
	assert.Equal(t, []sink.Event{sink.Release(keycode.KeyZ), sink.Release(keycode.KeyX)}, osu.Release())
	assert.Empty(t, osu.Release())
}
