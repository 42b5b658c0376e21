package channel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/channel"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
	"github.com/sensorhandler/sensorhandler/internal/sink"
)

func TestParseMouseFrame(t *testing.T) {
	cases := []struct {
		in   string
		want channel.MouseFrame
	}{
		{"3.0;-2.0;0;1", channel.MouseFrame{DX: 3, DY: -2, Buttons: bitmask.FromBits(0)}},
		{"1.5", channel.MouseFrame{DX: 1.5}},
		{"1;2", channel.MouseFrame{DX: 1, DY: 2}},
		{"x;2;y;z", channel.MouseFrame{DY: 2}},
		{";;-1;6", channel.MouseFrame{Wheel: -1, Buttons: bitmask.FromBits(1, 2)}},
		{"NaN;Inf;-Inf;1", channel.MouseFrame{Buttons: bitmask.FromBits(0)}},
		{"1;1;1;999", channel.MouseFrame{DX: 1, DY: 1, Wheel: 1}},
		{"", channel.MouseFrame{}},
		{"0;0;0;1;9", channel.MouseFrame{Buttons: bitmask.FromBits(0)}},
		{"2;3;1;4;x;y", channel.MouseFrame{DX: 2, DY: 3, Wheel: 1, Buttons: bitmask.FromBits(2)}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, channel.ParseMouseFrame(tc.in), "payload %q", tc.in)
	}
}

func TestMouse_DefaultMultipliers(t *testing.T) {
	m := channel.NewMouse("mouse", channel.DefaultMouseConfig())
	got, err := m.Decode("3.0;-2.0;0;1")
	require.NoError(t, err)
	assert.Equal(t, []sink.Event{
		sink.Rel(keycode.RelX, 24),
		sink.Rel(keycode.RelY, 16),
		sink.Press(keycode.BtnLeft),
	}, got)
}

func TestMouse_Decode(t *testing.T) {
	type step struct {
		payload string
		want    []sink.Event
	}
	cases := []struct {
		name  string
		cfg   channel.MouseConfig
		steps []step
	}{
		{
			name: "wheel and fractional truncation",
			cfg:  channel.DefaultMouseConfig(),
			steps: []step{
				{"0.1;0.25;0.55", []sink.Event{
					sink.Rel(keycode.RelX, 0),
					sink.Rel(keycode.RelY, -2),
					sink.Rel(keycode.RelWheel, 5),
				}},
			},
		},
		{
			name: "buttons are edge triggered independent of motion",
			cfg:  channel.DefaultMouseConfig(),
			steps: []step{
				{"0;0;0;3", []sink.Event{sink.Press(keycode.BtnLeft), sink.Press(keycode.BtnRight)}},
				{"1;0;0;3", []sink.Event{sink.Rel(keycode.RelX, 8)}},
				{"0;0;0;4", []sink.Event{
					sink.Release(keycode.BtnLeft),
					sink.Release(keycode.BtnRight),
					sink.Press(keycode.BtnMiddle),
				}},
				{"0;0;0;garbage", []sink.Event{sink.Release(keycode.BtnMiddle)}},
			},
		},
		{
			name: "middle button disabled",
			cfg:  channel.MouseConfig{AxisSpeed: 1, WheelSpeed: 1},
			steps: []step{
				{"0;0;0;7", []sink.Event{sink.Press(keycode.BtnLeft), sink.Press(keycode.BtnRight)}},
			},
		},
		{
			name: "saturates instead of overflowing",
			cfg:  channel.MouseConfig{AxisSpeed: 1e12, WheelSpeed: 1},
			steps: []step{
				{"1;1", []sink.Event{
					sink.Rel(keycode.RelX, math.MaxInt32),
					sink.Rel(keycode.RelY, math.MinInt32),
				}},
			},
		},
		{
			name: "trailing fields keep held button",
			cfg:  channel.DefaultMouseConfig(),
			steps: []step{
				{"0;0;0;1", []sink.Event{sink.Press(keycode.BtnLeft)}},
				{"0;0;0;1;9", nil},
				{"0;0;0;0;1", []sink.Event{sink.Release(keycode.BtnLeft)}},
			},
		},
		{
			name:  "empty frame emits nothing",
			cfg:   channel.DefaultMouseConfig(),
			steps: []step{{"0;0;0;0", nil}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := channel.NewMouse("mouse", tc.cfg)
			for i, s := range tc.steps {
				got, err := m.Decode(s.payload)
				require.NoError(t, err)
				assert.Equal(t, s.want, got, "step %d", i)
			}
		})
	}
}

func TestMouse_Profile(t *testing.T) {
	p := channel.NewMouse("mouse", channel.DefaultMouseConfig()).Profile()
	assert.Equal(t, []uint16{keycode.BtnLeft, keycode.BtnRight, keycode.BtnMiddle}, p.Keys)
	assert.Equal(t, []uint16{keycode.RelX, keycode.RelY, keycode.RelWheel}, p.RelAxes)

	p = channel.NewMouse("mouse", channel.MouseConfig{}).Profile()
	assert.Equal(t, []uint16{keycode.BtnLeft, keycode.BtnRight}, p.Keys)
}
