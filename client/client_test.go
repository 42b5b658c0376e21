package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/sensorhandler/sensorhandler/client"
	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/protocol"
	th "github.com/sensorhandler/sensorhandler/internal/testing"
)

func TestLines(t *testing.T) {
	type testCase struct {
		name string
		got  string
		want string
	}

	cases := []testCase{
		{name: "osu", got: client.OsuLine(3), want: "OSU|3\n"},
		{name: "keyboard low", got: client.KeyboardLine(client.KeyboardMask(0, 2)), want: "KEYBOARD|5\n"},
		{name: "keyboard high", got: client.KeyboardLine(client.KeyboardMask(64)), want: "KEYBOARD|18446744073709551616\n"},
		{name: "keyboard ignores out of range", got: client.KeyboardLine(client.KeyboardMask(200)), want: "KEYBOARD|0\n"},
		{
			name: "mouse",
			got:  client.MouseLine(client.MouseFrame{DX: 3, DY: -2.5, Buttons: client.ButtonLeft | client.ButtonMiddle}),
			want: "MOUSE|3;-2.5;0;5\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestKeyboardMask(t *testing.T) {
	assert.Equal(t, uint128.New(1, 1<<21), client.KeyboardMask(0, 85))
	assert.Equal(t, uint128.Zero, client.KeyboardMask(128, 255))

	bits := []uint8{3, 63, 64, 85}
	m := client.KeyboardMask(bits...)
	assert.Equal(t, bitmask.FromBits(bits...), m)
	for _, b := range bits {
		assert.True(t, bitmask.IsSet(m, b), "bit %d", b)
	}
}

func TestClient_AgainstServer(t *testing.T) {
	routes := th.NewRoutes(8)
	srv := th.StartServer(t, routes)

	c, err := client.Dial(context.Background(), srv.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Osu(1))
	require.NoError(t, c.Keyboard(client.KeyboardMask(1)))
	require.NoError(t, c.Mouse(client.MouseFrame{DX: 1, Wheel: -1}))
	require.NoError(t, c.Send("OSU|0"))

	assert.Equal(t, "1", routes.Next(t, protocol.TagOsu, time.Second))
	assert.Equal(t, "2", routes.Next(t, protocol.TagKeyboard, time.Second))
	assert.Equal(t, "1;0;-1;0", routes.Next(t, protocol.TagMouse, time.Second))
	assert.Equal(t, "0", routes.Next(t, protocol.TagOsu, time.Second))
}

func TestDial_Failure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Dial(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}

func TestKeyBit(t *testing.T) {
	b, ok := client.KeyBit("0")
	require.True(t, ok)
	assert.Equal(t, uint8(0), b)

	a, ok := client.KeyBit("a")
	require.True(t, ok)
	z, ok := client.KeyBit("Z")
	require.True(t, ok)
	assert.Equal(t, uint8(25), z-a)

	_, ok = client.KeyBit("NOPE")
	assert.False(t, ok)
}
