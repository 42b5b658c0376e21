package channel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/channel"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
	"github.com/sensorhandler/sensorhandler/internal/sink"
)

func TestKeyboardLayout(t *testing.T) {
	_, err := bitmask.NewTable(128, channel.KeyboardLayout)
	require.NoError(t, err)
	require.Len(t, channel.KeyboardLayout, 86)
	for i, e := range channel.KeyboardLayout {
		assert.Equal(t, uint8(i), e.Bit, "layout must be dense and ordered")
	}
}

func TestKeyboard_Decode(t *testing.T) {
	kb := channel.NewKeyboard("kb")

	// A (bit 10) and LeftShift (bit 56)
	got, err := kb.Decode(bitmask.FromBits(10, 56).String())
	require.NoError(t, err)
	assert.Equal(t, []sink.Event{sink.Press(keycode.KeyA), sink.Press(keycode.KeyLeftShift)}, got)

	// Release A, press Pause (bit 85, in the high word)
	got, err = kb.Decode(bitmask.FromBits(56, 85).String())
	require.NoError(t, err)
	assert.Equal(t, []sink.Event{sink.Release(keycode.KeyA), sink.Press(keycode.KeyPause)}, got)

	got, err = kb.Decode(bitmask.FromBits(56, 85).String())
	require.NoError(t, err)
	assert.Empty(t, got)

	// Bits beyond the layout are ignored
	got, err = kb.Decode(uint128.Max.String())
	require.NoError(t, err)
	assert.Len(t, got, 84)
}

func TestKeyboard_MalformedKeepsState(t *testing.T) {
	kb := channel.NewKeyboard("kb")
	_, err := kb.Decode("1")
	require.NoError(t, err)

	for _, bad := range []string{"", "x", "1.5", "340282366920938463463374607431768211456"} {
		_, err := kb.Decode(bad)
		assert.ErrorIs(t, err, channel.ErrDecode, "payload %q", bad)
	}

	got, err := kb.Decode("0")
	require.NoError(t, err)
	assert.Equal(t, []sink.Event{sink.Release(keycode.Key0)}, got)
}

func TestKeyboard_ProfileCoversLayout(t *testing.T) {
	p := channel.NewKeyboard("kb").Profile()
	require.Len(t, p.Keys, len(channel.KeyboardLayout))
	for _, e := range channel.KeyboardLayout {
		assert.True(t, p.Supports(sink.Press(e.Code)), "code %d", e.Code)
	}
}
