package client

import (
	"strconv"
	"strings"

	"lukechampine.com/uint128"

	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/channel"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
	"github.com/sensorhandler/sensorhandler/internal/protocol"
)

// Tags of the line protocol.
const (
	TagOsu      = string(protocol.TagOsu)
	TagKeyboard = string(protocol.TagKeyboard)
	TagMouse    = string(protocol.TagMouse)
)

// Mouse button bits.
const (
	ButtonLeft uint8 = 1 << iota
	ButtonRight
	ButtonMiddle
)

// MouseFrame is one pointer update. Deltas are in controller units; the
// server scales them.
type MouseFrame struct {
	DX, DY, Wheel float64
	Buttons       uint8
}

// Line formats a tagged protocol line including the trailing newline.
func Line(tag, payload string) string {
	return tag + "|" + payload + "\n"
}

// OsuLine encodes the two osu! keys: bit0 is K1, bit1 is K2.
func OsuLine(mask uint8) string {
	return Line(TagOsu, strconv.FormatUint(uint64(mask), 10))
}

// KeyboardLine encodes a 128-bit keyboard mask.
func KeyboardLine(mask uint128.Uint128) string {
	return Line(TagKeyboard, mask.String())
}

// MouseLine encodes a pointer frame as "dx;dy;wheel;buttons".
func MouseLine(f MouseFrame) string {
	fields := []string{
		strconv.FormatFloat(f.DX, 'f', -1, 64),
		strconv.FormatFloat(f.DY, 'f', -1, 64),
		strconv.FormatFloat(f.Wheel, 'f', -1, 64),
		strconv.FormatUint(uint64(f.Buttons), 10),
	}
	return Line(TagMouse, strings.Join(fields, ";"))
}

// KeyboardMask sets the given layout bits. Bits above 127 are ignored.
func KeyboardMask(bits ...uint8) uint128.Uint128 {
	return bitmask.FromBits(bits...)
}

var keyBits = func() map[string]uint8 {
	m := make(map[string]uint8, len(channel.KeyboardLayout))
	for _, e := range channel.KeyboardLayout {
		m[keycode.KeyName(e.Code)] = e.Bit
	}
	return m
}()

// KeyBit returns the keyboard mask bit for a key name as printed by
// "sensorhandler keymap keyboard", e.g. "A", "ENTER" or "LEFTSHIFT".
func KeyBit(name string) (uint8, bool) {
	b, ok := keyBits[strings.ToUpper(name)]
	return b, ok
}
