// Package bitmask implements the fixed bit -> key binding tables and the
// edge-triggered diffing used by every channel.
package bitmask

import (
	"errors"
	"fmt"
	"strconv"

	"lukechampine.com/uint128"
)

// Mask is a snapshot of up to 128 boolean inputs; bit i is input i.
type Mask = uint128.Uint128

// ErrInvalidMask is returned when a payload is not a decimal mask of the table's width.
var ErrInvalidMask = errors.New("invalid mask")

// Parse decodes a decimal, unsigned mask that must fit in width bits.
// Only ASCII digits are accepted: no sign, prefix or surrounding space.
func Parse(s string, width int) (Mask, error) {
	if s == "" {
		return Mask{}, fmt.Errorf("%w: empty payload", ErrInvalidMask)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Mask{}, fmt.Errorf("%w %q: non-digit at offset %d", ErrInvalidMask, s, i)
		}
	}

	switch width {
	case 8, 16, 32, 64:
		v, err := strconv.ParseUint(s, 10, width)
		if err != nil {
			return Mask{}, fmt.Errorf("%w %q: %w", ErrInvalidMask, s, err)
		}
		return uint128.From64(v), nil
	case 128:
		v, err := uint128.FromString(s)
		if err != nil {
			return Mask{}, fmt.Errorf("%w %q: %w", ErrInvalidMask, s, err)
		}
		return v, nil
	default:
		return Mask{}, fmt.Errorf("%w: unsupported width %d", ErrInvalidMask, width)
	}
}

// IsSet reports whether bit i of m is set. Bits beyond 127 are never set.
func IsSet(m Mask, i uint8) bool {
	switch {
	case i < 64:
		return m.Lo>>i&1 == 1
	case i < 128:
		return m.Hi>>(i-64)&1 == 1
	default:
		return false
	}
}

// With returns m with bit i set. Used to build masks in clients and tests.
func With(m Mask, i uint8) Mask {
	switch {
	case i < 64:
		m.Lo |= 1 << i
	case i < 128:
		m.Hi |= 1 << (i - 64)
	}
	return m
}

// FromBits builds a mask with the given bits set.
func FromBits(bits ...uint8) Mask {
	var m Mask
	for _, b := range bits {
		m = With(m, b)
	}
	return m
}
