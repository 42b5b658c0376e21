// Package sink defines the virtual HID sink: the platform capability that
// turns decoded input events into OS-level synthetic input.
//
// A Sink is created once per input category from a fixed Profile and is
// owned by exactly one channel worker; implementations need not be safe for
// concurrent use.
package sink

import (
	"errors"
	"fmt"

	"github.com/sensorhandler/sensorhandler/internal/keycode"
)

// ErrUnsupported is returned by Open on platforms without a virtual input backend.
var ErrUnsupported = errors.New("virtual input devices are not supported on this platform")

// Event is one outbound input event. Type is keycode.EvKey or keycode.EvRel.
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// Key builds a key/button event.
func Key(code uint16, pressed bool) Event {
	var v int32
	if pressed {
		v = 1
	}
	return Event{Type: keycode.EvKey, Code: code, Value: v}
}

// Press and Release are shorthands for Key(code, true) and Key(code, false).
func Press(code uint16) Event   { return Key(code, true) }
func Release(code uint16) Event { return Key(code, false) }

// Rel builds a relative axis event.
func Rel(axis uint16, value int32) Event {
	return Event{Type: keycode.EvRel, Code: axis, Value: value}
}

func (e Event) String() string {
	switch e.Type {
	case keycode.EvKey:
		state := "release"
		if e.Value != 0 {
			state = "press"
		}
		return fmt.Sprintf("%s %s", keycode.KeyName(e.Code), state)
	case keycode.EvRel:
		return fmt.Sprintf("%s %d", keycode.RelName(e.Code), e.Value)
	default:
		return fmt.Sprintf("type=%d code=%d value=%d", e.Type, e.Code, e.Value)
	}
}

// Profile is the fixed capability set a virtual device declares at creation.
type Profile struct {
	Name    string
	Vendor  uint16
	Product uint16
	Keys    []uint16
	RelAxes []uint16
}

// Supports reports whether ev is within the profile's declared capabilities.
func (p Profile) Supports(ev Event) bool {
	var set []uint16
	switch ev.Type {
	case keycode.EvKey:
		set = p.Keys
	case keycode.EvRel:
		set = p.RelAxes
	default:
		return false
	}
	for _, c := range set {
		if c == ev.Code {
			return true
		}
	}
	return false
}

// Sink emits batches of events to a virtual device.
type Sink interface {
	// Emit writes all events followed by a single synchronization report.
	Emit(events []Event) error
	Close() error
}

// Opener creates a Sink for a profile. Open is the platform default.
type Opener func(p Profile) (Sink, error)
