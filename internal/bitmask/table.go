package bitmask

import (
	"fmt"

	"github.com/sensorhandler/sensorhandler/internal/sink"
)

// State is the stored state of one binding.
type State uint8

const (
	Released State = iota
	Pressed
)

func (s State) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Entry is one row of a static layout: bit Bit drives key or button Code.
type Entry struct {
	Bit  uint8
	Code uint16
}

// Binding is an Entry plus its current state.
type Binding struct {
	Entry
	State State
}

// Table is a fixed, ordered set of bindings over a mask of Width bits.
// The layout never changes after NewTable; Apply only mutates states.
type Table struct {
	width    int
	bindings []Binding
}

// NewTable validates layout against width and returns a table with every
// binding Released. Bits must be unique and below width.
func NewTable(width int, layout []Entry) (*Table, error) {
	if width <= 0 || width > 128 {
		return nil, fmt.Errorf("table width %d out of range", width)
	}
	seenBits := make(map[uint8]struct{}, len(layout))
	seenCodes := make(map[uint16]struct{}, len(layout))
	t := &Table{width: width, bindings: make([]Binding, len(layout))}
	for i, e := range layout {
		if int(e.Bit) >= width {
			return nil, fmt.Errorf("bit %d does not fit a %d-bit mask", e.Bit, width)
		}
		if _, dup := seenBits[e.Bit]; dup {
			return nil, fmt.Errorf("bit %d bound twice", e.Bit)
		}
		if _, dup := seenCodes[e.Code]; dup {
			return nil, fmt.Errorf("code %#x bound twice", e.Code)
		}
		seenBits[e.Bit] = struct{}{}
		seenCodes[e.Code] = struct{}{}
		t.bindings[i] = Binding{Entry: e}
	}
	return t, nil
}

// MustTable is NewTable for the built-in layouts, which are known valid.
func MustTable(width int, layout []Entry) *Table {
	t, err := NewTable(width, layout)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Width() int { return t.width }

func (t *Table) Len() int { return len(t.bindings) }

// Bindings returns a copy of the bindings in layout order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Codes returns the key codes of the table in layout order.
func (t *Table) Codes() []uint16 {
	out := make([]uint16, len(t.bindings))
	for i, b := range t.bindings {
		out[i] = b.Code
	}
	return out
}

// Apply diffs m against the stored states. For each binding whose bit
// differs from its state it appends exactly one press or release event to
// dst and updates the state. Bits outside the table are ignored.
func (t *Table) Apply(m Mask, dst []sink.Event) []sink.Event {
	for i := range t.bindings {
		b := &t.bindings[i]
		next := Released
		if IsSet(m, b.Bit) {
			next = Pressed
		}
		if next == b.State {
			continue
		}
		b.State = next
		dst = append(dst, sink.Key(b.Code, next == Pressed))
	}
	return dst
}

// ReleaseAll appends a release for every pressed binding and resets it.
func (t *Table) ReleaseAll(dst []sink.Event) []sink.Event {
	return t.Apply(Mask{}, dst)
}
