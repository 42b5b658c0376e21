package channel

import (
	"math"
	"strconv"
	"strings"

	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
	"github.com/sensorhandler/sensorhandler/internal/sink"
)

const (
	DefaultAxisSpeed  = 8.0
	DefaultWheelSpeed = 10.0

	mouseButtonWidth = 8
)

// MouseConfig tunes the pointer channel.
type MouseConfig struct {
	AxisSpeed    float64 `help:"Multiplier applied to dx and dy" default:"8.0" env:"SENSORHANDLER_MOUSE_AXIS_SPEED"`
	WheelSpeed   float64 `help:"Multiplier applied to the wheel delta" default:"10.0" env:"SENSORHANDLER_MOUSE_WHEEL_SPEED"`
	MiddleButton bool    `help:"Expose the middle button (bit 2 of the button mask)" default:"true" negatable:"" env:"SENSORHANDLER_MOUSE_MIDDLE_BUTTON"`
}

// DefaultMouseConfig returns the stock multipliers with all three buttons.
func DefaultMouseConfig() MouseConfig {
	return MouseConfig{AxisSpeed: DefaultAxisSpeed, WheelSpeed: DefaultWheelSpeed, MiddleButton: true}
}

// MouseLayout returns the button bindings; the middle button is optional.
func MouseLayout(middle bool) []bitmask.Entry {
	l := []bitmask.Entry{
		{Bit: 0, Code: keycode.BtnLeft},
		{Bit: 1, Code: keycode.BtnRight},
	}
	if middle {
		l = append(l, bitmask.Entry{Bit: 2, Code: keycode.BtnMiddle})
	}
	return l
}

// MouseFrame is one decoded pointer payload.
type MouseFrame struct {
	DX, DY, Wheel float64
	Buttons       bitmask.Mask
}

// ParseMouseFrame splits "dx;dy;wheel;buttons". Missing or unparsable fields
// are zero and fields past the fourth are ignored; fields are decoded
// independently so one bad field never discards the others.
func ParseMouseFrame(payload string) MouseFrame {
	var f MouseFrame
	fields := strings.Split(payload, ";")
	field := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	f.DX = parseDelta(field(0))
	f.DY = parseDelta(field(1))
	f.Wheel = parseDelta(field(2))
	if m, err := bitmask.Parse(field(3), mouseButtonWidth); err == nil {
		f.Buttons = m
	}
	return f
}

func parseDelta(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// toAxis truncates toward zero and saturates at the int32 range.
func toAxis(v float64) int32 {
	switch {
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

// Mouse decodes pointer frames into relative motion and button edges.
type Mouse struct {
	name    string
	cfg     MouseConfig
	buttons *bitmask.Table
}

func NewMouse(deviceName string, cfg MouseConfig) *Mouse {
	return &Mouse{
		name:    deviceName,
		cfg:     cfg,
		buttons: bitmask.MustTable(mouseButtonWidth, MouseLayout(cfg.MiddleButton)),
	}
}

func (m *Mouse) Name() string { return "mouse" }

func (m *Mouse) Profile() sink.Profile {
	return sink.Profile{
		Name:    m.name,
		Vendor:  0x4321,
		Product: 0x1234,
		Keys:    m.buttons.Codes(),
		RelAxes: []uint16{keycode.RelX, keycode.RelY, keycode.RelWheel},
	}
}

// Decode never fails: motion and buttons always decode, defaulting to zero.
func (m *Mouse) Decode(payload string) ([]sink.Event, error) {
	return m.Frame(ParseMouseFrame(payload)), nil
}

// Frame converts an already parsed frame. Y is inverted: a positive dy
// from the controller moves the pointer up.
func (m *Mouse) Frame(f MouseFrame) []sink.Event {
	var events []sink.Event
	if math.Abs(f.DX) > 0 {
		events = append(events, sink.Rel(keycode.RelX, toAxis(f.DX*m.cfg.AxisSpeed)))
	}
	if math.Abs(f.DY) > 0 {
		events = append(events, sink.Rel(keycode.RelY, toAxis(-(f.DY*m.cfg.AxisSpeed))))
	}
	if math.Abs(f.Wheel) > 0 {
		events = append(events, sink.Rel(keycode.RelWheel, toAxis(f.Wheel*m.cfg.WheelSpeed)))
	}
	return m.buttons.Apply(f.Buttons, events)
}

func (m *Mouse) Release() []sink.Event { return m.buttons.ReleaseAll(nil) }

func (m *Mouse) Table() *bitmask.Table { return m.buttons }
