package channel

import (
	"fmt"

	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
	"github.com/sensorhandler/sensorhandler/internal/sink"
)

const keyboardWidth = 128

// KeyboardLayout is the canonical bit assignment of the 128-bit keyboard
// mask. Bits are part of the wire protocol and must never be renumbered.
var KeyboardLayout = []bitmask.Entry{
	// Digits
	{Bit: 0, Code: keycode.Key0},
	{Bit: 1, Code: keycode.Key1},
	{Bit: 2, Code: keycode.Key2},
	{Bit: 3, Code: keycode.Key3},
	{Bit: 4, Code: keycode.Key4},
	{Bit: 5, Code: keycode.Key5},
	{Bit: 6, Code: keycode.Key6},
	{Bit: 7, Code: keycode.Key7},
	{Bit: 8, Code: keycode.Key8},
	{Bit: 9, Code: keycode.Key9},

	// Letters
	{Bit: 10, Code: keycode.KeyA},
	{Bit: 11, Code: keycode.KeyB},
	{Bit: 12, Code: keycode.KeyC},
	{Bit: 13, Code: keycode.KeyD},
	{Bit: 14, Code: keycode.KeyE},
	{Bit: 15, Code: keycode.KeyF},
	{Bit: 16, Code: keycode.KeyG},
	{Bit: 17, Code: keycode.KeyH},
	{Bit: 18, Code: keycode.KeyI},
	{Bit: 19, Code: keycode.KeyJ},
	{Bit: 20, Code: keycode.KeyK},
	{Bit: 21, Code: keycode.KeyL},
	{Bit: 22, Code: keycode.KeyM},
	{Bit: 23, Code: keycode.KeyN},
	{Bit: 24, Code: keycode.KeyO},
	{Bit: 25, Code: keycode.KeyP},
	{Bit: 26, Code: keycode.KeyQ},
	{Bit: 27, Code: keycode.KeyR},
	{Bit: 28, Code: keycode.KeyS},
	{Bit: 29, Code: keycode.KeyT},
	{Bit: 30, Code: keycode.KeyU},
	{Bit: 31, Code: keycode.KeyV},
	{Bit: 32, Code: keycode.KeyW},
	{Bit: 33, Code: keycode.KeyX},
	{Bit: 34, Code: keycode.KeyY},
	{Bit: 35, Code: keycode.KeyZ},

	// Function keys
	{Bit: 36, Code: keycode.KeyF1},
	{Bit: 37, Code: keycode.KeyF2},
	{Bit: 38, Code: keycode.KeyF3},
	{Bit: 39, Code: keycode.KeyF4},
	{Bit: 40, Code: keycode.KeyF5},
	{Bit: 41, Code: keycode.KeyF6},
	{Bit: 42, Code: keycode.KeyF7},
	{Bit: 43, Code: keycode.KeyF8},
	{Bit: 44, Code: keycode.KeyF9},
	{Bit: 45, Code: keycode.KeyF10},
	{Bit: 46, Code: keycode.KeyF11},
	{Bit: 47, Code: keycode.KeyF12},

	{Bit: 48, Code: keycode.KeyEsc},
	{Bit: 49, Code: keycode.KeyGrave},
	{Bit: 50, Code: keycode.KeySpace},
	{Bit: 51, Code: keycode.KeyEnter},
	{Bit: 52, Code: keycode.KeyTitle},

	// Modifiers and editing
	{Bit: 53, Code: keycode.KeyLeftAlt},
	{Bit: 54, Code: keycode.KeyLeftMeta},
	{Bit: 55, Code: keycode.KeyLeftCtrl},
	{Bit: 56, Code: keycode.KeyLeftShift},
	{Bit: 57, Code: keycode.KeyBackspace},
	{Bit: 58, Code: keycode.KeyTab},
	{Bit: 59, Code: keycode.KeyCapsLock},

	// Arrows
	{Bit: 60, Code: keycode.KeyUp},
	{Bit: 61, Code: keycode.KeyDown},
	{Bit: 62, Code: keycode.KeyLeft},
	{Bit: 63, Code: keycode.KeyRight},

	{Bit: 64, Code: keycode.KeyRightAlt},
	{Bit: 65, Code: keycode.KeyRightCtrl},
	{Bit: 66, Code: keycode.KeyRightShift},

	// Punctuation
	{Bit: 67, Code: keycode.KeyMinus},
	{Bit: 68, Code: keycode.KeyEqual},
	{Bit: 69, Code: keycode.KeyLeftBrace},
	{Bit: 70, Code: keycode.KeyRightBrace},
	{Bit: 71, Code: keycode.KeySemicolon},
	{Bit: 72, Code: keycode.KeyApostrophe},
	{Bit: 73, Code: keycode.KeyBackslash},
	{Bit: 74, Code: keycode.KeyComma},
	{Bit: 75, Code: keycode.KeyDot},
	{Bit: 76, Code: keycode.KeySlash},

	// Navigation block
	{Bit: 77, Code: keycode.KeyInsert},
	{Bit: 78, Code: keycode.KeyDelete},
	{Bit: 79, Code: keycode.KeyHome},
	{Bit: 80, Code: keycode.KeyEnd},
	{Bit: 81, Code: keycode.KeyPageUp},
	{Bit: 82, Code: keycode.KeyPageDown},
	{Bit: 83, Code: keycode.KeyPrint},
	{Bit: 84, Code: keycode.KeyScrollLock},
	{Bit: 85, Code: keycode.KeyPause},
}

// Keyboard decodes 128-bit masks into the full key layout.
type Keyboard struct {
	name  string
	table *bitmask.Table
}

func NewKeyboard(deviceName string) *Keyboard {
	return &Keyboard{name: deviceName, table: bitmask.MustTable(keyboardWidth, KeyboardLayout)}
}

func (k *Keyboard) Name() string { return "keyboard" }

func (k *Keyboard) Profile() sink.Profile {
	return sink.Profile{
		Name:    k.name,
		Vendor:  0x4321,
		Product: 0x3456,
		Keys:    k.table.Codes(),
	}
}

func (k *Keyboard) Decode(payload string) ([]sink.Event, error) {
	m, err := bitmask.Parse(payload, keyboardWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return k.table.Apply(m, nil), nil
}

func (k *Keyboard) Release() []sink.Event { return k.table.ReleaseAll(nil) }

func (k *Keyboard) Table() *bitmask.Table { return k.table }
