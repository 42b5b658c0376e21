// Package keycode holds the Linux input event types and codes
// (linux/input-event-codes.h) the virtual devices declare and emit.
package keycode

// Event types
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvRel = 0x02
)

// SynReport terminates one batch of events.
const SynReport = 0x00

// Relative axes
const (
	RelX     = 0x00
	RelY     = 0x01
	RelWheel = 0x08
)

// Mouse buttons
const (
	BtnLeft   = 0x110
	BtnRight  = 0x111
	BtnMiddle = 0x112
)

// Keyboard keys
const (
	KeyEsc        = 1
	Key1          = 2
	Key2          = 3
	Key3          = 4
	Key4          = 5
	Key5          = 6
	Key6          = 7
	Key7          = 8
	Key8          = 9
	Key9          = 10
	Key0          = 11
	KeyMinus      = 12
	KeyEqual      = 13
	KeyBackspace  = 14
	KeyTab        = 15
	KeyQ          = 16
	KeyW          = 17
	KeyE          = 18
	KeyR          = 19
	KeyT          = 20
	KeyY          = 21
	KeyU          = 22
	KeyI          = 23
	KeyO          = 24
	KeyP          = 25
	KeyLeftBrace  = 26 // [ and {
	KeyRightBrace = 27 // ] and }
	KeyEnter      = 28
	KeyLeftCtrl   = 29
	KeyA          = 30
	KeyS          = 31
	KeyD          = 32
	KeyF          = 33
	KeyG          = 34
	KeyH          = 35
	KeyJ          = 36
	KeyK          = 37
	KeyL          = 38
	KeySemicolon  = 39
	KeyApostrophe = 40
	KeyGrave      = 41 // ` and ~
	KeyLeftShift  = 42
	KeyBackslash  = 43
	KeyZ          = 44
	KeyX          = 45
	KeyC          = 46
	KeyV          = 47
	KeyB          = 48
	KeyN          = 49
	KeyM          = 50
	KeyComma      = 51
	KeyDot        = 52
	KeySlash      = 53
	KeyRightShift = 54
	KeyLeftAlt    = 56
	KeySpace      = 57
	KeyCapsLock   = 58

	KeyF1  = 59
	KeyF2  = 60
	KeyF3  = 61
	KeyF4  = 62
	KeyF5  = 63
	KeyF6  = 64
	KeyF7  = 65
	KeyF8  = 66
	KeyF9  = 67
	KeyF10 = 68
	KeyF11 = 87
	KeyF12 = 88

	KeyScrollLock = 70
	KeyRightCtrl  = 97
	KeyRightAlt   = 100
	KeyHome       = 102
	KeyUp         = 103
	KeyPageUp     = 104
	KeyLeft       = 105
	KeyRight      = 106
	KeyEnd        = 107
	KeyDown       = 108
	KeyPageDown   = 109
	KeyInsert     = 110
	KeyDelete     = 111
	KeyPause      = 119
	KeyLeftMeta   = 125 // Windows/Super key
	KeyPrint      = 210
	KeyTitle      = 0x171

	// KeyMax is the highest key code the kernel accepts for UI_SET_KEYBIT.
	KeyMax = 0x2ff
)
