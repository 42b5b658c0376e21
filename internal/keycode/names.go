package keycode

import "fmt"

var keyNames = map[uint16]string{
	KeyEsc: "ESC", Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",
	KeyMinus: "MINUS", KeyEqual: "EQUAL", KeyBackspace: "BACKSPACE", KeyTab: "TAB",
	KeyQ: "Q", KeyW: "W", KeyE: "E", KeyR: "R", KeyT: "T", KeyY: "Y", KeyU: "U",
	KeyI: "I", KeyO: "O", KeyP: "P",
	KeyLeftBrace: "LEFTBRACE", KeyRightBrace: "RIGHTBRACE", KeyEnter: "ENTER",
	KeyLeftCtrl: "LEFTCTRL",
	KeyA: "A", KeyS: "S", KeyD: "D", KeyF: "F", KeyG: "G", KeyH: "H", KeyJ: "J",
	KeyK: "K", KeyL: "L",
	KeySemicolon: "SEMICOLON", KeyApostrophe: "APOSTROPHE", KeyGrave: "GRAVE",
	KeyLeftShift: "LEFTSHIFT", KeyBackslash: "BACKSLASH",
	KeyZ: "Z", KeyX: "X", KeyC: "C", KeyV: "V", KeyB: "B", KeyN: "N", KeyM: "M",
	KeyComma: "COMMA", KeyDot: "DOT", KeySlash: "SLASH", KeyRightShift: "RIGHTSHIFT",
	KeyLeftAlt: "LEFTALT", KeySpace: "SPACE", KeyCapsLock: "CAPSLOCK",
	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
	KeyScrollLock: "SCROLLLOCK", KeyRightCtrl: "RIGHTCTRL", KeyRightAlt: "RIGHTALT",
	KeyHome: "HOME", KeyUp: "UP", KeyPageUp: "PAGEUP", KeyLeft: "LEFT",
	KeyRight: "RIGHT", KeyEnd: "END", KeyDown: "DOWN", KeyPageDown: "PAGEDOWN",
	KeyInsert: "INSERT", KeyDelete: "DELETE", KeyPause: "PAUSE",
	KeyLeftMeta: "LEFTMETA", KeyPrint: "PRINT", KeyTitle: "TITLE",

	BtnLeft: "BTN_LEFT", BtnRight: "BTN_RIGHT", BtnMiddle: "BTN_MIDDLE",
}

var relNames = map[uint16]string{
	RelX:     "REL_X",
	RelY:     "REL_Y",
	RelWheel: "REL_WHEEL",
}

// KeyName returns a short human readable name for a key or button code.
func KeyName(code uint16) string {
	if n, ok := keyNames[code]; ok {
		return n
	}
	return fmt.Sprintf("KEY_%#x", code)
}

// RelName returns the name of a relative axis code.
func RelName(code uint16) string {
	if n, ok := relNames[code]; ok {
		return n
	}
	return fmt.Sprintf("REL_%#x", code)
}
