// Package keys models the device keypad: key codes, the shift/function
// modes, and the cooldown debouncer that turns raw polls into events.
package keys

import "fmt"

// Key is a single key code as reported by the keypad.
type Key byte

// Control codes. Everything from KeySpace to '~' is printable.
const (
	KeyNone      Key = 0
	KeyBackspace Key = 8
	KeyHome      Key = 12
	KeyEnter     Key = 13
	KeyShift     Key = 17
	KeyFn        Key = 18
	KeyClear     Key = 20
	KeySpace     Key = 32
	KeyDelete    Key = 127
)

// IsPrintable reports whether k inserts a character into a text buffer.
func (k Key) IsPrintable() bool { return k >= KeySpace && k <= '~' }

// IsErase reports whether k removes the last buffer character.
func (k Key) IsErase() bool { return k == KeyBackspace || k == KeyDelete }

// IsBack reports whether k leaves the current screen when not typing.
func (k Key) IsBack() bool { return k == KeyBackspace || k == KeyHome || k == KeyDelete }

// IsDigit reports whether k is '0'..'9'.
func (k Key) IsDigit() bool { return k >= '0' && k <= '9' }

// IsToggle reports whether k switches the keypad mode.
func (k Key) IsToggle() bool { return k == KeyShift || k == KeyFn }

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return "<" + name + ">"
	}

	if k.IsPrintable() {
		return string(rune(k))
	}

	return fmt.Sprintf("<%d>", byte(k))
}

var keyNames = map[Key]string{
	KeyBackspace: "bksp",
	KeyHome:      "home",
	KeyEnter:     "enter",
	KeyShift:     "shift",
	KeyFn:        "fn",
	KeyClear:     "clear",
	KeyDelete:    "del",
}

// Mode is the keypad layer.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeShift
	ModeFunc
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeShift:
		return "SHIFT"
	case ModeFunc:
		return "FUNC"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}
