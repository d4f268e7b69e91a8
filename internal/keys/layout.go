package keys

// Rows and Cols give the keypad matrix size.
const (
	Rows = 4
	Cols = 10
)

// Layout maps matrix positions to keys, one layer per mode.
type Layout struct {
	Normal [Rows][Cols]Key
	Shift  [Rows][Cols]Key
	Func   [Rows][Cols]Key
}

// Translate returns the key at (row, col) on the layer for mode, or KeyNone
// for a position outside the matrix.
func (l *Layout) Translate(row, col int, mode Mode) Key {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return KeyNone
	}

	switch mode {
	case ModeShift:
		return l.Shift[row][col]
	case ModeFunc:
		return l.Func[row][col]
	default:
		return l.Normal[row][col]
	}
}

// Find returns the matrix position and mode that produce k. Layers are
// searched normal first.
func (l *Layout) Find(k Key) (row, col int, mode Mode, ok bool) {
	for _, m := range []Mode{ModeNormal, ModeShift, ModeFunc} {
		for r := range Rows {
			for c := range Cols {
				if l.Translate(r, c, m) == k {
					return r, c, m, true
				}
			}
		}
	}

	return 0, 0, ModeNormal, false
}

func keyRow(s string, tail ...Key) [Cols]Key {
	var out [Cols]Key

	i := 0
	for ; i < len(s) && i < Cols; i++ {
		out[i] = Key(s[i])
	}

	for _, k := range tail {
		if i >= Cols {
			break
		}

		out[i] = k
		i++
	}

	return out
}

// DefaultLayout is the PocketMage keypad.
var DefaultLayout = Layout{
	Normal: [Rows][Cols]Key{
		keyRow("qwertyuiop"),
		keyRow("asdfghjkl", KeyBackspace),
		keyRow("zxcvbnm.", KeyShift, KeyEnter),
		keyRow("", KeyHome, KeyFn, KeySpace, KeySpace, KeySpace, KeySpace, ',', '/', KeyClear, KeyDelete),
	},
	Shift: [Rows][Cols]Key{
		keyRow("QWERTYUIOP"),
		keyRow("ASDFGHJKL", KeyBackspace),
		keyRow("ZXCVBNM!", KeyShift, KeyEnter),
		keyRow("", KeyHome, KeyFn, KeySpace, KeySpace, KeySpace, KeySpace, ';', '?', KeyClear, KeyDelete),
	},
	Func: [Rows][Cols]Key{
		keyRow("1234567890"),
		keyRow("#$&*()'\":", KeyBackspace),
		keyRow("@_-+=%~`", KeyShift, KeyEnter),
		keyRow("", KeyHome, KeyFn, KeySpace, KeySpace, KeySpace, KeySpace, '<', '>', KeyClear, KeyDelete),
	},
}
