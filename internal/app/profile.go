// Package app implements the record-list state machine shared by the
// record-based apps: browse a list, walk a creation wizard, open a record,
// and edit one of its fields.
//
// An app is described by a [Profile]; the [Machine] does the rest.
package app

import (
	"strings"

	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/record"
)

// Selection maps browse keys to record positions.
type Selection int

const (
	// SelectDigitsThenLetters: '1'..'9' are 0..8, '0' is 9, 'a'..'z' are 10..35.
	SelectDigitsThenLetters Selection = iota
	// SelectLetters: 'a'..'z' are 0..25. Digits stay free for other uses.
	SelectLetters
)

// Index returns the position selected by k.
func (s Selection) Index(k keys.Key) (int, bool) {
	if k >= 'A' && k <= 'Z' {
		k += 'a' - 'A'
	}

	switch {
	case s == SelectDigitsThenLetters && k >= '1' && k <= '9':
		return int(k - '1'), true
	case s == SelectDigitsThenLetters && k == '0':
		return 9, true
	case k >= 'a' && k <= 'z':
		if s == SelectDigitsThenLetters {
			return 10 + int(k-'a'), true
		}

		return int(k - 'a'), true
	}

	return 0, false
}

// Label returns the key that selects pos, or KeyNone past the last key.
func (s Selection) Label(pos int) keys.Key {
	if s == SelectDigitsThenLetters {
		switch {
		case pos >= 0 && pos <= 8:
			return keys.Key('1' + pos)
		case pos == 9:
			return '0'
		}

		pos -= 10
	}

	if pos >= 0 && pos < 26 {
		return keys.Key('a' + pos)
	}

	return keys.KeyNone
}

// Field describes one text entry: a wizard step or an editable field.
type Field struct {
	Prompt string
	// Numeric puts the keypad in function mode so digits are on the home row.
	Numeric bool
	// Check normalizes the typed text, or rejects it. Nil accepts anything.
	Check func(text string) (string, bool)
	// Invalid is flashed when Check rejects the text.
	Invalid string
}

func (f Field) check(text string) (string, bool) {
	if f.Check == nil {
		return text, true
	}

	return f.Check(text)
}

// ActionKind is what a detail-screen key does.
type ActionKind int

const (
	// ActionDelete removes the record and returns to browse.
	ActionDelete ActionKind = iota
	// ActionEdit opens a text entry for one field.
	ActionEdit
	// ActionDuplicate appends a copy of the record.
	ActionDuplicate
	// ActionUpdate rewrites one field with Update(old) without typing.
	ActionUpdate
)

// Action is bound to a key on the detail screen.
type Action struct {
	Kind   ActionKind
	Label  string
	Field  int                 // ActionEdit, ActionUpdate
	Entry  Field               // ActionEdit
	Update func(string) string // ActionUpdate
}

// Profile is everything app-specific about a record app.
type Profile struct {
	Name  string
	Title string

	Selection Selection
	// NewKeys start the creation wizard. They win over selection keys.
	NewKeys string
	// QuickAdd builds a record straight from a browse key (no wizard).
	QuickAdd func(k keys.Key) (record.Record, bool)

	Wizard []Field
	// Build turns the wizard's values, one per step, into a record.
	Build func(values []string) record.Record
	// Added is flashed after a successful wizard or quick add.
	Added string

	// Actions are keyed by detail-screen key.
	Actions map[keys.Key]Action
	// ActionOrder lists action keys in display order.
	ActionOrder string

	// Row renders one browse line (without the selection label).
	Row func(r record.Record) string
	// Detail renders the detail screen body.
	Detail func(r record.Record) []string
	// Empty is shown when the store holds nothing.
	Empty string
	// Help is the browse status line.
	Help string
}

func (p *Profile) isNewKey(k keys.Key) bool {
	return k.IsPrintable() && strings.IndexByte(p.NewKeys, byte(k)) >= 0
}

func (p *Profile) action(k keys.Key) (Action, bool) {
	a, ok := p.Actions[k]

	return a, ok
}

// NotEmpty is a Field check rejecting blank text.
func NotEmpty(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	return text, true
}
