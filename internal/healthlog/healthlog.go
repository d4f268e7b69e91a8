// Package healthlog is the bowel-movement log: a Bristol stool type, the
// time it was logged and a free-text note, newest first.
package healthlog

import (
	"fmt"
	"strconv"

	"github.com/andymcblane/EinkPDA/internal/app"
	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/record"
	"github.com/andymcblane/EinkPDA/internal/store"
)

// Field positions.
const (
	FieldType = iota
	FieldTimestamp
	FieldNote

	arity
)

// FieldNames name the fields in order, for structured output.
var FieldNames = []string{"type", "timestamp", "note"}

// Schema is the log file layout, newest first. Entries logged within the
// same second keep newest first too.
var Schema = store.Schema{
	Name:     "healthlog",
	Codec:    record.NewCodec(arity),
	Less:     store.Descending(FieldTimestamp),
	NewFirst: true,
}

var descriptions = [...]string{
	1: "Hard lumps",
	2: "Lumpy sausage",
	3: "Cracked sausage",
	4: "Smooth sausage",
	5: "Soft blobs",
	6: "Fluffy pieces",
	7: "Watery",
}

// ValidType reports whether n is a Bristol scale type.
func ValidType(n int) bool { return n >= 1 && n <= 7 }

// TypeDescription names Bristol type n, or returns "Invalid".
func TypeDescription(n int) string {
	if !ValidType(n) {
		return "Invalid"
	}

	return descriptions[n]
}

// FormatTimestamp renders a stored timestamp as "MM/DD/YY hh:mm".
func FormatTimestamp(ts string) string { return clock.FormatTimestamp(ts) }

// New returns an entry of type n stamped with c.
func New(n int, c clock.Clock, note string) (record.Record, bool) {
	if !ValidType(n) {
		return nil, false
	}

	return record.Record{strconv.Itoa(n), clock.Timestamp(c), note}, true
}

// Profile describes the log to the state machine. Digit keys add an entry
// straight from the list, so records are selected with letters.
func Profile(c clock.Clock) app.Profile {
	note := app.Field{Prompt: "Note"}

	return app.Profile{
		Name:      "healthlog",
		Title:     "HEALTH LOG",
		Selection: app.SelectLetters,
		QuickAdd: func(k keys.Key) (record.Record, bool) {
			if !k.IsDigit() {
				return nil, false
			}

			return New(int(k-'0'), c, "")
		},
		Added: "Entry Logged",
		Actions: map[keys.Key]app.Action{
			'd': {Kind: app.ActionDelete, Label: "Delete"},
			'D': {Kind: app.ActionDelete},
			'e': {Kind: app.ActionEdit, Label: "Edit note", Field: FieldNote, Entry: note},
			'E': {Kind: app.ActionEdit, Field: FieldNote, Entry: note},
		},
		ActionOrder: "de",
		Row:         row,
		Detail:      detail,
		Empty:       "Nothing logged. Press 1-7.",
		Help:        "1-7:log type  a-z:open  BKSP:home",
	}
}

func typeOf(r record.Record) int {
	n, err := strconv.Atoi(r.Field(FieldType))
	if err != nil {
		return 0
	}

	return n
}

func row(r record.Record) string {
	return fmt.Sprintf("%s T%s %s", FormatTimestamp(r.Field(FieldTimestamp)), r.Field(FieldType), TypeDescription(typeOf(r)))
}

func detail(r record.Record) []string {
	lines := []string{
		"Type " + r.Field(FieldType) + ": " + TypeDescription(typeOf(r)),
		"Logged: " + FormatTimestamp(r.Field(FieldTimestamp)),
	}

	if n := r.Field(FieldNote); n != "" {
		lines = append(lines, "Note: "+n)
	}

	return lines
}
