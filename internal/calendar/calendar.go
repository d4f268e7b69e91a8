// Package calendar is the event calendar: dated events with a start time,
// a duration, an optional repeat rule and a note.
package calendar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andymcblane/EinkPDA/internal/app"
	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/record"
	"github.com/andymcblane/EinkPDA/internal/store"
)

// Field positions.
const (
	FieldName = iota
	FieldDate
	FieldTime
	FieldDuration
	FieldRepeat
	FieldNote

	arity
)

// FieldNames name the fields in order, for structured output.
var FieldNames = []string{"name", "date", "time", "duration", "repeat", "note"}

// Schema is the events file layout: by date, then start time.
var Schema = store.Schema{
	Name:  "calendar",
	Codec: record.NewCodec(arity),
	Less:  store.Ascending(FieldDate, FieldTime),
}

var (
	nameField = app.Field{Prompt: "Event name", Check: app.NotEmpty, Invalid: "Name Required"}
	dateField = app.Field{Prompt: "Date (YYYYMMDD)", Numeric: true, Invalid: "Invalid Date", Check: func(s string) (string, bool) {
		return s, clock.ValidDate(s)
	}}
	timeField = app.Field{Prompt: "Time (HHMM)", Numeric: true, Check: CheckTime, Invalid: "Invalid Time"}
	durField  = app.Field{Prompt: "Minutes", Numeric: true, Check: CheckDuration, Invalid: "Invalid Duration"}
	repField  = app.Field{Prompt: "Repeat", Check: CheckRepeat, Invalid: "Invalid Repeat"}
	noteField = app.Field{Prompt: "Note"}
)

// CheckTime accepts HHMM between 0000 and 2359.
func CheckTime(s string) (string, bool) { return s, clock.ValidTimeOfDay(s) }

// CheckDuration accepts a whole number of minutes; empty means zero.
func CheckDuration(s string) (string, bool) {
	if s == "" {
		return "0", true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return "", false
	}

	return strconv.Itoa(n), true
}

// Profile describes the calendar to the state machine.
func Profile() app.Profile {
	return app.Profile{
		Name:      "calendar",
		Title:     "CALENDAR",
		Selection: app.SelectDigitsThenLetters,
		NewKeys:   "nN/",
		Wizard:    []app.Field{nameField, dateField, timeField, durField, repField, noteField},
		Build: func(v []string) record.Record {
			return record.Record(v).Clone()
		},
		Added: "Event Added",
		Actions: map[keys.Key]app.Action{
			'd': {Kind: app.ActionDelete, Label: "Delete"},
			'e': {Kind: app.ActionEdit, Label: "Edit note", Field: FieldNote, Entry: noteField},
			't': {Kind: app.ActionEdit, Label: "Change time", Field: FieldTime, Entry: timeField},
		},
		ActionOrder: "det",
		Row:         row,
		Detail:      detail,
		Empty:       "No events. Press N to add one.",
		Help:        "N:new  1-9,a-z:open  BKSP:home",
	}
}

func row(r record.Record) string {
	rep := ""
	if r.Field(FieldRepeat) != "" {
		rep = " *"
	}

	return fmt.Sprintf("%s %s %s%s", clock.FormatDate(r.Field(FieldDate)), clock.FormatTimeOfDay(r.Field(FieldTime)), r.Field(FieldName), rep)
}

func detail(r record.Record) []string {
	lines := []string{
		r.Field(FieldName),
		"When: " + clock.FormatDate(r.Field(FieldDate)) + " " + clock.FormatTimeOfDay(r.Field(FieldTime)),
		"Length: " + r.Field(FieldDuration) + " min",
	}

	if rep := r.Field(FieldRepeat); rep != "" {
		lines = append(lines, "Repeats: "+rep)
	}

	if n := r.Field(FieldNote); n != "" {
		lines = append(lines, "Note: "+strings.TrimSpace(n))
	}

	return lines
}
