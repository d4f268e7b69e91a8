// Package tasks is the to-do list app: name, due date, priority and a
// completed flag, ordered by due date.
package tasks

import (
	"fmt"

	"github.com/andymcblane/EinkPDA/internal/app"
	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/record"
	"github.com/andymcblane/EinkPDA/internal/store"
)

// Field positions.
const (
	FieldName = iota
	FieldDue
	FieldPriority
	FieldCompleted

	arity
)

// FieldNames name the fields in order, for structured output.
var FieldNames = []string{"name", "due", "priority", "completed"}

// Schema is the tasks file layout.
var Schema = store.Schema{
	Name:  "tasks",
	Codec: record.NewCodec(arity),
	Less:  store.Ascending(FieldDue),
}

// New returns a task record that is not completed.
func New(name, due string) record.Record {
	return record.Record{name, due, "0", "0"}
}

// Completed reports whether r is marked done.
func Completed(r record.Record) bool { return r.Field(FieldCompleted) == "1" }

// FormatDue renders a stored due date as MM/DD/YY, or "Invalid".
func FormatDue(due string) string { return clock.FormatDate(due) }

// CheckDate is the due-date field check.
func CheckDate(s string) (string, bool) { return s, clock.ValidDate(s) }

var (
	nameField = app.Field{Prompt: "Task name", Check: app.NotEmpty, Invalid: "Name Required"}
	dueField  = app.Field{Prompt: "Due (YYYYMMDD)", Numeric: true, Check: CheckDate, Invalid: "Invalid Date"}
)

// Profile describes the tasks app to the state machine.
func Profile() app.Profile {
	return app.Profile{
		Name:      "tasks",
		Title:     "TASKS",
		Selection: app.SelectDigitsThenLetters,
		NewKeys:   "nN/",
		Wizard:    []app.Field{nameField, dueField},
		Build: func(v []string) record.Record {
			return New(v[0], v[1])
		},
		Added: "New Task Added",
		Actions: map[keys.Key]app.Action{
			'1': {Kind: app.ActionEdit, Label: "Rename", Field: FieldName, Entry: nameField},
			'2': {Kind: app.ActionEdit, Label: "Change due date", Field: FieldDue, Entry: dueField},
			'3': {Kind: app.ActionDelete, Label: "Delete"},
			'4': {Kind: app.ActionDuplicate, Label: "Copy"},
			'5': {Kind: app.ActionUpdate, Label: "Toggle done", Field: FieldCompleted, Update: toggle},
		},
		ActionOrder: "12345",
		Row:         row,
		Detail:      detail,
		Empty:       "No tasks. Press N to add one.",
		Help:        "N:new  1-9,a-z:open  BKSP:home",
	}
}

func toggle(s string) string {
	if s == "1" {
		return "0"
	}

	return "1"
}

func row(r record.Record) string {
	mark := " "
	if Completed(r) {
		mark = "x"
	}

	return fmt.Sprintf("[%s] %-22.22s %s", mark, r.Field(FieldName), FormatDue(r.Field(FieldDue)))
}

func detail(r record.Record) []string {
	status := "open"
	if Completed(r) {
		status = "done"
	}

	return []string{
		r.Field(FieldName),
		"Due: " + FormatDue(r.Field(FieldDue)),
		"Status: " + status,
	}
}
