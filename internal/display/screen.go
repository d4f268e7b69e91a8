package display

import (
	"strings"
)

// Width is the character width of the e-ink panel in the default font.
const Width = 40

// Screen is a renderer-neutral description of what to show.
type Screen struct {
	Title  string
	Lines  []string
	Prompt string // label of the text being typed, if any
	Input  string // text buffer contents
	Status string // mode indicator, counters
	Flash  string // transient message
}

// Typing reports whether the screen shows a text entry line.
func (s Screen) Typing() bool { return s.Prompt != "" }

// Render lays the screen out as plain text, one line per row.
// Used by the line console and golden tests.
func (s Screen) Render() string {
	var b strings.Builder

	b.WriteString(s.Title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", Width))
	b.WriteByte('\n')

	for _, l := range s.Lines {
		b.WriteString(clip(l))
		b.WriteByte('\n')
	}

	if s.Typing() {
		b.WriteString(s.Prompt)
		b.WriteString(": ")
		b.WriteString(s.Input)
		b.WriteString("_\n")
	}

	if s.Flash != "" {
		b.WriteString("! ")
		b.WriteString(s.Flash)
		b.WriteByte('\n')
	}

	if s.Status != "" {
		b.WriteString("[")
		b.WriteString(s.Status)
		b.WriteString("]\n")
	}

	return b.String()
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= Width {
		return s
	}

	return string(r[:Width-1]) + "~"
}
