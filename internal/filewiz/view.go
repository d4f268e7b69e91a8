package filewiz

import (
	"fmt"

	"github.com/andymcblane/EinkPDA/internal/app"
	"github.com/andymcblane/EinkPDA/internal/display"
)

func (k Kind) String() string {
	switch k {
	case List:
		return "list"
	case Detail:
		return "detail"
	case Prompt:
		return "prompt"
	case Confirm:
		return "confirm"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// View describes the current screen.
func (w *Wizard) View() display.Screen {
	s := display.Screen{Title: "FILES", Flash: w.flash}

	switch w.kind {
	case List:
		if len(w.files) == 0 {
			s.Lines = []string{"No files."}
		}

		for i, f := range w.files {
			s.Lines = append(s.Lines, app.SelectDigitsThenLetters.Label(i).String()+" "+f)
		}

		s.Status = "1-9,0:open  BKSP:home"

	case Detail:
		s.Lines = []string{w.files[w.index], "", "1 Rename", "2 Delete", "3 Copy"}
		s.Status = "BKSP:back"

	case Prompt:
		s.Lines = []string{w.files[w.index]}
		s.Prompt = "Rename to"
		if w.op == OpCopy {
			s.Prompt = "Copy to"
		}

		s.Input = w.buf.String()
		s.Status = "ENTER:ok  HOME:cancel"

	case Confirm:
		s.Lines = []string{w.files[w.index], "", "Delete this file? (y/n)"}
	}

	if s.Status != "" {
		s.Status += "  "
	}

	s.Status += w.keypad.Mode().String()

	return s
}
