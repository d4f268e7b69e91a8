package app

import (
	"github.com/andymcblane/EinkPDA/internal/display"
	"github.com/andymcblane/EinkPDA/internal/keys"
)

// View describes the current screen.
func (m *Machine) View() display.Screen {
	p := &m.profile
	s := display.Screen{Title: p.Title, Flash: m.flash}

	switch m.kind {
	case Browse:
		s.Lines = m.listLines()
		s.Status = p.Help

	case CreateWizard:
		s.Title = p.Title + " - NEW"
		for i, v := range m.values {
			s.Lines = append(s.Lines, p.Wizard[i].Prompt+": "+v)
		}

		s.Prompt = p.Wizard[m.step].Prompt
		s.Input = m.buf.String()
		s.Status = "ENTER:next  HOME:cancel"

	case Detail:
		s.Lines = m.detailLines()
		s.Status = "BKSP:back"

	case EditField:
		s.Lines = m.detailLines()
		s.Prompt = m.action.Entry.Prompt
		s.Input = m.buf.String()
		s.Status = "ENTER:save  HOME:cancel"
	}

	if s.Status != "" {
		s.Status += "  "
	}

	s.Status += m.keypad.Mode().String()

	return s
}

func (m *Machine) listLines() []string {
	p := &m.profile
	recs := m.store.Records()

	if len(recs) == 0 {
		return []string{p.Empty}
	}

	lines := make([]string, 0, len(recs))

	for i, r := range recs {
		label := " "
		if k := p.Selection.Label(i); k.IsPrintable() {
			label = k.String()
		}

		lines = append(lines, label+" "+p.Row(r))
	}

	return lines
}

func (m *Machine) detailLines() []string {
	p := &m.profile

	rec, ok := m.store.At(m.index)
	if !ok {
		return nil
	}

	lines := p.Detail(rec)
	lines = append(lines, "")

	for i := range len(p.ActionOrder) {
		k := p.ActionOrder[i]
		if a, ok := p.Actions[keys.Key(k)]; ok {
			lines = append(lines, string(k)+" "+a.Label)
		}
	}

	return lines
}
