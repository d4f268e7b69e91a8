package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andymcblane/EinkPDA/internal/display"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(display.Width + 2)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f9fb0"))
	flashStyle  = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

func render(s display.Screen) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(s.Title))
	b.WriteByte('\n')

	for _, l := range s.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	if s.Typing() {
		b.WriteString(promptStyle.Render(s.Prompt + ": "))
		b.WriteString(s.Input + "_")
		b.WriteByte('\n')
	}

	if s.Flash != "" {
		b.WriteString(flashStyle.Render(" " + s.Flash + " "))
		b.WriteByte('\n')
	}

	b.WriteString(statusStyle.Render(s.Status))

	return panelStyle.Render(b.String()) + "\n"
}
