// Package tui runs the shell in a terminal, standing in for the device's
// keypad and e-ink panel.
//
// Keys typed on the terminal are queued and handed to the shell one per
// poll tick. The screen is re-rendered only when the shell's display
// signal asks for it; a full refresh also clears the terminal.
package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/shell"
)

// Options configure Run.
type Options struct {
	Poll   time.Duration
	Input  io.Reader
	Output io.Writer
}

// Run blocks until the user quits with ctrl+c or ctx is cancelled.
func Run(ctx context.Context, sh *shell.Shell, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}

	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	_, err := tea.NewProgram(newModel(sh, opts.Poll), progOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

type tickMsg struct{}

type model struct {
	sh    *shell.Shell
	queue *keys.Queue
	poll  time.Duration
	frame string
	full  int // full refreshes so far
}

func newModel(sh *shell.Shell, poll time.Duration) model {
	if poll <= 0 {
		poll = 20 * time.Millisecond
	}

	m := model{sh: sh, queue: keys.NewQueue(), poll: poll}
	m.frame = render(sh.Screen())

	return m
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.poll, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}

		m.queue.Push(translate(msg)...)

		return m, nil

	case tickMsg:
		m.sh.Poll(m.queue)

		redraw, full := m.sh.Signal().Take()
		if !redraw {
			return m, m.tick()
		}

		m.frame = render(m.sh.Screen())

		if full {
			m.full++

			return m, tea.Batch(tea.ClearScreen, m.tick())
		}

		return m, m.tick()
	}

	return m, nil
}

func (m model) View() string {
	return m.frame
}

// translate maps a terminal key to keypad keys. Esc is the home key, tab
// and shift+tab are the Fn and Shift toggles, ctrl+l is clear.
func translate(msg tea.KeyMsg) []keys.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return []keys.Key{keys.KeyEnter}
	case tea.KeyBackspace:
		return []keys.Key{keys.KeyBackspace}
	case tea.KeyDelete:
		return []keys.Key{keys.KeyDelete}
	case tea.KeyEsc:
		return []keys.Key{keys.KeyHome}
	case tea.KeyTab:
		return []keys.Key{keys.KeyFn}
	case tea.KeyShiftTab:
		return []keys.Key{keys.KeyShift}
	case tea.KeyCtrlL:
		return []keys.Key{keys.KeyClear}
	case tea.KeySpace:
		return []keys.Key{keys.KeySpace}
	case tea.KeyRunes:
		out := make([]keys.Key, 0, len(msg.Runes))

		for _, r := range msg.Runes {
			if r >= ' ' && r <= '~' {
				out = append(out, keys.Key(r))
			}
		}

		return out
	}

	return nil
}
