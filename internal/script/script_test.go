package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/shell"
)

func newShell(t *testing.T, s *Script) (*shell.Shell, string) {
	t.Helper()

	dir := t.TempDir()

	return shell.New(shell.Options{
		DataDir:      dir,
		TasksFile:    "tasks.txt",
		HealthFile:   "stool.txt",
		CalendarFile: "sys/events.txt",
		Clock:        clock.NewManual(s.Clock),
	}), dir
}

const taskScript = `
name: add a task
clock: 2025-01-15T14:30:00Z
steps:
  - keys: "tnBuy milk<enter>2025<enter>"
    expect:
      app: tasks
      state: wizard
      flash: Invalid Date
  - keys: "20250120<enter>"
    expect:
      state: browse
      flash: New Task Added
      contains: [Buy milk]
      records: 1
`

func TestRun_TaskScript(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(taskScript))
	require.NoError(t, err)

	sh, dir := newShell(t, s)

	var steps []int
	require.NoError(t, s.Run(sh, func(step int) { steps = append(steps, step) }))
	assert.Equal(t, []int{1, 2}, steps)

	data, err := os.ReadFile(filepath.Join(dir, "tasks.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Buy milk|20250120|0|0\n", string(data))
}

func TestRun_ReportsFailedExpectation(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(`
steps:
  - keys: "t"
    expect:
      app: calendar
      records: 3
`))
	require.NoError(t, err)

	sh, _ := newShell(t, s)

	err = s.Run(sh, nil)
	require.True(t, errors.Is(err, ErrExpectation), "err=%v", err)
	assert.Contains(t, err.Error(), "app=tasks, want=calendar")
	assert.Contains(t, err.Error(), "records=0, want=3")
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "unknown field", in: "steps:\n  - keys: t\n    expcet: {}\n"},
		{name: "no steps", in: "name: empty\n"},
		{name: "bad token", in: "steps:\n  - keys: \"<warp>\"\n"},
	}

	for _, tt := range tests {
		if _, err := Parse([]byte(tt.in)); err == nil {
			t.Errorf("%s: err=nil, want error", tt.name)
		}
	}
}
