package tasks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymcblane/EinkPDA/internal/app"
	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/fs"
	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/store"
)

func newMachine(t *testing.T, content string) (*app.Machine, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.txt")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	st := store.New(fs.NewReal(), path, Schema, nil)
	m := app.New(Profile(), st, keys.NewDebouncer(clock.System{}, 0), nil, nil)
	m.Enter()

	return m, path
}

func press(t *testing.T, m *app.Machine, tokens string) {
	t.Helper()

	ks, err := keys.ParseTokens(tokens)
	require.NoError(t, err)

	for _, k := range ks {
		m.HandleKey(k)
	}
}

func TestFormatDue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "01/20/25", FormatDue("20250120"))
	assert.Equal(t, "Invalid", FormatDue("2025012"))
	assert.Equal(t, "Invalid", FormatDue("20251340"))
}

func TestTasks_AddTwoKeepsDueOrder(t *testing.T) {
	t.Parallel()

	m, path := newMachine(t, "")

	press(t, m, "nBuy milk<enter>20250120<enter>")
	press(t, m, "/Doctor<enter>20250115<enter>")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Doctor|20250115|0|0\nBuy milk|20250120|0|0\n", string(data))
}

func TestTasks_ToggleDone(t *testing.T) {
	t.Parallel()

	m, path := newMachine(t, "Buy milk|20250120|0|0\n")

	press(t, m, "15")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk|20250120|0|1\n", string(data))

	rec, _ := m.Store().At(0)
	assert.True(t, Completed(rec))
}

func TestTasks_Screens(t *testing.T) {
	t.Parallel()

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	m, _ := newMachine(t, "Buy milk|20250120|0|0\nDoctor|20250115|0|1\n")

	g.Assert(t, "browse", []byte(m.View().Render()))

	press(t, m, "2")
	g.Assert(t, "detail", []byte(m.View().Render()))

	press(t, m, "<bksp>nWalk dog<enter>")
	g.Assert(t, "wizard_due", []byte(m.View().Render()))
}
