package healthlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymcblane/EinkPDA/internal/app"
	"github.com/andymcblane/EinkPDA/internal/clock"
	"github.com/andymcblane/EinkPDA/internal/fs"
	"github.com/andymcblane/EinkPDA/internal/keys"
	"github.com/andymcblane/EinkPDA/internal/store"
)

func newMachine(t *testing.T, content string) (*app.Machine, *clock.Manual, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stool.txt")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	c := clock.NewManual(time.Date(2025, time.January, 15, 14, 30, 0, 0, time.UTC))
	st := store.New(fs.NewReal(), path, Schema, nil)
	m := app.New(Profile(c), st, keys.NewDebouncer(c, 0), nil, nil)
	m.Enter()

	return m, c, path
}

func press(t *testing.T, m *app.Machine, tokens string) {
	t.Helper()

	ks, err := keys.ParseTokens(tokens)
	require.NoError(t, err)

	for _, k := range ks {
		m.HandleKey(k)
	}
}

func TestTypeDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hard lumps", TypeDescription(1))
	assert.Equal(t, "Smooth sausage", TypeDescription(4))
	assert.Equal(t, "Watery", TypeDescription(7))
	assert.Equal(t, "Invalid", TypeDescription(0))
	assert.Equal(t, "Invalid", TypeDescription(8))
}

func TestQuickAdd_NewestFirst(t *testing.T) {
	t.Parallel()

	m, c, path := newMachine(t, "")

	press(t, m, "7")
	c.Advance(time.Hour)
	press(t, m, "4")

	assert.Equal(t, "Entry Logged", m.Flash())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4|20250115153000|\n7|20250115143000|\n", string(data))
}

func TestQuickAdd_SameSecondNewestFirst(t *testing.T) {
	t.Parallel()

	m, _, path := newMachine(t, "3|20250115143000|\n")

	press(t, m, "5")
	press(t, m, "6")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "6|20250115143000|\n5|20250115143000|\n3|20250115143000|\n", string(data))
}

func TestQuickAdd_RejectsOutOfScaleTypes(t *testing.T) {
	t.Parallel()

	m, _, _ := newMachine(t, "")

	press(t, m, "089")
	assert.Equal(t, 0, m.Store().Len())
	assert.Equal(t, app.Browse, m.State().Kind)
}

func TestDetail_EditNoteAndDelete(t *testing.T) {
	t.Parallel()

	m, _, path := newMachine(t, "4|20250115143000|\n2|20250114090000|\n")

	press(t, m, "bEfelt fine<enter>")
	assert.Equal(t, app.State{Kind: app.Detail, Index: 1}, m.State())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4|20250115143000|\n2|20250114090000|felt fine\n", string(data))

	press(t, m, "D")
	assert.Equal(t, app.Browse, m.State().Kind)
	assert.Equal(t, 1, m.Store().Len())
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "01/15/25 14:30", FormatTimestamp("20250115143000"))
	assert.Equal(t, "Invalid", FormatTimestamp("20250115"))
}
