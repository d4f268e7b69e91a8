package keys

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/andymcblane/EinkPDA/internal/clock"
)

func newDebouncer() (*Debouncer, *clock.Manual) {
	c := clock.NewManual(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

	return NewDebouncer(c, DefaultCooldown), c
}

func TestDebouncer_DropsKeysInsideCooldown(t *testing.T) {
	t.Parallel()

	d, c := newDebouncer()
	q := NewQueue('a', 'b', 'c', 'd')

	ev, ok := d.Poll(q)
	if !ok || ev.Key != 'a' {
		t.Fatalf("first poll=%v,%v, want a,true", ev, ok)
	}

	c.Advance(10 * time.Millisecond)

	if _, ok := d.Poll(q); ok {
		t.Fatal("key inside cooldown accepted")
	}

	// Exactly one cooldown after the last accepted key is accepted.
	c.Advance(40 * time.Millisecond)

	ev, ok = d.Poll(q)
	if !ok || ev.Key != 'c' {
		t.Fatalf("poll after cooldown=%v,%v, want c,true", ev, ok)
	}

	if got, want := q.Len(), 1; got != want {
		t.Fatalf("pending=%d, want=%d", got, want)
	}
}

func TestDebouncer_NoKeyDoesNotStartCooldown(t *testing.T) {
	t.Parallel()

	d, c := newDebouncer()
	q := NewQueue()

	if _, ok := d.Poll(q); ok {
		t.Fatal("empty queue produced an event")
	}

	c.Advance(time.Millisecond)
	q.Push('x')

	if _, ok := d.Poll(q); !ok {
		t.Fatal("first real key rejected")
	}
}

func TestDebouncer_ModeToggles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start Mode
		keys  []Key
		want  Mode
	}{
		{name: "shift on", start: ModeNormal, keys: []Key{KeyShift}, want: ModeShift},
		{name: "shift off", start: ModeNormal, keys: []Key{KeyShift, KeyShift}, want: ModeNormal},
		{name: "fn from shift", start: ModeNormal, keys: []Key{KeyShift, KeyFn}, want: ModeFunc},
		{name: "shift is one-shot", start: ModeNormal, keys: []Key{KeyShift, 'A'}, want: ModeNormal},
		{name: "fn stays for digits", start: ModeFunc, keys: []Key{'2', '0'}, want: ModeFunc},
		{name: "fn drops on letter", start: ModeFunc, keys: []Key{'1', 'x'}, want: ModeNormal},
		{name: "control keys keep fn", start: ModeFunc, keys: []Key{KeyEnter, KeyBackspace}, want: ModeFunc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, c := newDebouncer()
			d.SetMode(tt.start)
			q := NewQueue(tt.keys...)

			for range tt.keys {
				if _, ok := d.Poll(q); !ok {
					t.Fatal("key rejected")
				}

				c.Advance(DefaultCooldown)
			}

			if got := d.Mode(); got != tt.want {
				t.Fatalf("mode=%v, want=%v", got, tt.want)
			}
		})
	}
}

func TestDebouncer_SourceSeesMode(t *testing.T) {
	t.Parallel()

	d, _ := newDebouncer()
	d.SetMode(ModeFunc)

	var seen Mode

	d.Poll(SourceFunc(func(m Mode) Key {
		seen = m

		return KeyNone
	}))

	if got, want := seen, ModeFunc; got != want {
		t.Fatalf("source mode=%v, want=%v", got, want)
	}

	d.ResetMode()

	if got, want := d.Mode(), ModeNormal; got != want {
		t.Fatalf("mode=%v, want=%v", got, want)
	}
}

func TestLayout_Translate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		row, col int
		mode     Mode
		want     Key
	}{
		{0, 0, ModeNormal, 'q'},
		{0, 0, ModeShift, 'Q'},
		{0, 0, ModeFunc, '1'},
		{0, 9, ModeFunc, '0'},
		{2, 9, ModeNormal, KeyEnter},
		{1, 9, ModeFunc, KeyBackspace},
		{3, 0, ModeNormal, KeyHome},
		{4, 0, ModeNormal, KeyNone},
		{0, -1, ModeNormal, KeyNone},
	}

	for _, tt := range tests {
		if got := DefaultLayout.Translate(tt.row, tt.col, tt.mode); got != tt.want {
			t.Errorf("Translate(%d,%d,%v)=%v, want=%v", tt.row, tt.col, tt.mode, got, tt.want)
		}
	}

	r, c, m, ok := DefaultLayout.Find('7')
	if !ok || r != 0 || c != 6 || m != ModeFunc {
		t.Fatalf("Find('7')=%d,%d,%v,%v, want 0,6,FUNC,true", r, c, m, ok)
	}
}

func TestParseTokens(t *testing.T) {
	t.Parallel()

	got, err := ParseTokens("nA b<enter><BKSP><lt>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []Key{'n', 'A', ' ', 'b', KeyEnter, KeyBackspace, '<'}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseTokens("<nope>"); !errors.Is(err, ErrBadToken) {
		t.Fatalf("err=%v, want ErrBadToken", err)
	}

	if _, err := ParseTokens("<enter"); !errors.Is(err, ErrBadToken) {
		t.Fatalf("err=%v, want ErrBadToken", err)
	}
}

func TestKey_Classes(t *testing.T) {
	t.Parallel()

	if !KeyHome.IsBack() || KeyHome.IsErase() {
		t.Fatal("home should be back but not erase")
	}

	if !KeyDelete.IsErase() || !KeyBackspace.IsBack() {
		t.Fatal("delete/backspace classes wrong")
	}

	if Key('|').IsPrintable() != true || KeyEnter.IsPrintable() {
		t.Fatal("printable classes wrong")
	}

	if got, want := KeyEnter.String(), "<enter>"; got != want {
		t.Fatalf("String=%q, want=%q", got, want)
	}
}
