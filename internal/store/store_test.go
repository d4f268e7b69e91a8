package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andymcblane/EinkPDA/internal/fs"
	"github.com/andymcblane/EinkPDA/internal/record"
)

var (
	taskSchema = Schema{Name: "tasks", Codec: record.NewCodec(4), Less: Ascending(1)}
	logSchema  = Schema{Name: "health", Codec: record.NewCodec(3), Less: Descending(1)}
)

func newStore(t *testing.T, schema Schema, content string) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.txt")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	return New(fs.NewReal(), path, schema, nil), path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return string(data)
}

func TestAppend_KeepsTasksOrderedByDueDate(t *testing.T) {
	t.Parallel()

	s, path := newStore(t, taskSchema, "")

	if err := s.Append(record.Record{"Buy milk", "20250120", "0", "0"}); err != nil {
		t.Fatalf("append 1: %v", err)
	}

	if err := s.Append(record.Record{"Doctor", "20250115", "0", "0"}); err != nil {
		t.Fatalf("append 2: %v", err)
	}

	want := []record.Record{
		{"Doctor", "20250115", "0", "0"},
		{"Buy milk", "20250120", "0", "0"},
	}
	if diff := cmp.Diff(want, s.Records()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	if got, want := readFile(t, path), "Doctor|20250115|0|0\nBuy milk|20250120|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestAppend_KeepsLogNewestFirst(t *testing.T) {
	t.Parallel()

	s, path := newStore(t, logSchema, "")

	for _, r := range []record.Record{
		{"3", "20250101120000", ""},
		{"4", "20250102080000", ""},
		{"2", "20241231235959", "late"},
	} {
		if err := s.Append(r); err != nil {
			t.Fatalf("append %v: %v", r, err)
		}
	}

	if got, want := readFile(t, path), "4|20250102080000|\n3|20250101120000|\n2|20241231235959|late\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}

	if !IsSorted(s.Records(), logSchema.Less) {
		t.Fatalf("records not sorted: %v", s.Records())
	}
}

func TestAppend_ReloadsDiskFirst(t *testing.T) {
	t.Parallel()

	s, path := newStore(t, taskSchema, "A|20250101|0|0\n")
	s.Reload()

	// Another writer adds a record behind the store's back.
	if err := fs.AppendLine(fs.NewReal(), path, "B|20250103|0|0"); err != nil {
		t.Fatalf("external append: %v", err)
	}

	if err := s.Append(record.Record{"C", "20250102", "0", "0"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if got, want := readFile(t, path), "A|20250101|0|0\nC|20250102|0|0\nB|20250103|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestAppend_RejectsInvalidRecordWithoutWriting(t *testing.T) {
	t.Parallel()

	s, path := newStore(t, taskSchema, "A|20250101|0|0\n")
	s.Reload()

	err := s.Append(record.Record{"pipe|name", "20250101", "0", "0"})
	if !errors.Is(err, ErrInvalidRecord) || !errors.Is(err, record.ErrDelimiter) {
		t.Fatalf("err=%v, want ErrInvalidRecord wrapping ErrDelimiter", err)
	}

	err = s.Append(record.Record{"short"})
	if !errors.Is(err, record.ErrArity) {
		t.Fatalf("err=%v, want ErrArity", err)
	}

	if got, want := readFile(t, path), "A|20250101|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}

	if got, want := s.Len(), 1; got != want {
		t.Fatalf("len=%d, want=%d", got, want)
	}
}

func TestReload_IsIdempotent(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, taskSchema, "B|20250103|0|0\nA|20250101|0|1\n")

	first := s.Reload()
	recs := s.Records()
	second := s.Reload()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("report mismatch (-first +second):\n%s", diff)
	}

	if diff := cmp.Diff(recs, s.Records()); diff != "" {
		t.Fatalf("records mismatch (-first +second):\n%s", diff)
	}

	if got, want := s.Records()[0][0], "A"; got != want {
		t.Fatalf("first=%q, want=%q", got, want)
	}
}

func TestReload_DropsMalformedLinesAndRewriteForgetsThem(t *testing.T) {
	t.Parallel()

	content := "A|20250101|0|0\n" +
		"garbage\n" +
		"\n" +
		"   \n" +
		"B|20250102|0\n" +
		"C|20250103|0|0\r\n"
	s, path := newStore(t, taskSchema, content)

	report := s.Reload()

	want := LoadReport{Available: true, Loaded: 2, Dropped: 2}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}

	if err := s.Rewrite(); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	if got, want := readFile(t, path), "A|20250101|0|0\nC|20250103|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestReload_MissingFileLeavesStoreEmpty(t *testing.T) {
	t.Parallel()

	s, path := newStore(t, taskSchema, "")
	s.records = []record.Record{{"stale", "20250101", "0", "0"}}

	report := s.Reload()
	if report.Available || !report.Missing {
		t.Fatalf("report=%+v, want unavailable and missing", report)
	}

	if got, want := s.Len(), 0; got != want {
		t.Fatalf("len=%d, want=%d", got, want)
	}

	// Appending to a fresh device creates the file.
	if err := s.Append(record.Record{"A", "20250101", "0", "0"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if got, want := readFile(t, path), "A|20250101|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestStore_UnreadableFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tasks.txt")
	if err := os.WriteFile(path, []byte("A|20250101|0|0\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	chaos := fs.NewChaos(fs.NewReal(), 1, fs.DefaultChaosConfig())
	chaos.SetMode(fs.ChaosModeStickyOnly)
	chaos.SetPathState(path, fs.PathIOError)

	s := New(chaos, path, taskSchema, nil)

	report := s.Reload()
	if report.Available || report.Missing {
		t.Fatalf("report=%+v, want unavailable and not missing", report)
	}

	if got, want := s.Len(), 0; got != want {
		t.Fatalf("len=%d, want=%d", got, want)
	}

	err := s.Append(record.Record{"B", "20250102", "0", "0"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v, want ErrUnavailable", err)
	}

	if got, want := readFile(t, path), "A|20250101|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestRewrite_ReportsWriteFailure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tasks.txt")
	if err := os.WriteFile(path, []byte("A|20250101|0|0\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	chaos := fs.NewChaos(fs.NewReal(), 1, fs.DefaultChaosConfig())
	s := New(chaos, path, taskSchema, nil)
	s.Reload()

	chaos.SetMode(fs.ChaosModeStickyOnly)
	chaos.SetPathState(path, fs.PathReadOnly)

	err := s.DeleteAt(0)
	if err == nil || !fs.IsInjected(err) {
		t.Fatalf("err=%v, want injected write error", err)
	}
}

func TestDeleteAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		index    int
		wantFile string
	}{
		{name: "first", index: 0, wantFile: "B|20250102|0|0\nC|20250103|0|0\n"},
		{name: "last", index: 2, wantFile: "A|20250101|0|0\nB|20250102|0|0\n"},
		{name: "negative is no-op", index: -1, wantFile: "A|20250101|0|0\nB|20250102|0|0\nC|20250103|0|0\n"},
		{name: "past end is no-op", index: 3, wantFile: "A|20250101|0|0\nB|20250102|0|0\nC|20250103|0|0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, path := newStore(t, taskSchema, "A|20250101|0|0\nB|20250102|0|0\nC|20250103|0|0\n")
			s.Reload()

			if err := s.DeleteAt(tt.index); err != nil {
				t.Fatalf("delete: %v", err)
			}

			if got := readFile(t, path); got != tt.wantFile {
				t.Fatalf("file=%q, want=%q", got, tt.wantFile)
			}
		})
	}
}

func TestDeleteAt_OutOfRangeDoesNotTouchFile(t *testing.T) {
	t.Parallel()

	// The file holds a malformed line; a rewrite would drop it.
	s, path := newStore(t, taskSchema, "A|20250101|0|0\nbroken\n")
	s.Reload()

	if err := s.DeleteAt(5); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got, want := readFile(t, path), "A|20250101|0|0\nbroken\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestEditField(t *testing.T) {
	t.Parallel()

	s, path := newStore(t, taskSchema, "Buy milk|20250120|0|0\nDoctor|20250115|0|0\n")
	s.Reload()

	idx, ok := s.EditField(1, 0, "Buy oat milk")
	if !ok {
		t.Fatal("edit name: ok=false")
	}

	if got, want := idx, 1; got != want {
		t.Fatalf("index=%d, want=%d", got, want)
	}

	// Not persisted until rewrite.
	if got, want := readFile(t, path), "Buy milk|20250120|0|0\nDoctor|20250115|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}

	if err := s.Rewrite(); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	if got, want := readFile(t, path), "Doctor|20250115|0|0\nBuy oat milk|20250120|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestEditField_ReordersOnSortKey(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, taskSchema, "A|20250101|0|0\nB|20250102|0|0\nC|20250103|0|0\n")
	s.Reload()

	idx, ok := s.EditField(0, 1, "20250110")
	if !ok {
		t.Fatal("ok=false")
	}

	if got, want := idx, 2; got != want {
		t.Fatalf("index=%d, want=%d", got, want)
	}

	rec, _ := s.At(idx)
	if got, want := rec[0], "A"; got != want {
		t.Fatalf("moved record=%q, want=%q", got, want)
	}
}

func TestEditField_RejectsBadInput(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, taskSchema, "A|20250101|0|0\n")
	s.Reload()

	for _, tc := range []struct {
		index, field int
		value        string
	}{
		{index: 1, field: 0, value: "x"},
		{index: -1, field: 0, value: "x"},
		{index: 0, field: 4, value: "x"},
		{index: 0, field: 0, value: "a|b"},
	} {
		if _, ok := s.EditField(tc.index, tc.field, tc.value); ok {
			t.Fatalf("EditField(%d, %d, %q) ok=true, want false", tc.index, tc.field, tc.value)
		}
	}

	rec, _ := s.At(0)
	if diff := cmp.Diff(record.Record{"A", "20250101", "0", "0"}, rec); diff != "" {
		t.Fatalf("record changed (-want +got):\n%s", diff)
	}
}

func TestAt_ReturnsCopy(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, taskSchema, "A|20250101|0|0\n")
	s.Reload()

	rec, ok := s.At(0)
	if !ok {
		t.Fatal("ok=false")
	}

	rec[0] = "mutated"

	again, _ := s.At(0)
	if got, want := again[0], "A"; got != want {
		t.Fatalf("name=%q, want=%q", got, want)
	}

	if _, ok := s.At(1); ok {
		t.Fatal("At(1) ok=true, want false")
	}
}

func TestRewrite_EmptyStoreTruncates(t *testing.T) {
	t.Parallel()

	s, path := newStore(t, taskSchema, "A|20250101|0|0\n")
	s.Reload()

	if err := s.DeleteAt(0); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got, want := readFile(t, path), ""; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}

	if report := s.Reload(); !report.Available || report.Loaded != 0 {
		t.Fatalf("report=%+v, want available and empty", report)
	}
}

func TestRewrite_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sys", "events.txt")
	s := New(fs.NewReal(), path, Schema{Name: "calendar", Codec: record.NewCodec(6), Less: Ascending(1, 2)}, nil)

	if err := s.Append(record.Record{"Standup", "20250106", "0930", "15", "DAILY", ""}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if got, want := readFile(t, path), "Standup|20250106|0930|15|DAILY|\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestReload_OverlongLineIsDroppedNotFatal(t *testing.T) {
	t.Parallel()

	content := "Buy milk|20250120|0|0\n" + strings.Repeat("x", 70000) + "\n" +
		"Doctor|20250115|0|0"
	s, path := newStore(t, taskSchema, content)

	report := s.Reload()

	want := LoadReport{Available: true, Loaded: 2, Dropped: 1}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}

	if err := s.Append(record.Record{"Call mom", "20250118", "0", "0"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if got, want := readFile(t, path), "Doctor|20250115|0|0\nCall mom|20250118|0|0\nBuy milk|20250120|0|0\n"; got != want {
		t.Fatalf("file=%q, want=%q", got, want)
	}
}

func TestAppend_NewFirstBreaksTiesNewestFirst(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		newFirst bool
		want     string
	}{
		{name: "default appends after equal keys", newFirst: false, want: "old|20250101120000|\nnew|20250101120000|\n"},
		{name: "new first", newFirst: true, want: "new|20250101120000|\nold|20250101120000|\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schema := logSchema
			schema.NewFirst = tt.newFirst
			s, path := newStore(t, schema, "")

			for _, note := range []string{"old", "new"} {
				if err := s.Append(record.Record{note, "20250101120000", ""}); err != nil {
					t.Fatalf("append %s: %v", note, err)
				}
			}

			if got := readFile(t, path); got != tt.want {
				t.Fatalf("file=%q, want=%q", got, tt.want)
			}

			s.Reload()

			if got, want := s.Records()[0].Field(0), strings.Split(tt.want, "|")[0]; got != want {
				t.Fatalf("after reload first=%q, want=%q", got, want)
			}
		})
	}
}
