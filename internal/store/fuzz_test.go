package store

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/andymcblane/EinkPDA/internal/record"
	"github.com/andymcblane/EinkPDA/internal/testutil"
)

// model is the store reduced to a slice and a stable sort.
type model struct {
	schema  Schema
	records []record.Record
}

func (m *model) cmp(a, b record.Record) int {
	switch {
	case m.schema.Less(a, b):
		return -1
	case m.schema.Less(b, a):
		return 1
	default:
		return 0
	}
}

func FuzzStore_MatchesModel(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3, 4, 5, 0, 9, 8, 7, 6, 5, 60, 0, 1, 2, 3, 45, 0, 0})
	f.Add([]byte{10, 20, 30, 40, 50, 60, 70, 80, 90, 99, 1, 2, 3, 4, 5, 6, 7, 8})
	f.Add([]byte("the quick brown fox jumps over the lazy dog"))

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, schema := range []Schema{taskSchema, logSchema} {
			s, path := newStore(t, schema, "")
			m := &model{schema: schema}
			cfg := testutil.DefaultOpGenConfig()
			gen := testutil.NewOpGenerator(data, schema.Codec.Arity, &cfg)

			for step := 0; gen.HasMore() && step < 200; step++ {
				op := gen.Next(len(m.records))
				applyOp(t, s, m, op)

				if diff := cmp.Diff(m.records, s.Records(), cmpopts.EquateEmpty()); diff != "" {
					t.Fatalf("step %d %v: records mismatch (-model +store):\n%s", step, op.Kind, diff)
				}

				if !IsSorted(s.Records(), schema.Less) {
					t.Fatalf("step %d %v: store not sorted", step, op.Kind)
				}
			}

			if err := s.Rewrite(); err != nil {
				t.Fatalf("final rewrite: %v", err)
			}

			var want strings.Builder
			for _, r := range m.records {
				want.WriteString(schema.Codec.Encode(r) + "\n")
			}

			if got := readFile(t, path); got != want.String() {
				t.Fatalf("file=%q, want=%q", got, want.String())
			}
		}
	})
}

func applyOp(t *testing.T, s *Store, m *model, op testutil.Op) {
	t.Helper()

	switch op.Kind {
	case testutil.OpAppend:
		r := record.Record(op.Fields)
		err := s.Append(r)

		if m.schema.Codec.Validate(r) != nil {
			if err == nil {
				t.Fatalf("append %q: want error", op.Fields)
			}

			return
		}

		if err != nil {
			t.Fatalf("append %q: %v", op.Fields, err)
		}

		m.records = append(m.records, r.Clone())
		slices.SortStableFunc(m.records, m.cmp)

	case testutil.OpDelete:
		if err := s.DeleteAt(op.Index); err != nil {
			t.Fatalf("delete %d: %v", op.Index, err)
		}

		if op.Index >= 0 && op.Index < len(m.records) {
			m.records = slices.Delete(m.records, op.Index, op.Index+1)
		}

	case testutil.OpEdit:
		idx, ok := s.EditField(op.Index, op.Field, op.Value)

		valid := op.Index >= 0 && op.Index < len(m.records) && !strings.Contains(op.Value, "|")
		if got, want := ok, valid; got != want {
			t.Fatalf("edit %d.%d=%q ok=%v, want=%v", op.Index, op.Field, op.Value, got, want)
		}

		if !ok {
			return
		}

		edited := m.records[op.Index].Clone()
		edited[op.Field] = op.Value
		m.records[op.Index] = edited
		slices.SortStableFunc(m.records, m.cmp)

		if r, _ := s.At(idx); !r.Equal(edited) {
			t.Fatalf("edit moved record to %d holding %q, want %q", idx, r, edited)
		}

		if err := s.Rewrite(); err != nil {
			t.Fatalf("rewrite after edit: %v", err)
		}

	case testutil.OpReload:
		report := s.Reload()
		if !report.Available && len(m.records) > 0 {
			t.Fatalf("reload: file unavailable with %d records written", len(m.records))
		}

	case testutil.OpRewrite:
		if err := s.Rewrite(); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}
}
