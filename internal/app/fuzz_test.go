package app

import (
	"testing"

	"github.com/andymcblane/EinkPDA/internal/fs"
	"github.com/andymcblane/EinkPDA/internal/store"
	"github.com/andymcblane/EinkPDA/internal/testutil"
)

func FuzzMachine_KeepsStateConsistent(f *testing.F) {
	f.Add([]byte("nMilk\x00" + "20250120\x00" + "1" + "2" + "20250101\x00"))
	f.Add([]byte("nA\x0020250230\x00\x01\x0520250228\x00" + "14\x03"))
	f.Add([]byte{'n', 'x', 0, '2', '0', '2', '5', '0', '1', '0', '1', 0, '1', '3', '1', '4', '1', '5', 1})

	f.Fuzz(func(t *testing.T, data []byte) {
		fx := newFixture(t, nil, "Doctor|20250115|0|0\nBuy milk|20250120|0|0\n")
		stream := testutil.NewByteStream(data)

		for step := 0; stream.HasMore() && step < 500; step++ {
			k := stream.NextKey()

			if fx.m.HandleKey(k) {
				fx.m.Enter()
			}

			st := fx.m.State()

			switch st.Kind {
			case Detail, EditField:
				if !fx.st.Valid(st.Index) {
					t.Fatalf("step %d key %v: %v index %d out of range (len %d)", step, k, st.Kind, st.Index, fx.st.Len())
				}
			case CreateWizard:
				if st.Step < 0 || st.Step >= len(testProfile().Wizard) {
					t.Fatalf("step %d key %v: wizard step %d", step, k, st.Step)
				}
			}

			if !store.IsSorted(fx.st.Records(), fx.st.Schema().Less) {
				t.Fatalf("step %d key %v: records out of order", step, k)
			}

			_ = fx.m.View()
		}

		fresh := store.New(fs.NewReal(), fx.path, fx.st.Schema(), nil)
		if report := fresh.Reload(); report.Dropped != 0 {
			t.Fatalf("file has %d malformed lines after edits", report.Dropped)
		}
	})
}
