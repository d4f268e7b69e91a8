package display

import (
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestSignal_TakeClears(t *testing.T) {
	t.Parallel()

	var s Signal

	if redraw, full := s.Take(); redraw || full {
		t.Fatalf("fresh signal=%v,%v, want false,false", redraw, full)
	}

	s.Invalidate(false)

	if redraw, full := s.Take(); !redraw || full {
		t.Fatalf("partial=%v,%v, want true,false", redraw, full)
	}

	if redraw, _ := s.Take(); redraw {
		t.Fatal("second take still pending")
	}
}

func TestSignal_FullIsNotDowngraded(t *testing.T) {
	t.Parallel()

	var s Signal

	s.Invalidate(true)
	s.Invalidate(false)

	if redraw, full := s.Take(); !redraw || !full {
		t.Fatalf("take=%v,%v, want true,true", redraw, full)
	}
}

func TestSignal_ConcurrentSetAndTake(t *testing.T) {
	t.Parallel()

	var (
		s  Signal
		wg sync.WaitGroup
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		for range 1000 {
			s.Invalidate(false)
		}
	}()

	for range 1000 {
		s.Take()
	}

	wg.Wait()

	s.Invalidate(true)

	if !s.Pending() {
		t.Fatal("pending=false after invalidate")
	}
}

func TestScreen_Render(t *testing.T) {
	t.Parallel()

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))

	s := Screen{
		Title:  "TASKS",
		Lines:  []string{"1 Doctor                    01/15/25", "2 A task name long enough to be clipped by the panel"},
		Prompt: "Due (YYYYMMDD)",
		Input:  "2025",
		Flash:  "Invalid Date",
		Status: "FUNC",
	}

	g.Assert(t, "screen_render", []byte(s.Render()))
}
