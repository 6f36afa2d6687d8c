package status

import (
	"slices"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMetricMap_GetReturnsCachedPointer(t *testing.T) {
	r := NewRegistry()

	a := r.Ints.Get("particles.active")
	b := r.Ints.Get("particles.active")
	if a != b {
		t.Fatal("Expected identical pointer for repeated Get")
	}

	a.Store(42)
	if got := b.Load(); got != 42 {
		t.Errorf("Expected 42 through cached pointer, got %d", got)
	}
}

func TestAtomicFloat_ConcurrentAdd(t *testing.T) {
	var f AtomicFloat
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				f.Add(0.5)
			}
		}()
	}
	wg.Wait()

	if got := f.Load(); got != 4000 {
		t.Errorf("Expected 4000, got %f", got)
	}
}

func TestAtomicString_Truncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("Expected zero value to be empty")
	}

	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	s.Store(long)
	if got := s.Load(); got != long[:MaxStringLen] {
		t.Errorf("Expected truncated string, got %q", got)
	}
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("render.draw_calls").Store(7)
	r.Floats.Get("quality.level").Store(0.75)
	r.Strings.Get("theme.name").Store("neon")
	r.Bools.Get("render.layer").Store(true)

	snap := r.Snapshot()

	if snap.Ints["render.draw_calls"] != 7 {
		t.Errorf("Expected draw_calls 7, got %d", snap.Ints["render.draw_calls"])
	}
	if snap.Floats["quality.level"] != 0.75 {
		t.Errorf("Expected quality 0.75, got %f", snap.Floats["quality.level"])
	}
	if snap.Strings["theme.name"] != "neon" {
		t.Errorf("Expected theme neon, got %q", snap.Strings["theme.name"])
	}
	if !snap.Bools["render.layer"] {
		t.Error("Expected render.layer true")
	}

	// Snapshot is detached from live values
	r.Ints.Get("render.draw_calls").Store(99)
	if snap.Ints["render.draw_calls"] != 7 {
		t.Error("Snapshot should not change after registry update")
	}
	if r.TotalCount() != 4 {
		t.Errorf("Expected 4 metrics, got %d", r.TotalCount())
	}
}

func TestRegistry_Scope(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("scheduler.frames").Store(3)
	r.Ints.Get("scheduler.updates").Store(5)
	r.Ints.Get("render.draw_calls").Store(1)

	snap := r.Scope("scheduler.")
	if len(snap.Ints) != 2 {
		t.Errorf("Expected 2 scheduler metrics, got %v", snap.Ints)
	}
	if _, ok := snap.Ints["render.draw_calls"]; ok {
		t.Error("Scope should exclude other owners")
	}

	var keys []string
	r.Ints.Range("", func(k string, _ *atomic.Int64) { keys = append(keys, k) })
	want := []string{"render.draw_calls", "scheduler.frames", "scheduler.updates"}
	if !slices.Equal(keys, want) {
		t.Errorf("Expected %v, got %v", want, keys)
	}

	if r.Ints.Lookup("missing") != nil {
		t.Error("Lookup should not allocate")
	}
	if r.Ints.Count() != 3 {
		t.Errorf("Expected 3 metrics, got %d", r.Ints.Count())
	}
}
