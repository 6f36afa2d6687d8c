package pool

import "testing"

type item struct {
	value int
}

func newItemPool(capacity int) (*Pool[*item], *int) {
	resets := 0
	p := New(
		func() *item { return &item{} },
		func(it *item) { it.value = 0; resets++ },
		capacity,
	)
	return p, &resets
}

func TestPool_AcquireReleaseRoundTrip(t *testing.T) {
	p, resets := newItemPool(10)
	p.PreFill(5)

	before := p.Free()
	it := p.Acquire()
	it.value = 42
	if !p.Release(it) {
		t.Fatal("Release under capacity should succeed")
	}
	if p.Free() != before {
		t.Errorf("Expected free count %d restored, got %d", before, p.Free())
	}

	again := p.Acquire()
	if again.value != 0 {
		t.Errorf("Reset hook should clear value, got %d", again.value)
	}
	if *resets != 2 {
		t.Errorf("Expected 2 resets, got %d", *resets)
	}
}

func TestPool_AcquireBeyondCapacity(t *testing.T) {
	p, _ := newItemPool(20)

	live := make([]*item, 0, 25)
	for i := 0; i < 25; i++ {
		live = append(live, p.Acquire())
	}

	if len(live) != 25 {
		t.Fatalf("Expected 25 live objects, got %d", len(live))
	}
	seen := make(map[*item]bool)
	for _, it := range live {
		if seen[it] {
			t.Fatal("Acquire returned the same object twice")
		}
		seen[it] = true
	}
	if p.Free() != 0 {
		t.Errorf("Expected empty free list, got %d", p.Free())
	}
	if s := p.Stats(); s.TotalAllocated != 20 {
		t.Errorf("Expected total allocated capped at 20, got %d", s.TotalAllocated)
	}

	// Only capacity objects are retained on release
	retained := 0
	for _, it := range live {
		if p.Release(it) {
			retained++
		}
	}
	if retained != 20 || p.Free() != 20 {
		t.Errorf("Expected 20 retained, got %d (free %d)", retained, p.Free())
	}
}

func TestPool_PreFillBounded(t *testing.T) {
	p, _ := newItemPool(8)
	if n := p.PreFill(100); n != 8 {
		t.Errorf("Expected PreFill bounded at 8, got %d", n)
	}
	if n := p.PreFill(1); n != 0 {
		t.Errorf("Expected no room left, got %d", n)
	}
}

func TestPool_Resize(t *testing.T) {
	p, _ := newItemPool(16)
	p.PreFill(16)

	p.Resize(4)
	if p.Free() != 4 || p.Capacity() != 4 {
		t.Errorf("Expected free 4 / cap 4, got %d / %d", p.Free(), p.Capacity())
	}

	p.Resize(32)
	if n := p.PreFill(100); n != 28 {
		t.Errorf("Expected 28 added after grow, got %d", n)
	}
}

func TestPool_Stats(t *testing.T) {
	tests := []struct {
		name     string
		prefill  int
		acquire  int
		wantUtil float64
	}{
		{"empty", 0, 0, 0},
		{"all free", 4, 0, 0},
		{"half used", 4, 2, 0.5},
		{"all used", 4, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newItemPool(4)
			p.PreFill(tt.prefill)
			for i := 0; i < tt.acquire; i++ {
				p.Acquire()
			}
			if got := p.Stats().Utilization; got != tt.wantUtil {
				t.Errorf("Utilization = %v, want %v", got, tt.wantUtil)
			}
		})
	}
}

func TestPool_Clear(t *testing.T) {
	p, _ := newItemPool(4)
	p.PreFill(4)
	p.Clear()
	if p.Free() != 0 {
		t.Errorf("Expected empty free list after Clear, got %d", p.Free())
	}
	if p.Acquire() == nil {
		t.Error("Acquire after Clear must construct")
	}
}
