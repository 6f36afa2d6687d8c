package engine

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/vfx/config"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T) (*FrameScheduler, *MockTimeProvider, *Context) {
	t.Helper()
	clock := NewMockTimeProvider(epoch)
	ctx := NewContext(config.Default(), WithClock(clock))
	s := NewFrameScheduler(ctx)
	s.Start()
	return s, clock, ctx
}

func TestFrameScheduler_ExactTicks(t *testing.T) {
	tests := []struct {
		name string
		k    int
	}{
		{"one", 1},
		{"three", 3},
		{"at cap", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock, _ := newTestScheduler(t)
			calls := 0
			var alpha float64 = -1
			s.AddUpdate("count", func(dt float64) {
				calls++
				if dt != s.Tick().Seconds() {
					t.Errorf("Expected fixed dt, got %v", dt)
				}
			})
			s.AddRender("alpha", func(a float64) { alpha = a })

			clock.Advance(time.Duration(tt.k) * s.Tick())
			st := s.Frame(clock.Now())

			if calls != tt.k || st.Updates != tt.k {
				t.Errorf("Expected %d updates, got %d (stats %d)", tt.k, calls, st.Updates)
			}
			if alpha != 0 || st.Alpha != 0 {
				t.Errorf("Expected interpolation 0, got %v", alpha)
			}
		})
	}
}

func TestFrameScheduler_Interpolation(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	s.AddUpdate("noop", func(float64) {})

	clock.Advance(s.Tick() + s.Tick()/2)
	st := s.Frame(clock.Now())

	if st.Updates != 1 {
		t.Errorf("Expected 1 update, got %d", st.Updates)
	}
	if st.Alpha < 0.49 || st.Alpha > 0.51 {
		t.Errorf("Expected alpha ~0.5, got %v", st.Alpha)
	}
}

func TestFrameScheduler_SpiralCap(t *testing.T) {
	s, clock, ctx := newTestScheduler(t)
	calls := 0
	s.AddUpdate("count", func(float64) { calls++ })

	clock.Advance(10*time.Second + s.Tick()/4)
	st := s.Frame(clock.Now())

	if calls != ctx.Config.MaxUpdatesPerFrame {
		t.Fatalf("Expected capped at %d updates, got %d", ctx.Config.MaxUpdatesPerFrame, calls)
	}
	if st.Dropped == 0 {
		t.Error("Expected backlog to be dropped")
	}
	if st.Alpha >= 1 {
		t.Errorf("Only the fractional remainder should carry over, alpha %v", st.Alpha)
	}

	// Next normal frame runs one tick, not the backlog
	calls = 0
	clock.Advance(s.Tick())
	s.Frame(clock.Now())
	if calls != 1 {
		t.Errorf("Expected 1 update after recovery, got %d", calls)
	}
}

func TestFrameScheduler_PauseResume(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	calls := 0
	s.AddUpdate("count", func(float64) { calls++ })

	s.Pause()
	clock.Advance(5000 * time.Millisecond)
	st := s.Frame(clock.Now())
	if !st.Paused || calls != 0 {
		t.Fatalf("Paused frame must not run callbacks, ran %d", calls)
	}

	// Pause without intervening frames
	s.Pause()
	clock.Advance(5000 * time.Millisecond)
	s.Resume()

	clock.Advance(16 * time.Millisecond)
	st = s.Frame(clock.Now())
	if st.Delta != 16*time.Millisecond {
		t.Errorf("Expected one frame delta after resume, got %v", st.Delta)
	}
	if calls > 1 {
		t.Errorf("Expected at most one update after resume, got %d", calls)
	}
}

func TestFrameScheduler_StoppedDoesNothing(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	calls := 0
	s.AddUpdate("count", func(float64) { calls++ })
	s.Stop()

	clock.Advance(time.Second)
	s.Frame(clock.Now())
	if calls != 0 {
		t.Errorf("Stopped scheduler ran %d updates", calls)
	}
}

func TestFrameScheduler_CallbackFaultIsolated(t *testing.T) {
	var buf bytes.Buffer
	clock := NewMockTimeProvider(epoch)
	ctx := NewContext(config.Default(), WithClock(clock), WithLogger(log.New(&buf, "", 0)))
	s := NewFrameScheduler(ctx)
	s.Start()

	after := 0
	renders := 0
	s.AddUpdate("faulty", func(float64) { panic("update exploded") })
	s.AddUpdate("after", func(float64) { after++ })
	s.AddRender("render", func(float64) { renders++ })

	for i := 0; i < 3; i++ {
		clock.Advance(s.Tick())
		s.Frame(clock.Now())
	}

	if after != 3 || renders != 3 {
		t.Errorf("Expected healthy callbacks every frame, got %d updates / %d renders", after, renders)
	}
	if !strings.Contains(buf.String(), "faulty: panic: update exploded") {
		t.Errorf("Expected logged fault, got %q", buf.String())
	}
	if n := ctx.Status.Ints.Get("scheduler.faults").Load(); n != 3 {
		t.Errorf("Expected 3 recorded faults, got %d", n)
	}
}

func TestFrameScheduler_MutationDuringPass(t *testing.T) {
	s, clock, _ := newTestScheduler(t)

	var order []string
	var victim Handle
	added := false

	s.AddUpdate("mutator", func(float64) {
		order = append(order, "mutator")
		s.Remove(victim)
		if !added {
			added = true
			s.AddUpdate("late", func(float64) { order = append(order, "late") })
		}
	})
	victim = s.AddUpdate("victim", func(float64) { order = append(order, "victim") })

	clock.Advance(s.Tick())
	s.Frame(clock.Now())
	if strings.Join(order, ",") != "mutator" {
		t.Fatalf("Expected only mutator in first pass, got %v", order)
	}

	order = nil
	clock.Advance(s.Tick())
	s.Frame(clock.Now())
	if strings.Join(order, ",") != "mutator,late" {
		t.Errorf("Expected queued addition on next pass, got %v", order)
	}
}

func TestFrameScheduler_RemoveOutsidePass(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	calls := 0
	h := s.AddRender("r", func(float64) { calls++ })
	s.Remove(h)
	s.Remove(h)

	clock.Advance(s.Tick())
	s.Frame(clock.Now())
	if calls != 0 {
		t.Errorf("Removed render ran %d times", calls)
	}
}
