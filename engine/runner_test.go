package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/vfx/config"
)

func TestRunner_StepRunsDueJobs(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	ctx := NewContext(config.Default(), WithClock(clock))
	s := NewFrameScheduler(ctx)
	s.Start()
	r := NewRunner(ctx, s)

	runs := 0
	r.Every("monitor", 100*time.Millisecond, func() { runs++ })

	updates := 0
	s.AddUpdate("count", func(float64) { updates++ })

	for i := 0; i < 12; i++ {
		clock.Advance(s.Tick())
		r.Step(clock.Now())
	}

	// 12 ticks ≈ 200ms
	if runs != 1 {
		t.Errorf("Expected 1 job run in ~200ms with 100ms interval rescheduled from run time, got %d", runs)
	}
	if updates != 12 {
		t.Errorf("Expected 12 updates, got %d", updates)
	}
}

func TestRunner_JobPanicIsolated(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	ctx := NewContext(config.Default(), WithClock(clock))
	s := NewFrameScheduler(ctx)
	s.Start()
	r := NewRunner(ctx, s)

	ok := 0
	r.Every("bad", time.Millisecond, func() { panic("job") })
	r.Every("good", time.Millisecond, func() { ok++ })

	clock.Advance(time.Millisecond)
	r.Step(clock.Now())
	clock.Advance(time.Millisecond)
	r.Step(clock.Now())

	if ok != 2 {
		t.Errorf("Expected healthy job to run twice, got %d", ok)
	}
}

func TestRunner_RunStops(t *testing.T) {
	ctx := NewContext(config.Default())
	s := NewFrameScheduler(ctx)
	r := NewRunner(ctx, s)
	r.SetFrameInterval(time.Millisecond)

	frames := make(chan struct{}, 1)
	s.AddRender("signal", func(float64) {
		select {
		case frames <- struct{}{}:
		default:
		}
	})

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("Runner produced no frame")
	}

	r.Stop()
	r.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil on Stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Runner did not stop")
	}
	if s.Running() {
		t.Error("Scheduler should be stopped after Run returns")
	}
}

func TestRunner_RunCancel(t *testing.T) {
	ctx := NewContext(config.Default())
	r := NewRunner(ctx, NewFrameScheduler(ctx))

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(cctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
