package engine

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vfx/core"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/status"
)

// Handle identifies a registered callback
type Handle uint64

// FrameStats describes one Frame invocation
type FrameStats struct {
	Delta   time.Duration // Wall time since the previous frame
	Updates int           // Fixed updates run
	Alpha   float64       // Interpolation factor passed to render callbacks
	Dropped time.Duration // Backlog discarded by the update cap
	Paused  bool
}

type callback struct {
	handle  Handle
	label   string
	update  func(dt float64)
	render  func(alpha float64)
	removed bool
}

// FrameScheduler runs update callbacks on a fixed tick and render callbacks once per frame
//
// Each Frame adds elapsed wall time to an accumulator and runs updates while a
// whole tick is owed, up to maxUpdates. When the cap is hit the whole-tick backlog
// is dropped and only the fractional remainder carries over
type FrameScheduler struct {
	clock      TimeProvider
	tick       time.Duration
	tickSec    float64
	maxUpdates int
	logger     *log.Logger

	accumulator time.Duration
	lastTick    time.Time
	lastDelta   time.Duration
	running     bool
	paused      bool

	updates []*callback
	renders []*callback
	nextID  Handle

	inPass        bool
	pendingAdd    []*callback
	pendingRemove []Handle

	fps *FPSMeter

	statFrames  *atomic.Int64
	statUpdates *atomic.Int64
	statDropped *atomic.Int64
	statFaults  *atomic.Int64
	statFPS     *status.AtomicFloat
}

// NewFrameScheduler creates a stopped scheduler from the context's config
func NewFrameScheduler(ctx *Context) *FrameScheduler {
	tick := ctx.Config.TickInterval()
	maxUpdates := ctx.Config.MaxUpdatesPerFrame
	if maxUpdates < 1 {
		maxUpdates = parameter.MaxUpdatesPerFrame
	}

	s := &FrameScheduler{
		clock:      ctx.Clock,
		tick:       tick,
		tickSec:    tick.Seconds(),
		maxUpdates: maxUpdates,
		logger:     ctx.Logger,
		fps:        NewFPSMeter(parameter.FPSSampleWindow, parameter.FPSHistorySize, ctx.Logger),

		statFrames:  ctx.Status.Ints.Get("scheduler.frames"),
		statUpdates: ctx.Status.Ints.Get("scheduler.updates"),
		statDropped: ctx.Status.Ints.Get("scheduler.dropped_ticks"),
		statFaults:  ctx.Status.Ints.Get("scheduler.faults"),
		statFPS:     ctx.Status.Floats.Get("scheduler.fps"),
	}
	s.fps.OnChange(func(fps float64) { s.statFPS.Store(fps) })
	return s
}

// Tick returns the fixed update step
func (s *FrameScheduler) Tick() time.Duration { return s.tick }

// FPS exposes the frame rate meter
func (s *FrameScheduler) FPS() *FPSMeter { return s.fps }

// Start arms the scheduler; the first Frame measures from now
func (s *FrameScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.paused = false
	s.accumulator = 0
	s.lastTick = s.clock.Now()
	s.fps.Reset()
}

// Stop disarms the scheduler; later Frame calls do nothing
func (s *FrameScheduler) Stop() {
	s.running = false
}

// Pause halts callbacks while frames keep being measured
func (s *FrameScheduler) Pause() {
	s.paused = true
}

// Resume restarts callbacks, measuring the next delta from now
func (s *FrameScheduler) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.lastTick = s.clock.Now()
}

// FrameDelta returns the wall time measured by the latest Frame
// Time spent paused is never included: Resume restarts the measurement
func (s *FrameScheduler) FrameDelta() time.Duration { return s.lastDelta }

// Running reports whether the scheduler is started
func (s *FrameScheduler) Running() bool { return s.running }

// Paused reports whether callbacks are halted
func (s *FrameScheduler) Paused() bool { return s.paused }

// AddUpdate registers fn to run every fixed tick with dt in seconds
func (s *FrameScheduler) AddUpdate(label string, fn func(dt float64)) Handle {
	return s.add(&callback{label: label, update: fn})
}

// AddRender registers fn to run once per frame with the interpolation factor
func (s *FrameScheduler) AddRender(label string, fn func(alpha float64)) Handle {
	return s.add(&callback{label: label, render: fn})
}

func (s *FrameScheduler) add(cb *callback) Handle {
	s.nextID++
	cb.handle = s.nextID
	if cb.label == "" {
		cb.label = fmt.Sprintf("callback %d", cb.handle)
	}
	if s.inPass {
		s.pendingAdd = append(s.pendingAdd, cb)
	} else {
		s.attach(cb)
	}
	return cb.handle
}

func (s *FrameScheduler) attach(cb *callback) {
	if cb.update != nil {
		s.updates = append(s.updates, cb)
	} else {
		s.renders = append(s.renders, cb)
	}
}

// Remove unregisters h; during a pass the callback is skipped from then on
func (s *FrameScheduler) Remove(h Handle) {
	for _, list := range [][]*callback{s.updates, s.renders, s.pendingAdd} {
		for _, cb := range list {
			if cb.handle == h {
				cb.removed = true
			}
		}
	}
	if s.inPass {
		s.pendingRemove = append(s.pendingRemove, h)
		return
	}
	s.compact()
}

// Frame advances the scheduler to now
func (s *FrameScheduler) Frame(now time.Time) FrameStats {
	if !s.running {
		return FrameStats{}
	}

	delta := now.Sub(s.lastTick)
	if delta < 0 {
		delta = 0
	}
	s.lastTick = now
	s.lastDelta = delta
	s.fps.Frame(now)
	s.statFrames.Add(1)

	if s.paused {
		return FrameStats{Delta: delta, Paused: true}
	}

	st := FrameStats{Delta: delta}
	s.accumulator += delta
	s.inPass = true

	for s.accumulator >= s.tick && st.Updates < s.maxUpdates {
		for _, cb := range s.updates {
			if cb.removed {
				continue
			}
			s.invoke(cb, func() { cb.update(s.tickSec) })
		}
		s.accumulator -= s.tick
		st.Updates++
	}

	if s.accumulator >= s.tick {
		st.Dropped = s.accumulator - s.accumulator%s.tick
		s.accumulator %= s.tick
		s.statDropped.Add(int64(st.Dropped / s.tick))
	}

	st.Alpha = float64(s.accumulator) / float64(s.tick)
	for _, cb := range s.renders {
		if cb.removed {
			continue
		}
		s.invoke(cb, func() { cb.render(st.Alpha) })
	}

	s.inPass = false
	s.flushPending()
	s.statUpdates.Add(int64(st.Updates))
	return st
}

// Step runs a frame at the clock's current time
func (s *FrameScheduler) Step() FrameStats {
	return s.Frame(s.clock.Now())
}

func (s *FrameScheduler) invoke(cb *callback, fn func()) {
	if r := core.Guard(s.logger, cb.label, fn); r != nil {
		s.statFaults.Add(1)
	}
}

func (s *FrameScheduler) flushPending() {
	for _, cb := range s.pendingAdd {
		if !cb.removed {
			s.attach(cb)
		}
	}
	clear(s.pendingAdd)
	s.pendingAdd = s.pendingAdd[:0]

	if len(s.pendingRemove) > 0 {
		s.pendingRemove = s.pendingRemove[:0]
		s.compact()
	}
}

func (s *FrameScheduler) compact() {
	s.updates = dropRemoved(s.updates)
	s.renders = dropRemoved(s.renders)
}

func dropRemoved(list []*callback) []*callback {
	kept := list[:0]
	for _, cb := range list {
		if !cb.removed {
			kept = append(kept, cb)
		}
	}
	clear(list[len(kept):])
	return kept
}
