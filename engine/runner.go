package engine

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vfx/core"
	"github.com/lixenwraith/vfx/parameter"
)

type job struct {
	label string
	every time.Duration
	next  time.Time
	fn    func()
}

// Runner is the host loop: one goroutine drives frames and interval jobs
// All simulation state is mutated from that goroutine, so jobs and frames never overlap
type Runner struct {
	sched    *FrameScheduler
	clock    TimeProvider
	interval time.Duration
	logger   *log.Logger

	jobs []*job

	running  atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewRunner creates a runner presenting frames every parameter.FrameInterval
func NewRunner(ctx *Context, sched *FrameScheduler) *Runner {
	return &Runner{
		sched:    sched,
		clock:    ctx.Clock,
		interval: parameter.FrameInterval,
		logger:   ctx.Logger,
		stopChan: make(chan struct{}),
	}
}

// SetFrameInterval changes the presentation interval, must be called before Run
func (r *Runner) SetFrameInterval(d time.Duration) {
	if d > 0 {
		r.interval = d
	}
}

// Scheduler returns the driven frame scheduler
func (r *Runner) Scheduler() *FrameScheduler { return r.sched }

// Every schedules fn on a wall-clock interval, first run one interval from now
// Must be called from the runner goroutine or before Run
func (r *Runner) Every(label string, interval time.Duration, fn func()) {
	if interval <= 0 || fn == nil {
		return
	}
	r.jobs = append(r.jobs, &job{
		label: label,
		every: interval,
		next:  r.clock.Now().Add(interval),
		fn:    fn,
	})
}

// Step runs one frame at now, then every due job
// A job that fell behind runs once and is rescheduled from now
func (r *Runner) Step(now time.Time) FrameStats {
	st := r.sched.Frame(now)
	for _, j := range r.jobs {
		if now.Before(j.next) {
			continue
		}
		core.Guard(r.logger, j.label, j.fn)
		j.next = now.Add(j.every)
	}
	return st
}

// Run starts the scheduler and drives Step from a frame ticker until ctx ends or Stop is called
// Returns ctx.Err() on cancellation, nil on Stop
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return nil
	}
	defer r.running.Store(false)

	r.sched.Start()
	defer r.sched.Stop()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopChan:
			return nil
		case <-ticker.C:
			// Stop may race with the tick; do not present a frame after it
			select {
			case <-r.stopChan:
				return nil
			default:
			}
			r.Step(r.clock.Now())
		}
	}
}

// Stop ends Run, cancelling the pending frame; safe to call more than once
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
}

// Running reports whether Run is active
func (r *Runner) Running() bool { return r.running.Load() }
