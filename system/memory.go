package system

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/vfx/engine"
	"github.com/lixenwraith/vfx/event"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/particle"
	"github.com/lixenwraith/vfx/status"
)

// ManagedPool is a pool the memory manager can observe and shrink
type ManagedPool interface {
	ID() uuid.UUID
	Name() string
	MemoryStats() particle.MemoryStats
	Maintain() particle.MaintainResult
	Compact() int
	Clear() int
}

// ReportSink receives every monitoring report
// A sink returning an error is disabled for the rest of the manager's life
type ReportSink interface {
	Report(Report) error
}

// Pressure levels carried in reports
const (
	LevelOK       = "ok"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// PoolReport is one pool's share of a report
type PoolReport struct {
	ID    string               `json:"id"`
	Name  string               `json:"name"`
	Stats particle.MemoryStats `json:"stats"`
}

// Report is the result of one monitoring pass
type Report struct {
	Time        time.Time       `json:"time"`
	UsedBytes   int64           `json:"used_bytes"`
	BudgetBytes int64           `json:"budget_bytes"`
	Pressure    float64         `json:"pressure"`
	Level       string          `json:"level"`
	Pools       []PoolReport    `json:"pools"`
	Maintained  int             `json:"maintained"` // Pools shrunk by periodic maintenance
	Compacted   int             `json:"compacted"`  // Free particles dropped by auto-optimization
	Reclaimed   bool            `json:"reclaimed"`  // Reclamation hint issued
	HeapBytes   uint64          `json:"heap_bytes"` // Runtime heap, informational only
	Metrics     status.Snapshot `json:"metrics"`
}

type sinkEntry struct {
	sink     ReportSink
	disabled bool
}

// MemoryManager watches estimated memory across pools against a budget
//
// Every pass runs each pool's maintenance, which shrinks pools over their own threshold.
// Pressure above the warning threshold emits MemoryWarning, at the alert threshold
// PerformanceCritical with source "memory". At the optimize threshold every pool
// compacts itself; at the alert threshold a reclamation hint is also issued.
// An EmergencyCleanup event or an explicit PerformanceCritical clears every pool
// and forces reclamation
type MemoryManager struct {
	ctx    *engine.Context
	budget int64

	pools []ManagedPool
	sinks []*sinkEntry
	subs  []event.Subscription

	reclaim      func()
	forceReclaim func()

	statPressure   *status.AtomicFloat
	statUsed       *atomic.Int64
	statChecks     *atomic.Int64
	statCleanups   *atomic.Int64
	statDisabled   *atomic.Int64
	statCompacted  *atomic.Int64
	statMaintained *atomic.Int64
}

// NewMemoryManager creates a manager subscribed to the emergency signals
func NewMemoryManager(ctx *engine.Context) *MemoryManager {
	reg := ctx.Status
	m := &MemoryManager{
		ctx:          ctx,
		budget:       ctx.Config.MemoryBudgetBytes(),
		reclaim:      runtime.GC,
		forceReclaim: debug.FreeOSMemory,

		statPressure:   reg.Floats.Get("memory.pressure"),
		statUsed:       reg.Ints.Get("memory.used_bytes"),
		statChecks:     reg.Ints.Get("memory.checks"),
		statCleanups:   reg.Ints.Get("memory.emergency_cleanups"),
		statDisabled:   reg.Ints.Get("memory.sinks_disabled"),
		statCompacted:  reg.Ints.Get("memory.compacted"),
		statMaintained: reg.Ints.Get("memory.pools_shrunk"),
	}
	if m.budget <= 0 {
		m.budget = int64(parameter.MemoryBudgetMB * 1024 * 1024)
	}
	m.subs = append(m.subs,
		event.Subscribe(ctx.Bus, func(e event.EmergencyCleanup) {
			m.EmergencyCleanup(e.Reason)
		}),
		event.Subscribe(ctx.Bus, func(e event.PerformanceCritical) {
			if e.Source == event.SourceExplicit {
				m.EmergencyCleanup("explicit performance-critical")
			}
		}),
	)
	return m
}

// SetReclaimHints replaces the reclamation hooks, nil disables a hook
func (m *MemoryManager) SetReclaimHints(hint, force func()) {
	m.reclaim = hint
	m.forceReclaim = force
}

// Register adds a pool; registering the same ID twice is a no-op
func (m *MemoryManager) Register(p ManagedPool) {
	for _, existing := range m.pools {
		if existing.ID() == p.ID() {
			return
		}
	}
	m.pools = append(m.pools, p)
}

// Unregister removes the pool with id
func (m *MemoryManager) Unregister(id uuid.UUID) bool {
	for i, p := range m.pools {
		if p.ID() == id {
			m.pools = append(m.pools[:i], m.pools[i+1:]...)
			return true
		}
	}
	return false
}

// Pools returns the number of registered pools
func (m *MemoryManager) Pools() int { return len(m.pools) }

// AddSink registers a report sink
func (m *MemoryManager) AddSink(s ReportSink) {
	m.sinks = append(m.sinks, &sinkEntry{sink: s})
}

// Attach schedules Check on the runner's monitoring interval
func (m *MemoryManager) Attach(r *engine.Runner) {
	r.Every("memory monitor", m.ctx.Config.MonitoringInterval(), func() { m.Check() })
}

// Close unsubscribes from the bus
func (m *MemoryManager) Close() {
	for _, s := range m.subs {
		s.Unsubscribe()
	}
	m.subs = nil
}

// Check runs one monitoring pass
func (m *MemoryManager) Check() Report {
	m.statChecks.Add(1)

	r := Report{
		Time:        m.ctx.Clock.Now(),
		BudgetBytes: m.budget,
		Level:       LevelOK,
		Pools:       make([]PoolReport, 0, len(m.pools)),
	}
	for _, p := range m.pools {
		if p.Maintain().Shrunk {
			r.Maintained++
		}
		ms := p.MemoryStats()
		r.UsedBytes += ms.TotalBytes
		r.Pools = append(r.Pools, PoolReport{ID: p.ID().String(), Name: p.Name(), Stats: ms})
	}
	r.Pressure = float64(r.UsedBytes) / float64(m.budget)

	if r.Pressure >= parameter.MemoryOptimizePressure {
		for _, p := range m.pools {
			r.Compacted += p.Compact()
		}
		m.statCompacted.Add(int64(r.Compacted))
	}
	if r.Pressure >= parameter.MemoryAlertPressure && m.reclaim != nil {
		m.reclaim()
		r.Reclaimed = true
	}

	switch {
	case r.Pressure >= parameter.MemoryAlertPressure:
		r.Level = LevelCritical
		m.ctx.Bus.Publish(event.PerformanceCritical{Pressure: r.Pressure, Source: event.SourceMemory})
	case r.Pressure > parameter.MemoryWarningPressure:
		r.Level = LevelWarning
		m.ctx.Bus.Publish(event.MemoryWarning{
			Pressure:    r.Pressure,
			UsedBytes:   r.UsedBytes,
			BudgetBytes: r.BudgetBytes,
			Pools:       len(m.pools),
		})
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.HeapBytes = ms.HeapAlloc

	m.statMaintained.Add(int64(r.Maintained))
	m.statPressure.Store(r.Pressure)
	m.statUsed.Store(r.UsedBytes)
	r.Metrics = m.ctx.Status.Snapshot()

	m.deliver(r)
	return r
}

func (m *MemoryManager) deliver(r Report) {
	for i, e := range m.sinks {
		if e.disabled {
			continue
		}
		if err := e.sink.Report(r); err != nil {
			e.disabled = true
			m.statDisabled.Add(1)
			m.ctx.Logger.Printf("memory monitor: sink %d disabled: %v", i, err)
		}
	}
}

// EmergencyCleanup clears every pool outright and forces reclamation
// Returns the number of particles released
func (m *MemoryManager) EmergencyCleanup(reason string) int {
	released := 0
	for _, p := range m.pools {
		released += p.Clear()
	}
	if m.forceReclaim != nil {
		m.forceReclaim()
	}
	m.statCleanups.Add(1)
	m.ctx.Logger.Printf("memory monitor: emergency cleanup (%s) released %d", reason, released)
	return released
}
