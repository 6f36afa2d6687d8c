package engine

import (
	"sync/atomic"
	"time"
)

// TimeProvider is the engine's only source of "now"
// Scheduler, runner, quality sampling and memory reports all read it
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider returns the production clock
func NewMonotonicTimeProvider() *MonotonicTimeProvider { return &MonotonicTimeProvider{} }

// Now returns time.Now, carrying the monotonic reading used for frame deltas
func (*MonotonicTimeProvider) Now() time.Time { return time.Now() }

// MockTimeProvider is a clock that moves only when told to
// Tests and vfx-bench drive frames with it; safe for concurrent readers
type MockTimeProvider struct {
	base   time.Time
	offset atomic.Int64 // Nanoseconds past base
}

// NewMockTimeProvider creates a clock standing at start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{base: start}
}

// Now returns the simulated time
func (m *MockTimeProvider) Now() time.Time {
	return m.base.Add(time.Duration(m.offset.Load()))
}

// SetTime jumps the clock to t, backwards included
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.offset.Store(int64(t.Sub(m.base)))
}

// Advance moves the clock forward by d and returns the new time
func (m *MockTimeProvider) Advance(d time.Duration) time.Time {
	return m.base.Add(time.Duration(m.offset.Add(int64(d))))
}
