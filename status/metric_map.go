package status

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// MetricMap holds named metrics of one atomic type
// Names are dotted by owner, e.g. "scheduler.frames" or "particles.active"
// Lookups after construction go through the cached pointer, not the map
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric named key, allocating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	if ptr := m.Lookup(key); ptr != nil {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ptr, ok := m.items[key]
	if !ok {
		ptr = new(T)
		m.items[key] = ptr
	}
	return ptr
}

// Lookup returns the metric named key or nil when nothing registered it
func (m *MetricMap[T]) Lookup(key string) *T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key]
}

// Range visits metrics whose name starts with prefix, in name order
// An empty prefix visits everything
func (m *MetricMap[T]) Range(prefix string, fn func(key string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, k := range slices.Sorted(maps.Keys(m.items)) {
		if strings.HasPrefix(k, prefix) {
			fn(k, m.items[k])
		}
	}
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
