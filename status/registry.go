package status

import "sync/atomic"

// Registry is the central metrics facade
// Components cache pointers during construction; update loops write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot is an immutable copy of every metric value
type Snapshot struct {
	Bools   map[string]bool    `json:"bools,omitempty"`
	Ints    map[string]int64   `json:"ints,omitempty"`
	Floats  map[string]float64 `json:"floats,omitempty"`
	Strings map[string]string  `json:"strings,omitempty"`
}

// Snapshot copies the current values for telemetry reports
func (r *Registry) Snapshot() Snapshot {
	return r.Scope("")
}

// Scope copies the values of metrics named under prefix, e.g. "particles."
func (r *Registry) Scope(prefix string) Snapshot {
	s := Snapshot{
		Bools:   make(map[string]bool),
		Ints:    make(map[string]int64),
		Floats:  make(map[string]float64),
		Strings: make(map[string]string),
	}
	r.Bools.Range(prefix, func(k string, v *atomic.Bool) { s.Bools[k] = v.Load() })
	r.Ints.Range(prefix, func(k string, v *atomic.Int64) { s.Ints[k] = v.Load() })
	r.Floats.Range(prefix, func(k string, v *AtomicFloat) { s.Floats[k] = v.Load() })
	r.Strings.Range(prefix, func(k string, v *AtomicString) { s.Strings[k] = v.Load() })
	return s
}
