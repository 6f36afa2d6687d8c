package pool

// Pool is a bounded free-list allocator for reusable objects
// Not safe for concurrent use; owned by a single component
type Pool[T any] struct {
	factory func() T
	reset   func(T)

	free     []T
	capacity int
	total    int
}

// Stats is a point-in-time view of pool occupancy
type Stats struct {
	Free           int     `json:"free"`
	TotalAllocated int     `json:"total_allocated"`
	Capacity       int     `json:"capacity"`
	Utilization    float64 `json:"utilization"`
}

// New creates a pool; reset may be nil
// capacity bounds the free list only, Acquire always succeeds
func New[T any](factory func() T, reset func(T), capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T]{
		factory:  factory,
		reset:    reset,
		free:     make([]T, 0, min(capacity, 1024)),
		capacity: capacity,
	}
}

// Acquire pops a free object and resets it, or constructs a new one
func (p *Pool[T]) Acquire() T {
	if n := len(p.free); n > 0 {
		obj := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		if p.reset != nil {
			p.reset(obj)
		}
		return obj
	}
	return p.construct()
}

// Release returns obj to the free list
// Returns false when the list is full and the object was dropped
func (p *Pool[T]) Release(obj T) bool {
	if len(p.free) >= p.capacity {
		return false
	}
	p.free = append(p.free, obj)
	return true
}

// PreFill constructs up to n objects onto the free list, bounded by capacity
func (p *Pool[T]) PreFill(n int) int {
	added := 0
	for added < n && len(p.free) < p.capacity {
		p.free = append(p.free, p.construct())
		added++
	}
	return added
}

// Resize sets capacity, trimming the free list if it no longer fits
func (p *Pool[T]) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	p.capacity = capacity
	if len(p.free) > capacity {
		p.Trim(capacity)
	}
	if p.total > capacity {
		p.total = capacity
	}
}

// Trim drops free objects until at most keep remain
func (p *Pool[T]) Trim(keep int) int {
	if keep < 0 {
		keep = 0
	}
	n := len(p.free)
	if n <= keep {
		return 0
	}
	var zero T
	for i := keep; i < n; i++ {
		p.free[i] = zero
	}
	p.free = p.free[:keep]
	return n - keep
}

// Clear drops the whole free list
func (p *Pool[T]) Clear() {
	p.free = nil
}

// EachFree visits free objects until fn returns false
func (p *Pool[T]) EachFree(fn func(T) bool) {
	for _, obj := range p.free {
		if !fn(obj) {
			return
		}
	}
}

// Free returns the free list length
func (p *Pool[T]) Free() int { return len(p.free) }

// Capacity returns the free list bound
func (p *Pool[T]) Capacity() int { return p.capacity }

// Stats reports occupancy; TotalAllocated is capped at capacity
func (p *Pool[T]) Stats() Stats {
	s := Stats{
		Free:           len(p.free),
		TotalAllocated: p.total,
		Capacity:       p.capacity,
	}
	if s.TotalAllocated > 0 {
		s.Utilization = float64(s.TotalAllocated-s.Free) / float64(s.TotalAllocated)
		if s.Utilization < 0 {
			s.Utilization = 0
		}
	}
	return s
}

func (p *Pool[T]) construct() T {
	if p.total < p.capacity {
		p.total++
	}
	return p.factory()
}
