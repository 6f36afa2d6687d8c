package particle

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lixenwraith/vfx/config"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/pool"
	"github.com/lixenwraith/vfx/vmath"
)

// PoolConfig sizes a particle pool and its LOD policy
type PoolConfig struct {
	Name         string
	MaxParticles int // Object pool capacity
	PreFill      int
	CellSize     float64
	BatchSize    int // Sub-batch length of an update pass

	LODDistance float64
	LODMode     string // config.LODStochastic or config.LODStride
	LODChance   float64
	LODStride   int
	Seed        uint64

	MemoryThresholdBytes int64 // Maintenance shrinks capacity above this estimate
}

// ConfigFrom derives pool settings from engine config
func ConfigFrom(cfg config.Config, name string) PoolConfig {
	return PoolConfig{
		Name:                 name,
		MaxParticles:         cfg.MaxParticles,
		PreFill:              cfg.PreFillCount,
		CellSize:             cfg.SpatialGridCellSize,
		BatchSize:            parameter.UpdateBatchSize,
		LODDistance:          cfg.LODDistanceThreshold,
		LODMode:              cfg.LODMode,
		LODChance:            cfg.LODUpdateChance,
		LODStride:            cfg.LODStride,
		Seed:                 cfg.Seed,
		MemoryThresholdBytes: cfg.MemoryThresholdBytes(),
	}
}

// UpdateStats summarizes one update pass
type UpdateStats struct {
	Updated  int
	Skipped  int // Deferred by LOD
	Released int
}

// Stats is a point-in-time view of the pool
type Stats struct {
	Active         int     `json:"active"`
	Free           int     `json:"free"`
	Capacity       int     `json:"capacity"`
	TotalAllocated int     `json:"total_allocated"`
	Utilization    float64 `json:"utilization"`
	Cells          int     `json:"cells"`
	EstimatedBytes int64   `json:"estimated_bytes"`
}

// MemoryStats is the estimated footprint of a pool
type MemoryStats struct {
	ActiveBytes int64   `json:"active_bytes"`
	FreeBytes   int64   `json:"free_bytes"`
	GridBytes   int64   `json:"grid_bytes"`
	TotalBytes  int64   `json:"total_bytes"`
	Utilization float64 `json:"utilization"`
}

// MaintainResult reports what maintenance changed
type MaintainResult struct {
	Shrunk      bool
	Capacity    int
	TrimmedFree int
}

// Pool combines an object pool, an insertion-ordered active list and a spatial index
// Not safe for concurrent use; all calls happen on the frame goroutine
type Pool struct {
	id   uuid.UUID
	name string
	cfg  PoolConfig

	objects *pool.Pool[*Particle]
	grid    *SpatialGrid

	head   *Particle // Oldest
	tail   *Particle // Newest
	active int

	nextID uint64
	frame  uint64
	rng    *vmath.FastRand

	batchBuf []*Particle
	deadBuf  []*Particle
}

// NewPool creates a pool and pre-fills its free list
func NewPool(cfg PoolConfig) *Pool {
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = parameter.MaxParticles
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = parameter.UpdateBatchSize
	}
	if cfg.LODDistance <= 0 {
		cfg.LODDistance = parameter.LODDistanceThreshold
	}
	if cfg.LODStride < 1 {
		cfg.LODStride = parameter.LODStride
	}
	if cfg.LODMode == "" {
		cfg.LODMode = config.LODStochastic
	}
	if cfg.Name == "" {
		cfg.Name = "particles"
	}

	p := &Pool{
		id:       uuid.New(),
		name:     cfg.Name,
		cfg:      cfg,
		grid:     NewSpatialGrid(cfg.CellSize),
		rng:      vmath.NewFastRand(cfg.Seed),
		batchBuf: make([]*Particle, 0, cfg.BatchSize),
	}
	p.objects = pool.New(p.newParticle, (*Particle).reset, cfg.MaxParticles)
	p.objects.PreFill(cfg.PreFill)
	return p
}

func (p *Pool) newParticle() *Particle {
	p.nextID++
	return &Particle{ID: p.nextID}
}

// ID returns the pool's unique identity
func (p *Pool) ID() uuid.UUID { return p.id }

// Name returns the configured pool name
func (p *Pool) Name() string { return p.name }

// Grid exposes the spatial index for read-only queries
func (p *Pool) Grid() *SpatialGrid { return p.grid }

// Active returns the active particle count
func (p *Pool) Active() int { return p.active }

// Acquire takes a particle from the free list, applies opts and indexes it
func (p *Pool) Acquire(opts Options) *Particle {
	pt := p.objects.Acquire()
	pt.owner = p
	pt.apply(opts)

	pt.prev = p.tail
	pt.next = nil
	if p.tail != nil {
		p.tail.next = pt
	} else {
		p.head = pt
	}
	p.tail = pt
	p.active++

	p.grid.Insert(pt)
	return pt
}

// Release unindexes pt and returns it to the free list
// Releasing a particle this pool does not own is a no-op returning false
func (p *Pool) Release(pt *Particle) bool {
	if pt == nil || pt.owner != p {
		return false
	}

	if pt.prev != nil {
		pt.prev.next = pt.next
	} else {
		p.head = pt.next
	}
	if pt.next != nil {
		pt.next.prev = pt.prev
	} else {
		p.tail = pt.prev
	}
	pt.prev, pt.next = nil, nil
	p.active--

	p.grid.Remove(pt)
	pt.owner = nil
	pt.State = StateDead
	p.objects.Release(pt)
	return true
}

// Update advances every active particle by dt in sub-batches
// camera enables LOD, nil updates everything at full rate
// Dead particles are released only after the whole pass
func (p *Pool) Update(dt float64, camera *mgl64.Vec2) UpdateStats {
	var st UpdateStats
	p.frame++
	lodSq := p.cfg.LODDistance * p.cfg.LODDistance
	p.deadBuf = p.deadBuf[:0]

	for cur := p.head; cur != nil; {
		batch := p.batchBuf[:0]
		for ; cur != nil && len(batch) < p.cfg.BatchSize; cur = cur.next {
			batch = append(batch, cur)
		}

		for _, pt := range batch {
			if camera != nil && vmath.DistSq(pt.Position, *camera) > lodSq && !p.lodDue(pt) {
				pt.pending += dt
				pt.Prev = pt.Position
				st.Skipped++
				continue
			}

			step := dt + pt.pending
			pt.pending = 0
			st.Updated++
			if !pt.Update(step) {
				p.deadBuf = append(p.deadBuf, pt)
				continue
			}
			p.grid.Move(pt)
		}

		clear(batch)
		p.batchBuf = batch
	}

	for i, pt := range p.deadBuf {
		if p.Release(pt) {
			st.Released++
		}
		p.deadBuf[i] = nil
	}
	p.deadBuf = p.deadBuf[:0]
	return st
}

// lodDue decides whether a distant particle updates this frame
func (p *Pool) lodDue(pt *Particle) bool {
	if p.cfg.LODMode == config.LODStride {
		return (p.frame+pt.ID)%uint64(p.cfg.LODStride) == 0
	}
	return p.rng.Chance(p.cfg.LODChance)
}

// QueryArea appends active particles positioned inside r
// Only cells overlapping r are visited
func (p *Pool) QueryArea(r vmath.Rect, dst []*Particle) []*Particle {
	r = r.Canon()
	p.grid.Query(r, func(pt *Particle) bool {
		if r.Contains(pt.Position) {
			dst = append(dst, pt)
		}
		return true
	})
	return dst
}

// Oldest returns the earliest acquired active particle, nil when empty
func (p *Pool) Oldest() *Particle { return p.head }

// ReleaseOldest releases up to n particles in insertion order
func (p *Pool) ReleaseOldest(n int) int {
	released := 0
	for released < n && p.head != nil {
		p.Release(p.head)
		released++
	}
	return released
}

// Clear releases every active particle
func (p *Pool) Clear() int {
	return p.ReleaseOldest(p.active)
}

// Each visits active particles oldest first until fn returns false
func (p *Pool) Each(fn func(*Particle) bool) {
	for cur := p.head; cur != nil; cur = cur.next {
		if !fn(cur) {
			return
		}
	}
}

// AppendRenderables appends appearances for up to limit particles, oldest first
// A negative limit renders all
func (p *Pool) AppendRenderables(dst []Appearance, limit int, alpha float64) []Appearance {
	n := 0
	for cur := p.head; cur != nil; cur = cur.next {
		if limit >= 0 && n >= limit {
			break
		}
		dst = cur.AppendAppearances(dst, alpha)
		n++
	}
	return dst
}

// Maintain compacts the grid and shrinks capacity when over the memory threshold
func (p *Pool) Maintain() MaintainResult {
	p.grid.Compact()

	res := MaintainResult{Capacity: p.objects.Capacity()}
	if p.cfg.MemoryThresholdBytes <= 0 || p.MemoryStats().TotalBytes <= p.cfg.MemoryThresholdBytes {
		return res
	}

	floor := max(p.active, p.cfg.PreFill, parameter.MinPoolCapacity)
	shrunk := max(res.Capacity*3/4, floor)
	if shrunk < res.Capacity {
		before := p.objects.Free()
		p.objects.Resize(shrunk)
		res.Shrunk = true
		res.Capacity = shrunk
		res.TrimmedFree = before - p.objects.Free()
	}
	return res
}

// Compact runs maintenance and halves the free list
// Returns the number of free particles dropped
func (p *Pool) Compact() int {
	res := p.Maintain()
	free := p.objects.Free()
	return res.TrimmedFree + p.objects.Trim(free/2)
}

// MemoryStats estimates the pool's footprint
func (p *Pool) MemoryStats() MemoryStats {
	m := MemoryStats{
		ActiveBytes: int64(p.active) * parameter.ParticleBytes,
		FreeBytes:   int64(p.objects.Free()) * parameter.ParticleBytes,
		GridBytes:   int64(p.grid.CellCount()) * parameter.CellBytes,
	}
	m.TotalBytes = m.ActiveBytes + m.FreeBytes + m.GridBytes
	if total := p.active + p.objects.Free(); total > 0 {
		m.Utilization = float64(p.active) / float64(total)
	}
	return m
}

// Stats reports occupancy and estimated memory
func (p *Pool) Stats() Stats {
	ps := p.objects.Stats()
	return Stats{
		Active:         p.active,
		Free:           ps.Free,
		Capacity:       ps.Capacity,
		TotalAllocated: ps.TotalAllocated,
		Utilization:    ps.Utilization,
		Cells:          p.grid.CellCount(),
		EstimatedBytes: p.MemoryStats().TotalBytes,
	}
}
