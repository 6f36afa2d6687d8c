package particle

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/parameter"
)

// State is the particle lifecycle stage
type State uint8

const (
	StateSpawn State = iota
	StateActive
	StateDead
)

func (s State) String() string {
	switch s {
	case StateSpawn:
		return "spawn"
	case StateActive:
		return "active"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Updatable advances simulation state by dt seconds, returning false once dead
type Updatable interface {
	Update(dt float64) bool
}

// Renderable produces a render snapshot at interpolation factor alpha
type Renderable interface {
	Appearance(alpha float64) Appearance
}

// Particle is a short-lived visual entity
// Owned by exactly one of a pool's free list or its active list
type Particle struct {
	ID uint64 // Stable across reuse

	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Prev     mgl64.Vec2 // Position before the last update, for interpolation

	Color   color.NRGBA
	Size    float64
	Life    float64 // Remaining seconds
	MaxLife float64
	Age     float64
	Gravity float64 // Y acceleration, units/s²
	Damping float64 // Velocity retention per 1/60 s, 1 disables
	FadeOut bool
	Alpha   float64
	State   State

	Glow      bool
	Chromatic bool
	Trail     Trail

	// Pool bookkeeping
	owner   *Pool
	prev    *Particle
	next    *Particle
	cell    CellKey
	cellIdx int
	inGrid  bool
	pending float64 // Time skipped by LOD, applied on next update
}

// Options configure a particle on acquire, zero values take defaults
type Options struct {
	Position  mgl64.Vec2
	Velocity  mgl64.Vec2
	Color     color.NRGBA
	Size      float64
	Life      float64
	Gravity   float64
	Damping   float64
	FadeOut   bool
	Glow      bool
	Chromatic bool
	Trail     bool
}

// reset clears all simulation fields, ID and owner survive
func (p *Particle) reset() {
	id, owner := p.ID, p.owner
	*p = Particle{ID: id, owner: owner}
}

func (p *Particle) apply(o Options) {
	p.Position = o.Position
	p.Prev = o.Position
	p.Velocity = o.Velocity
	p.Color = o.Color
	if p.Color == (color.NRGBA{}) {
		p.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	p.Size = o.Size
	if p.Size <= 0 {
		p.Size = parameter.DefaultParticleSize
	}
	p.Life = o.Life
	if p.Life <= 0 {
		p.Life = parameter.DefaultParticleLife
	}
	p.MaxLife = p.Life
	p.Gravity = o.Gravity
	p.Damping = o.Damping
	if p.Damping <= 0 {
		p.Damping = parameter.DefaultDamping
	}
	p.FadeOut = o.FadeOut
	p.Alpha = 1
	p.State = StateSpawn
	p.Glow = o.Glow
	p.Chromatic = o.Chromatic
	p.Trail.Reset(o.Trail)
}

// Update integrates one step of dt seconds
func (p *Particle) Update(dt float64) bool {
	if p.State == StateDead {
		return false
	}

	p.Prev = p.Position
	p.Velocity[1] += p.Gravity * dt
	if p.Damping < 1 {
		p.Velocity = p.Velocity.Mul(math.Pow(p.Damping, dt*parameter.DampingReferenceRate))
	}
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	p.Life -= dt
	p.Age += dt
	p.Trail.Push(p.Prev)

	if p.FadeOut && p.MaxLife > 0 {
		p.Alpha = math.Max(0, math.Min(1, p.Life/p.MaxLife))
	}

	if p.Life <= 0 {
		p.State = StateDead
		return false
	}
	if p.State == StateSpawn && p.Age >= parameter.SpawnPhase {
		p.State = StateActive
	}
	return true
}

// Alive reports whether the particle has lifespan left
func (p *Particle) Alive() bool {
	return p.State != StateDead
}

// Owned reports whether the particle currently sits in a pool's active list
func (p *Particle) Owned() bool {
	return p.owner != nil
}
