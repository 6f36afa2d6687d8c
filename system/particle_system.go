package system

import (
	"fmt"
	"image/color"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/engine"
	"github.com/lixenwraith/vfx/event"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/particle"
	"github.com/lixenwraith/vfx/status"
	"github.com/lixenwraith/vfx/vmath"
)

// ParticleSystem spawns themed effects from domain events and keeps the pool within budget
//
// Capacity: at MaxParticles the oldest active particle is evicted before each spawn
// Quality: the per-tick budget is MaxParticles × quality; surplus oldest particles are shed
type ParticleSystem struct {
	ctx     *engine.Context
	pool    *particle.Pool
	quality *QualityController
	rng     *vmath.FastRand

	effects      map[event.Kind]Effect
	theme        Theme
	maxParticles int
	camera       *mgl64.Vec2

	// Rolling frame deltas in seconds
	deltas     [parameter.FPSWindow]float64
	deltaHead  int
	deltaCount int
	lastFrame  time.Time
	fps        float64

	shedQueue []*particle.Particle
	pressured bool
	subs      []event.Subscription
	enabled   bool

	statActive    *atomic.Int64
	statBudget    *atomic.Int64
	statSpawned   *atomic.Int64
	statEvicted   *atomic.Int64
	statShed      *atomic.Int64
	statOptimized *atomic.Int64
	statFPS       *status.AtomicFloat
	statTheme     *status.AtomicString
}

// Stats summarizes the system for HUD and telemetry
type Stats struct {
	Active  int     `json:"active"`
	Budget  int     `json:"budget"`
	Quality float64 `json:"quality"`
	FPS     float64 `json:"fps"`
	Spawned int64   `json:"spawned"`
	Evicted int64   `json:"evicted"`
	Shed    int64   `json:"shed"`
	Theme   string  `json:"theme"`
	Zone    string  `json:"zone"`
}

// NewParticleSystem wires a system to pool and subscribes it to the bus
func NewParticleSystem(ctx *engine.Context, pool *particle.Pool) *ParticleSystem {
	reg := ctx.Status
	s := &ParticleSystem{
		ctx:          ctx,
		pool:         pool,
		quality:      NewQualityController(ctx.Bus, ctx.Config.QualityThresholds, reg),
		rng:          vmath.NewFastRand(ctx.Config.Seed ^ 0x9E3779B97F4A7C15),
		effects:      make(map[event.Kind]Effect, len(DefaultEffects)),
		maxParticles: ctx.Config.MaxParticles,

		statActive:    reg.Ints.Get("particles.active"),
		statBudget:    reg.Ints.Get("particles.budget"),
		statSpawned:   reg.Ints.Get("particles.spawned"),
		statEvicted:   reg.Ints.Get("particles.evicted"),
		statShed:      reg.Ints.Get("particles.shed"),
		statOptimized: reg.Ints.Get("particles.force_optimized"),
		statFPS:       reg.Floats.Get("particles.fps"),
		statTheme:     reg.Strings.Get("particles.theme"),
	}
	if s.maxParticles <= 0 {
		s.maxParticles = parameter.MaxParticles
	}
	for k, e := range DefaultEffects {
		s.effects[k] = e
	}

	theme, ok := LookupTheme(ctx.Config.Theme)
	if !ok {
		ctx.Logger.Printf("particles: unknown theme %q, using default", ctx.Config.Theme)
		theme, _ = LookupTheme("default")
	}
	s.theme = theme
	s.statTheme.Store(theme.Name)

	s.Init()
	return s
}

// Init subscribes to events and enables the system
func (s *ParticleSystem) Init() {
	if s.enabled {
		return
	}
	bus := s.ctx.Bus
	s.subs = append(s.subs,
		event.Subscribe(bus, func(e event.ObjectDestroyed) {
			s.spawnFor(event.KindObjectDestroyed, e.Position, s.theme.ColorFor(e.Type), 1)
		}),
		event.Subscribe(bus, func(e event.ObjectHit) {
			s.spawnFor(event.KindObjectHit, e.Position, s.theme.ColorFor(e.Type), 1)
		}),
		event.Subscribe(bus, func(e event.ComboActivated) {
			s.spawnFor(event.KindComboActivated, e.Position, s.theme.ColorFor("bonus"), e.Count)
		}),
		event.Subscribe(bus, func(e event.ItemCollected) {
			s.spawnFor(event.KindItemCollected, e.Position, s.theme.ColorFor(e.Type), 1)
		}),
		event.Subscribe(bus, func(e event.Collision) {
			s.spawnFor(event.KindCollision, e.Position, s.theme.ColorFor("spark"), 1)
		}),
		event.Subscribe(bus, func(e event.PerformanceCritical) {
			if e.Source != event.SourceExplicit {
				s.ForceOptimize()
			}
		}),
	)
	s.enabled = true
}

// Name returns the system's name
func (s *ParticleSystem) Name() string { return "particles" }

// Close unsubscribes from the bus
func (s *ParticleSystem) Close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
	s.enabled = false
}

// Pool returns the managed particle pool
func (s *ParticleSystem) Pool() *particle.Pool { return s.pool }

// Quality returns the adaptive quality controller
func (s *ParticleSystem) Quality() *QualityController { return s.quality }

// Theme returns the active theme
func (s *ParticleSystem) Theme() Theme { return s.theme }

// SetCamera sets the LOD reference point, nil disables LOD
func (s *ParticleSystem) SetCamera(pos *mgl64.Vec2) { s.camera = pos }

// SetEffect overrides the effect spawned for kind
func (s *ParticleSystem) SetEffect(kind event.Kind, e Effect) { s.effects[kind] = e }

// Effect returns the effect spawned for kind
func (s *ParticleSystem) Effect(kind event.Kind) (Effect, bool) {
	e, ok := s.effects[kind]
	return e, ok
}

// Attach registers the update and frame-sampling callbacks on a scheduler
// Frame deltas come from the scheduler, so a pause never reads as one long frame
func (s *ParticleSystem) Attach(sched *engine.FrameScheduler) (update, frame engine.Handle) {
	update = sched.AddUpdate("particles.update", s.Update)
	frame = sched.AddRender("particles.frame", func(float64) { s.ObserveFrameDelta(sched.FrameDelta()) })
	return update, frame
}

// SampleFrame records the wall time of a presented frame
// For hosts that present frames without a FrameScheduler; call ResetFrameClock after a pause
func (s *ParticleSystem) SampleFrame(now time.Time) {
	if !s.lastFrame.IsZero() {
		s.ObserveFrameDelta(now.Sub(s.lastFrame))
	}
	s.lastFrame = now
}

// ResetFrameClock forgets the last SampleFrame time, the window is kept
func (s *ParticleSystem) ResetFrameClock() { s.lastFrame = time.Time{} }

// ObserveFrameDelta pushes one frame delta into the rolling window
func (s *ParticleSystem) ObserveFrameDelta(d time.Duration) {
	if d <= 0 {
		return
	}
	s.deltas[s.deltaHead] = d.Seconds()
	s.deltaHead = (s.deltaHead + 1) % len(s.deltas)
	if s.deltaCount < len(s.deltas) {
		s.deltaCount++
	}

	sum := 0.0
	for i := 0; i < s.deltaCount; i++ {
		sum += s.deltas[i]
	}
	s.fps = float64(s.deltaCount) / sum
	s.statFPS.Store(s.fps)
}

// FPS returns the rolling estimate, 0 before any frame was observed
func (s *ParticleSystem) FPS() float64 { return s.fps }

// Budget returns the particle budget at the current quality
func (s *ParticleSystem) Budget() int {
	return int(math.Floor(float64(s.maxParticles) * s.quality.Level()))
}

// Update runs one fixed tick: quality, shedding, physics, metrics
func (s *ParticleSystem) Update(dt float64) {
	if !s.enabled {
		return
	}

	if s.deltaCount > 0 {
		s.quality.Evaluate(s.fps, s.pool.Active())
	}

	budget := s.Budget()
	if surplus := s.pool.Active() - budget; surplus > 0 {
		s.pool.Each(func(p *particle.Particle) bool {
			s.shedQueue = append(s.shedQueue, p)
			return len(s.shedQueue) < surplus
		})
	}

	s.pool.Update(dt, s.camera)

	shed := 0
	for i, p := range s.shedQueue {
		if s.pool.Release(p) {
			shed++
		}
		s.shedQueue[i] = nil
	}
	s.shedQueue = s.shedQueue[:0]
	s.statShed.Add(int64(shed))

	s.checkPressure()
	s.statActive.Store(int64(s.pool.Active()))
	s.statBudget.Store(int64(budget))
}

func (s *ParticleSystem) checkPressure() {
	active := s.pool.Active()
	over := float64(active) >= float64(s.maxParticles)*parameter.PressureSignalRatio
	if over && !s.pressured {
		mem := s.pool.MemoryStats()
		s.ctx.Bus.Publish(event.MemoryWarning{
			Pressure:    float64(active) / float64(s.maxParticles),
			UsedBytes:   mem.TotalBytes,
			BudgetBytes: int64(s.maxParticles) * parameter.ParticleBytes,
			Pools:       1,
		})
	}
	s.pressured = over
}

// Renderables appends appearances for at most Budget particles
func (s *ParticleSystem) Renderables(dst []particle.Appearance, alpha float64) []particle.Appearance {
	return s.pool.AppendRenderables(dst, s.Budget(), alpha)
}

// SpawnBurst emits n particles of effect e at pos and returns how many were created
// At capacity the oldest particle is evicted before each spawn
func (s *ParticleSystem) SpawnBurst(pos mgl64.Vec2, n int, e Effect) int {
	return s.spawn(pos, n, e, 1)
}

func (s *ParticleSystem) spawnFor(kind event.Kind, pos mgl64.Vec2, c color.NRGBA, combo int) {
	if !s.enabled {
		return
	}
	e, ok := s.effects[kind]
	if !ok {
		return
	}
	e.Color = c
	if s.theme.Glow {
		e.Glow = true
	}

	n := e.CountMin
	if e.CountMax > e.CountMin {
		n += s.rng.Intn(e.CountMax - e.CountMin + 1)
	}

	speedScale := 1.0
	if kind == event.KindComboActivated {
		scale := max(1, min(combo, parameter.ComboScaleCap))
		n *= scale
		speedScale += parameter.ComboSpeedStep * float64(scale-1)
	}

	// Event-driven spawns follow quality, explicit bursts do not
	n = max(1, int(math.Ceil(float64(n)*s.quality.Level())))
	s.spawn(pos, n, e, speedScale)
}

func (s *ParticleSystem) spawn(pos mgl64.Vec2, n int, e Effect, speedScale float64) int {
	if n <= 0 {
		return 0
	}
	sizeScale := s.theme.sizeScale()

	for i := 0; i < n; i++ {
		if s.pool.Active() >= s.maxParticles {
			if s.pool.ReleaseOldest(1) > 0 {
				s.statEvicted.Add(1)
			}
		}

		var angle float64
		switch e.Pattern {
		case PatternRadial:
			angle = 2*math.Pi*float64(i)/float64(n) + s.rng.Range(-e.Spread, e.Spread)
		default:
			angle = s.rng.Angle()
		}

		s.pool.Acquire(particle.Options{
			Position:  pos,
			Velocity:  vmath.Polar(angle, e.Speed.sample(s.rng)*speedScale),
			Color:     jitter(e.Color, e.ColorJitter, s.rng),
			Size:      e.Size.sample(s.rng) * sizeScale,
			Life:      e.Life.sample(s.rng),
			Gravity:   e.Gravity,
			Damping:   e.Damping,
			FadeOut:   e.FadeOut,
			Glow:      e.Glow,
			Trail:     e.Trail,
			Chromatic: e.Chromatic,
		})
	}

	s.statSpawned.Add(int64(n))
	s.statActive.Store(int64(s.pool.Active()))
	return n
}

// SetTheme clears every active particle and switches palette
func (s *ParticleSystem) SetTheme(name string) error {
	theme, ok := LookupTheme(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	previous := s.theme.Name
	s.pool.Clear()
	s.theme = theme
	s.statTheme.Store(theme.Name)
	s.statActive.Store(0)
	s.ctx.Bus.Publish(event.ThemeChanged{Theme: theme.Name, Previous: previous})
	return nil
}

// ForceOptimize releases the oldest half of active particles and pins quality to the floor
func (s *ParticleSystem) ForceOptimize() int {
	released := s.pool.ReleaseOldest(s.pool.Active() / 2)
	s.quality.Pin(parameter.QualityFloor, s.fps)
	s.statOptimized.Add(1)
	s.statActive.Store(int64(s.pool.Active()))
	s.ctx.Logger.Printf("particles: force optimize released %d", released)
	return released
}

// Stats returns a snapshot for HUD and telemetry
func (s *ParticleSystem) Stats() Stats {
	return Stats{
		Active:  s.pool.Active(),
		Budget:  s.Budget(),
		Quality: s.quality.Level(),
		FPS:     s.fps,
		Spawned: s.statSpawned.Load(),
		Evicted: s.statEvicted.Load(),
		Shed:    s.statShed.Load(),
		Theme:   s.theme.Name,
		Zone:    s.quality.Zone().String(),
	}
}
