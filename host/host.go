// Package host assembles the engine, audio and telemetry for the demo binaries
package host

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/audio"
	"github.com/lixenwraith/vfx/config"
	"github.com/lixenwraith/vfx/core"
	"github.com/lixenwraith/vfx/engine"
	"github.com/lixenwraith/vfx/input"
	"github.com/lixenwraith/vfx/particle"
	"github.com/lixenwraith/vfx/system"
	"github.com/lixenwraith/vfx/telemetry"
	"github.com/lixenwraith/vfx/vmath"
)

// Options are the command-line settings shared by every binary
type Options struct {
	ConfigPath    string
	KeysPath      string
	Debug         bool
	TelemetryAddr string
	Seed          uint64

	Getenv func(string) string // nil reads the process environment
	Clock  engine.TimeProvider // nil uses the monotonic clock
	Logger *log.Logger         // nil uses the standard logger after SetupLogging
	Audio  *config.AudioConfig // overrides the configured audio section
}

// RegisterFlags binds -config, -keys, -debug, -telemetry and -seed on fs
func RegisterFlags(fs *flag.FlagSet) *Options {
	o := &Options{}
	fs.StringVar(&o.ConfigPath, "config", "", "TOML config file")
	fs.StringVar(&o.KeysPath, "keys", "", "TOML keymap overrides")
	fs.BoolVar(&o.Debug, "debug", false, "write debug log to logs/vfx.log")
	fs.StringVar(&o.TelemetryAddr, "telemetry", "", "serve telemetry websocket on addr (enables telemetry)")
	fs.Uint64Var(&o.Seed, "seed", 0, "random seed, 0 keeps the configured seed")
	return o
}

// Host owns every long-lived engine component
type Host struct {
	Config    config.Config
	Ctx       *engine.Context
	Pool      *particle.Pool
	Particles *system.ParticleSystem
	Memory    *system.MemoryManager
	Scheduler *engine.FrameScheduler
	Runner    *engine.Runner
	Audio     *audio.CuePlayer
	Telemetry *telemetry.Hub // nil when disabled or the listener failed
	Keys      *input.KeyTable

	logFile *os.File
	rng     *vmath.FastRand
	bounds  vmath.Rect
	lod     bool
	combo   int
	typeIdx int
	closed  bool
}

// LoadConfig resolves the configuration from file, environment and flags
// Returns the keys Normalize corrected; unknown file keys are reported as warnings
func LoadConfig(o Options) (config.Config, []string, error) {
	cfg := config.Default()
	var warnings []string

	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		switch {
		case errors.Is(err, config.ErrUnknownKeys):
			warnings = append(warnings, err.Error())
		case err != nil:
			return cfg, nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv(o.Getenv)
	if o.Debug {
		cfg.Debug = true
	}
	if o.Seed != 0 {
		cfg.Seed = o.Seed
	}
	if o.TelemetryAddr != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Addr = o.TelemetryAddr
	}
	if o.Audio != nil {
		cfg.Audio = *o.Audio
	}

	for _, key := range cfg.Normalize() {
		warnings = append(warnings, fmt.Sprintf("config: %s out of range, using default", key))
	}
	return cfg, warnings, nil
}

// New builds the engine; audio and telemetry failures are logged and skipped
// ctx bounds the telemetry listener
func New(ctx context.Context, o Options) (*Host, error) {
	cfg, warnings, err := LoadConfig(o)
	if err != nil {
		return nil, err
	}

	h := &Host{Config: cfg}
	logger := o.Logger
	if logger == nil {
		h.logFile = core.SetupLogging(cfg.Debug)
		logger = log.Default()
	}
	for _, w := range warnings {
		logger.Printf("%s", w)
	}

	h.Keys = input.DefaultKeyTable()
	if o.KeysPath != "" {
		kt, err := input.LoadKeyFile(o.KeysPath)
		if err != nil {
			h.closeLog()
			return nil, err
		}
		h.Keys = kt
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if o.Clock != nil {
		opts = append(opts, engine.WithClock(o.Clock))
	}
	h.Ctx = engine.NewContext(cfg, opts...)
	h.rng = vmath.NewFastRand(cfg.Seed ^ 0x9E3779B97F4A7C15)

	h.Pool = particle.NewPool(particle.ConfigFrom(cfg, "particles"))
	h.Particles = system.NewParticleSystem(h.Ctx, h.Pool)

	h.Scheduler = engine.NewFrameScheduler(h.Ctx)
	h.Particles.Attach(h.Scheduler)
	h.Runner = engine.NewRunner(h.Ctx, h.Scheduler)

	h.Memory = system.NewMemoryManager(h.Ctx)
	h.Memory.Register(h.Pool)
	h.Memory.Attach(h.Runner)

	h.Audio = audio.NewCuePlayer(h.Ctx.Bus, cfg.Audio, logger)
	if err := h.Audio.Init(); err != nil {
		logger.Printf("host: continuing without sound: %v", err)
	}

	if cfg.Telemetry.Enabled {
		hub := telemetry.NewHub(logger)
		addr, err := hub.ListenAndServe(ctx, cfg.Telemetry.Addr)
		if err != nil {
			logger.Printf("host: continuing without telemetry: %v", err)
			hub.Close()
		} else {
			logger.Printf("host: telemetry on ws://%s/ws", addr)
			hub.Watch(h.Ctx.Bus)
			h.Memory.AddSink(hub)
			h.Telemetry = hub
		}
	}

	return h, nil
}

// Start arms the scheduler for hosts that drive Runner.Step themselves
func (h *Host) Start() {
	h.Scheduler.Start()
}

// SetBounds sets the viewport used by storms and the LOD camera
func (h *Host) SetBounds(w, ht float64) {
	h.bounds = vmath.NewRect(0, 0, w, ht)
	if h.lod {
		h.setCamera()
	}
}

// Bounds returns the viewport
func (h *Host) Bounds() vmath.Rect { return h.bounds }

func (h *Host) setCamera() {
	if !h.lod {
		h.Particles.SetCamera(nil)
		return
	}
	center := mgl64.Vec2{h.bounds.Width() / 2, h.bounds.Height() / 2}
	h.Particles.SetCamera(&center)
}

// Close releases every component in reverse construction order; safe to call twice
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true

	h.Runner.Stop()
	if h.Telemetry != nil {
		h.Telemetry.Close()
	}
	h.Audio.Close()
	h.Memory.Close()
	h.Particles.Close()
	h.closeLog()
}

func (h *Host) closeLog() {
	if h.logFile != nil {
		h.logFile.Close()
		h.logFile = nil
	}
}
