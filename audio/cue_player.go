package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vfx/config"
	"github.com/lixenwraith/vfx/core"
	"github.com/lixenwraith/vfx/event"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/vmath"
)

// CueStats counts cue activity per kind
type CueStats struct {
	Played  [cueCount]int64
	Limited [cueCount]int64
}

// CuePlayer plays a short cue for every effect-producing event
// Audio is optional: when the speaker cannot be opened the player stays silent
// but keeps selecting and rate-limiting cues.
type CuePlayer struct {
	mu sync.Mutex

	bus    *event.Bus
	cfg    config.AudioConfig
	logger *log.Logger
	now    func() time.Time
	rng    *vmath.FastRand

	mixer  *beep.Mixer
	volume *effects.Volume

	initialized bool
	silent      bool

	last  [cueCount]time.Time
	stats CueStats
	subs  []event.Subscription
}

// NewCuePlayer creates a player; call Init to open the speaker and subscribe
func NewCuePlayer(bus *event.Bus, cfg config.AudioConfig, logger *log.Logger) *CuePlayer {
	mixer := &beep.Mixer{}
	return &CuePlayer{
		bus:    bus,
		cfg:    cfg,
		logger: core.Logger(logger),
		now:    time.Now,
		rng:    vmath.NewFastRand(uint64(time.Now().UnixNano())),
		mixer:  mixer,
		volume: &effects.Volume{Streamer: mixer, Base: 2, Volume: cfg.Volume},
		silent: true,
	}
}

// SetClock replaces the time source used for rate limiting
func (p *CuePlayer) SetClock(now func() time.Time) {
	p.mu.Lock()
	p.now = now
	p.mu.Unlock()
}

// Init subscribes to the bus and opens the speaker when audio is enabled
// A speaker failure is returned for logging; the player still works silently
func (p *CuePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	p.initialized = true
	p.subscribe()

	if !p.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		p.logger.Printf("audio: speaker unavailable, running silent: %v", err)
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	speaker.Play(p.volume)
	p.silent = false
	return nil
}

func (p *CuePlayer) subscribe() {
	p.subs = append(p.subs,
		event.Subscribe(p.bus, func(event.ObjectDestroyed) { p.Play(CuePop, 1) }),
		event.Subscribe(p.bus, func(event.ObjectHit) { p.Play(CueClick, 1) }),
		event.Subscribe(p.bus, func(e event.ComboActivated) {
			p.Play(CueSweep, float64(min(max(e.Count, 1), parameter.ComboScaleCap)))
		}),
		event.Subscribe(p.bus, func(event.ItemCollected) { p.Play(CueChime, 1) }),
		event.Subscribe(p.bus, func(event.Collision) { p.Play(CueThud, 1) }),
	)
}

// Silent reports whether cues are only counted
func (p *CuePlayer) Silent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.silent
}

// Play starts cue unless one of the same kind started within CueMinInterval
// Returns whether the cue was accepted
func (p *CuePlayer) Play(c Cue, scale float64) bool {
	if c >= cueCount {
		return false
	}

	p.mu.Lock()
	now := p.now()
	if last := p.last[c]; !last.IsZero() && now.Sub(last) < parameter.CueMinInterval {
		p.stats.Limited[c]++
		p.mu.Unlock()
		return false
	}
	p.last[c] = now
	p.stats.Played[c]++
	silent := p.silent
	p.mu.Unlock()

	if silent {
		return true
	}

	s := NewCueStreamer(c, scale, p.rng)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	return true
}

// SetVolume changes the gain exponent, clamped to [-10, 0]
func (p *CuePlayer) SetVolume(v float64) {
	v = vmath.Clamp(v, -10, 0)
	p.mu.Lock()
	silent := p.silent
	p.cfg.Volume = v
	p.mu.Unlock()

	if silent {
		p.volume.Volume = v
		return
	}
	speaker.Lock()
	p.volume.Volume = v
	speaker.Unlock()
}

// SetMuted silences the output stage without dropping cue accounting
func (p *CuePlayer) SetMuted(muted bool) {
	p.mu.Lock()
	silent := p.silent
	p.mu.Unlock()

	if silent {
		p.volume.Silent = muted
		return
	}
	speaker.Lock()
	p.volume.Silent = muted
	speaker.Unlock()
}

// Muted reports whether the output stage is silenced
func (p *CuePlayer) Muted() bool {
	p.mu.Lock()
	silent := p.silent
	p.mu.Unlock()

	if silent {
		return p.volume.Silent
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.volume.Silent
}

// Volume returns the current gain exponent
func (p *CuePlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Volume
}

// Stats returns cue counters
func (p *CuePlayer) Stats() CueStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close unsubscribes, stops all cues and releases the speaker
func (p *CuePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.subs {
		s.Unsubscribe()
	}
	p.subs = nil
	p.initialized = false

	if p.silent {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.silent = true
}
