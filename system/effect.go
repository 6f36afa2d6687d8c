package system

import (
	"image/color"

	"github.com/lixenwraith/vfx/event"
	"github.com/lixenwraith/vfx/vmath"
)

// Pattern selects how emission angles are distributed
type Pattern uint8

const (
	// PatternRadial spaces particles evenly around the circle
	PatternRadial Pattern = iota
	// PatternBurst samples every angle at random
	PatternBurst
)

// Range is a closed sampling interval
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng *vmath.FastRand) float64 {
	return rng.Range(r.Min, r.Max)
}

// Effect describes one spawn group
type Effect struct {
	CountMin, CountMax int
	Speed              Range
	Size               Range
	Life               Range
	Gravity            float64
	Damping            float64
	Pattern            Pattern
	Spread             float64 // Angular jitter in radians for radial patterns
	Color              color.NRGBA
	ColorJitter        int // Per-channel random offset
	FadeOut            bool
	Glow               bool
	Trail              bool
	Chromatic          bool
}

// DefaultEffects is the effect table per consumed event kind
var DefaultEffects = map[event.Kind]Effect{
	event.KindObjectDestroyed: {
		CountMin: 24, CountMax: 32,
		Speed: Range{80, 220}, Size: Range{2, 4}, Life: Range{0.6, 1.2},
		Gravity: 120, Damping: 0.96,
		Pattern: PatternBurst, ColorJitter: 14,
		FadeOut: true, Glow: true,
	},
	event.KindObjectHit: {
		CountMin: 6, CountMax: 10,
		Speed: Range{60, 140}, Size: Range{1.5, 2.5}, Life: Range{0.2, 0.4},
		Damping: 0.94,
		Pattern: PatternRadial, Spread: 0.3, ColorJitter: 8,
		FadeOut: true,
	},
	event.KindComboActivated: {
		CountMin: 8, CountMax: 8,
		Speed: Range{120, 200}, Size: Range{2.5, 3.5}, Life: Range{0.8, 1.2},
		Damping: 0.97,
		Pattern: PatternRadial,
		FadeOut: true, Glow: true, Trail: true,
	},
	event.KindItemCollected: {
		CountMin: 12, CountMax: 12,
		Speed: Range{40, 90}, Size: Range{2, 3}, Life: Range{0.5, 0.9},
		Gravity: -60, Damping: 0.98,
		Pattern: PatternRadial, Spread: 0.1,
		FadeOut: true, Glow: true, Chromatic: true,
	},
	event.KindCollision: {
		CountMin: 10, CountMax: 14,
		Speed: Range{100, 180}, Size: Range{1, 2}, Life: Range{0.15, 0.3},
		Damping: 0.9,
		Pattern: PatternBurst, ColorJitter: 20,
		FadeOut: true,
	},
}

func jitter(c color.NRGBA, amount int, rng *vmath.FastRand) color.NRGBA {
	if amount <= 0 {
		return c
	}
	shift := func(v uint8) uint8 {
		n := int(v) + rng.Intn(2*amount+1) - amount
		return uint8(max(0, min(255, n)))
	}
	c.R, c.G, c.B = shift(c.R), shift(c.G), shift(c.B)
	return c
}
