package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/vmath"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// Cue is a short synthesized sound tied to one effect kind
type Cue uint8

const (
	CuePop   Cue = iota // object destroyed
	CueClick            // object hit
	CueSweep            // combo
	CueChime            // item collected
	CueThud             // collision
	cueCount
)

var cueNames = [cueCount]string{"pop", "click", "sweep", "chime", "thud"}

func (c Cue) String() string {
	if c >= cueCount {
		return "unknown"
	}
	return cueNames[c]
}

// Duration returns the cue's length
func (c Cue) Duration() time.Duration {
	switch c {
	case CuePop:
		return parameter.PopCueDuration
	case CueClick:
		return parameter.ClickCueDuration
	case CueSweep:
		return parameter.SweepCueDuration
	case CueChime:
		return parameter.ChimeCueDuration
	default:
		return parameter.ThudCueDuration
	}
}

// NewCueStreamer synthesizes cue; scale ≥ 1 raises the sweep's pitch for bigger combos
// The returned streamer ends after exactly Duration worth of samples
func NewCueStreamer(c Cue, scale float64, rng *vmath.FastRand) beep.Streamer {
	n := sampleRate.N(c.Duration())
	var src beep.Streamer

	switch c {
	case CuePop:
		src = &noiseGenerator{rng: rng, decay: 30, gain: 0.35}
	case CueClick:
		src = &toneGenerator{freq: 2400, decay: 120, gain: 0.25, square: true}
	case CueSweep:
		base := parameter.SweepBaseFrequency * math.Max(1, scale)
		src = &toneGenerator{freq: base, sweep: base * 2, total: n, decay: 6, gain: 0.2}
	case CueChime:
		tone, err := generators.SineTone(sampleRate, parameter.ChimeCueFrequency)
		if err != nil {
			tone = &toneGenerator{freq: parameter.ChimeCueFrequency}
		}
		src = &envelope{src: tone, decay: 9, gain: 0.22}
	default:
		src = &toneGenerator{freq: parameter.ThudFrequency, decay: 25, gain: 0.45}
	}
	return beep.Take(n, src)
}

// toneGenerator is a sine or square oscillator with exponential decay and optional linear sweep
type toneGenerator struct {
	freq   float64
	sweep  float64 // End frequency, 0 disables
	total  int     // Samples over which the sweep runs
	decay  float64
	gain   float64
	square bool

	phase float64
	pos   int
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	gain := g.gain
	if gain == 0 {
		gain = 1
	}
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)

		freq := g.freq
		if g.sweep > 0 && g.total > 0 {
			freq += (g.sweep - g.freq) * math.Min(1, float64(g.pos)/float64(g.total))
		}

		val := math.Sin(2 * math.Pi * g.phase)
		if g.square {
			val = 1.0
			if g.phase >= 0.5 {
				val = -1.0
			}
		}
		val *= gain * math.Exp(-t*g.decay)

		samples[i][0] = val
		samples[i][1] = val

		// Keep phase in [0, 1)
		g.phase += freq / float64(sampleRate)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error { return nil }

// noiseGenerator is white noise with a fast decay, used for pops
type noiseGenerator struct {
	rng   *vmath.FastRand
	decay float64
	gain  float64
	pos   int
}

func (g *noiseGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)
		val := (g.rng.Float64()*2 - 1) * g.gain * math.Exp(-t*g.decay)
		samples[i][0] = val
		samples[i][1] = val
		g.pos++
	}
	return len(samples), true
}

func (g *noiseGenerator) Err() error { return nil }

// envelope applies gain and exponential decay to another streamer
type envelope struct {
	src   beep.Streamer
	decay float64
	gain  float64
	pos   int
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.src.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(e.pos) / float64(sampleRate)
		k := e.gain * math.Exp(-t*e.decay)
		samples[i][0] *= k
		samples[i][1] *= k
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.src.Err() }
