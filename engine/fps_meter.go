package engine

import (
	"log"
	"math"
	"time"

	"github.com/lixenwraith/vfx/core"
	"github.com/lixenwraith/vfx/parameter"
)

// FPSMeter counts frames per sample window into a bounded ring
// Rolling min/avg/max cover the retained windows
type FPSMeter struct {
	window      time.Duration
	windowStart time.Time
	frames      int

	ring []float64
	head int
	n    int

	current  float64
	onChange []func(fps float64)
	logger   *log.Logger
}

// NewFPSMeter creates a meter; non-positive arguments use parameter defaults
func NewFPSMeter(window time.Duration, size int, logger *log.Logger) *FPSMeter {
	if window <= 0 {
		window = parameter.FPSSampleWindow
	}
	if size <= 0 {
		size = parameter.FPSHistorySize
	}
	return &FPSMeter{
		window: window,
		ring:   make([]float64, size),
		logger: core.Logger(logger),
	}
}

// OnChange registers fn, called when a closed window's FPS differs from the previous
func (m *FPSMeter) OnChange(fn func(fps float64)) {
	m.onChange = append(m.onChange, fn)
}

// Frame records one frame at now
func (m *FPSMeter) Frame(now time.Time) {
	if m.windowStart.IsZero() {
		m.windowStart = now
	}
	m.frames++

	elapsed := now.Sub(m.windowStart)
	if elapsed < m.window {
		return
	}

	fps := float64(m.frames) / elapsed.Seconds()
	m.frames = 0
	m.windowStart = now

	m.ring[m.head] = fps
	m.head = (m.head + 1) % len(m.ring)
	if m.n < len(m.ring) {
		m.n++
	}

	if fps == m.current {
		return
	}
	m.current = fps
	for _, fn := range m.onChange {
		core.Guard(m.logger, "fps change", func() { fn(fps) })
	}
}

// Reset drops history and restarts the window at the next frame
func (m *FPSMeter) Reset() {
	m.windowStart = time.Time{}
	m.frames = 0
	m.head, m.n = 0, 0
	m.current = 0
}

// Current returns the last closed window's FPS
func (m *FPSMeter) Current() float64 { return m.current }

// Samples returns the number of retained windows
func (m *FPSMeter) Samples() int { return m.n }

// Min returns the lowest retained FPS, 0 without samples
func (m *FPSMeter) Min() float64 {
	if m.n == 0 {
		return 0
	}
	v := math.Inf(1)
	for i := 0; i < m.n; i++ {
		v = math.Min(v, m.ring[i])
	}
	return v
}

// Max returns the highest retained FPS, 0 without samples
func (m *FPSMeter) Max() float64 {
	v := 0.0
	for i := 0; i < m.n; i++ {
		v = math.Max(v, m.ring[i])
	}
	return v
}

// Avg returns the mean retained FPS, 0 without samples
func (m *FPSMeter) Avg() float64 {
	if m.n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < m.n; i++ {
		sum += m.ring[i]
	}
	return sum / float64(m.n)
}
