package particle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/parameter"
)

// Trail is a fixed ring of recent positions
// Disabled trails ignore pushes
type Trail struct {
	points  [parameter.TrailLength]mgl64.Vec2
	head    int
	n       int
	enabled bool
}

// Reset empties the ring and sets whether it records
func (t *Trail) Reset(enabled bool) {
	t.head, t.n = 0, 0
	t.enabled = enabled
}

// Enabled reports whether the trail records positions
func (t *Trail) Enabled() bool { return t.enabled }

// Push records pos, overwriting the oldest entry when full
func (t *Trail) Push(pos mgl64.Vec2) {
	if !t.enabled {
		return
	}
	t.points[t.head] = pos
	t.head = (t.head + 1) % len(t.points)
	if t.n < len(t.points) {
		t.n++
	}
}

// Len returns the number of recorded positions
func (t *Trail) Len() int { return t.n }

// At returns the i-th position, 0 is the oldest
func (t *Trail) At(i int) mgl64.Vec2 {
	start := (t.head - t.n + len(t.points)) % len(t.points)
	return t.points[(start+i)%len(t.points)]
}
