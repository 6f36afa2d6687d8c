package render

import (
	"errors"
	"image/color"
)

// ErrLayerUnsupported is returned by surfaces that cannot allocate detached layers
var ErrLayerUnsupported = errors.New("render: detached layer unsupported")

// BlendMode selects how a fill composites onto the surface
type BlendMode uint8

const (
	// BlendNormal is source-over alpha compositing
	BlendNormal BlendMode = iota
	// BlendAdditive sums source into destination, used for glow
	BlendAdditive
)

func (m BlendMode) String() string {
	if m == BlendAdditive {
		return "additive"
	}
	return "normal"
}

// Surface is the 2D drawing boundary the particle pass renders into
// Arc appends a closed subpath; Fill paints every subpath since BeginPath in one call
type Surface interface {
	Size() (w, h int)
	Clear()
	Save()
	Restore()
	SetFillColor(c color.NRGBA)
	SetStrokeColor(c color.NRGBA)
	SetBlendMode(m BlendMode)
	BeginPath()
	Arc(x, y, radius, start, end float64)
	ClosePath()
	Fill()
	DrawSurface(src Surface, x, y float64)
}

// Layered is implemented by surfaces able to allocate an offscreen layer
type Layered interface {
	NewLayer(w, h int) (Surface, error)
}

// State is the settable drawing state saved by Save and restored by Restore
// Adapters embed it to share the save stack
type State struct {
	Fill   color.NRGBA
	Stroke color.NRGBA
	Blend  BlendMode
}

// StateStack is a Save/Restore stack of State
type StateStack struct {
	Current State
	saved   []State
}

// Save pushes the current state
func (s *StateStack) Save() {
	s.saved = append(s.saved, s.Current)
}

// Restore pops the last saved state, unbalanced calls are ignored
func (s *StateStack) Restore() {
	if len(s.saved) == 0 {
		return
	}
	s.Current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

// Depth returns the number of saved states
func (s *StateStack) Depth() int { return len(s.saved) }
