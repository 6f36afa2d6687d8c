package particle

import (
	"image/color"

	"github.com/lixenwraith/vfx/vmath"
)

// Appearance is the plain render snapshot of one circle
type Appearance struct {
	X, Y   float64
	Radius float64
	Color  color.NRGBA // Alpha already faded
	State  State
	Glow   bool
}

const (
	chromaticOffset = 1.5
	chromaticAlpha  = 0.5
	trailAlpha      = 0.35
	trailScale      = 0.5
)

// Appearance interpolates between the last two positions by alpha
func (p *Particle) Appearance(alpha float64) Appearance {
	pos := vmath.Lerp(p.Prev, p.Position, vmath.Clamp(alpha, 0, 1))
	c := p.Color
	c.A = uint8(float64(c.A) * vmath.Clamp(p.Alpha, 0, 1))
	return Appearance{
		X:      pos[0],
		Y:      pos[1],
		Radius: p.Size,
		Color:  c,
		State:  p.State,
		Glow:   p.Glow,
	}
}

// AppendAppearances appends the body plus chromatic ghosts and trail dots
func (p *Particle) AppendAppearances(dst []Appearance, alpha float64) []Appearance {
	body := p.Appearance(alpha)

	if p.Trail.Enabled() {
		n := p.Trail.Len()
		for i := 0; i < n; i++ {
			pt := p.Trail.At(i)
			fade := float64(i+1) / float64(n+1)
			c := body.Color
			c.A = uint8(float64(c.A) * trailAlpha * fade)
			dst = append(dst, Appearance{
				X:      pt[0],
				Y:      pt[1],
				Radius: body.Radius * trailScale,
				Color:  c,
				State:  body.State,
				Glow:   body.Glow,
			})
		}
	}

	if p.Chromatic {
		ghost := body
		ghost.Color.A = uint8(float64(body.Color.A) * chromaticAlpha)

		red := ghost
		red.X -= chromaticOffset
		red.Color.G, red.Color.B = 0, 0

		cyan := ghost
		cyan.X += chromaticOffset
		cyan.Color.R = 0

		dst = append(dst, red, cyan)
	}

	return append(dst, body)
}
