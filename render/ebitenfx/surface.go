// Package ebitenfx draws particle batches onto ebiten images
package ebitenfx

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lixenwraith/vfx/render"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Surface is a render.Surface over an ebiten image
// Each Fill tessellates the current path and issues one DrawTriangles call
type Surface struct {
	render.StateStack

	img  *ebiten.Image
	path vector.Path

	vertices []ebiten.Vertex
	indices  []uint16
}

// New wraps img
func New(img *ebiten.Image) *Surface {
	return &Surface{img: img}
}

// SetTarget rebinds the surface, used with the screen image passed to Draw every frame
func (s *Surface) SetTarget(img *ebiten.Image) {
	s.img = img
}

// Image returns the bound image
func (s *Surface) Image() *ebiten.Image { return s.img }

func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Clear() { s.img.Clear() }

func (s *Surface) SetFillColor(c color.NRGBA) { s.Current.Fill = c }

func (s *Surface) SetStrokeColor(c color.NRGBA) { s.Current.Stroke = c }

func (s *Surface) SetBlendMode(m render.BlendMode) { s.Current.Blend = m }

func (s *Surface) BeginPath() {
	s.path = vector.Path{}
}

// Arc starts a new subpath so circles in one path stay disjoint
func (s *Surface) Arc(x, y, radius, start, end float64) {
	s.path.MoveTo(float32(x+radius*math.Cos(start)), float32(y+radius*math.Sin(start)))
	s.path.Arc(float32(x), float32(y), float32(radius), float32(start), float32(end), vector.Clockwise)
}

func (s *Surface) ClosePath() {
	s.path.Close()
}

// Fill paints every subpath since BeginPath with one draw call
func (s *Surface) Fill() {
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	if len(s.indices) == 0 {
		return
	}

	c := s.Current.Fill
	a := float32(c.A) / 0xff
	r := float32(c.R) / 0xff * a
	g := float32(c.G) / 0xff * a
	b := float32(c.B) / 0xff * a
	for i := range s.vertices {
		v := &s.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}

	s.img.DrawTriangles(s.vertices, s.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{
		Blend:          blendFor(s.Current.Blend),
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		AntiAlias:      true,
	})
}

// DrawSurface blits another ebitenfx surface at x, y with the current blend mode
func (s *Surface) DrawSurface(src render.Surface, x, y float64) {
	other, ok := src.(*Surface)
	if !ok {
		return
	}
	op := &ebiten.DrawImageOptions{Blend: blendFor(s.Current.Blend)}
	op.GeoM.Translate(x, y)
	s.img.DrawImage(other.img, op)
}

// NewLayer allocates an offscreen image of the given size
func (s *Surface) NewLayer(w, h int) (render.Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", render.ErrLayerUnsupported, w, h)
	}
	return New(ebiten.NewImage(w, h)), nil
}

func blendFor(m render.BlendMode) ebiten.Blend {
	if m == render.BlendAdditive {
		return ebiten.BlendLighter
	}
	return ebiten.BlendSourceOver
}
