// Package tcellfx rasterizes particle batches into terminal cells
package tcellfx

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vfx/render"
)

// Surface is a render.Surface over a tcell screen
// Each cell covers cellW × cellH world units; a filled disc colors the background of every
// cell whose center it covers, and always the cell holding its center.
// Offscreen layers are not supported, so the batch renderer draws directly.
type Surface struct {
	render.StateStack

	screen       tcell.Screen
	cellW, cellH float64
	cols, rows   int

	cells      []color.NRGBA
	touched    []bool
	background color.NRGBA

	path []disc
}

type disc struct {
	x, y, r float64
}

// New creates a surface sized to the screen
func New(screen tcell.Screen, cellW, cellH float64) *Surface {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	s := &Surface{
		screen:     screen,
		cellW:      cellW,
		cellH:      cellH,
		background: color.NRGBA{A: 255},
	}
	cols, rows := screen.Size()
	s.Resize(cols, rows)
	return s
}

// SetBackground sets the color of untouched cells
func (s *Surface) SetBackground(c color.NRGBA) {
	s.background = c
}

// Resize adjusts cell dimensions, reallocates only if capacity insufficient
func (s *Surface) Resize(cols, rows int) {
	size := cols * rows
	if cap(s.cells) < size {
		s.cells = make([]color.NRGBA, size)
		s.touched = make([]bool, size)
	} else {
		s.cells = s.cells[:size]
		s.touched = s.touched[:size]
	}
	s.cols, s.rows = cols, rows
	s.Clear()
}

// Sync re-reads the screen size after a resize event
func (s *Surface) Sync() {
	cols, rows := s.screen.Size()
	if cols != s.cols || rows != s.rows {
		s.Resize(cols, rows)
	}
	s.screen.Sync()
}

// Size returns the covered area in world units
func (s *Surface) Size() (int, int) {
	return int(float64(s.cols) * s.cellW), int(float64(s.rows) * s.cellH)
}

// Clear resets all cells to the background using exponential copy
func (s *Surface) Clear() {
	if len(s.cells) == 0 {
		return
	}
	s.cells[0] = s.background
	s.touched[0] = false
	for filled := 1; filled < len(s.cells); filled *= 2 {
		copy(s.cells[filled:], s.cells[:filled])
	}
	for filled := 1; filled < len(s.touched); filled *= 2 {
		copy(s.touched[filled:], s.touched[:filled])
	}
}

func (s *Surface) SetFillColor(c color.NRGBA)      { s.Current.Fill = c }
func (s *Surface) SetStrokeColor(c color.NRGBA)    { s.Current.Stroke = c }
func (s *Surface) SetBlendMode(m render.BlendMode) { s.Current.Blend = m }

func (s *Surface) BeginPath() {
	s.path = s.path[:0]
}

// Arc adds a disc; cells are too coarse for partial arcs so the angles are ignored
func (s *Surface) Arc(x, y, radius, start, end float64) {
	s.path = append(s.path, disc{x: x, y: y, r: radius})
}

func (s *Surface) ClosePath() {}

// Fill composites every disc of the current path with the fill color
func (s *Surface) Fill() {
	fill := s.Current.Fill
	alpha := float64(fill.A) / 255
	if alpha <= 0 {
		return
	}

	for _, d := range s.path {
		c0 := int(math.Floor((d.x - d.r) / s.cellW))
		c1 := int(math.Floor((d.x + d.r) / s.cellW))
		r0 := int(math.Floor((d.y - d.r) / s.cellH))
		r1 := int(math.Floor((d.y + d.r) / s.cellH))
		cc := int(math.Floor(d.x / s.cellW))
		cr := int(math.Floor(d.y / s.cellH))
		rSq := d.r * d.r

		for row := max(r0, 0); row <= min(r1, s.rows-1); row++ {
			for col := max(c0, 0); col <= min(c1, s.cols-1); col++ {
				dx := (float64(col)+0.5)*s.cellW - d.x
				dy := (float64(row)+0.5)*s.cellH - d.y
				if dx*dx+dy*dy > rSq && (col != cc || row != cr) {
					continue
				}
				s.composite(row*s.cols+col, fill, alpha, s.Current.Blend)
			}
		}
	}
}

func (s *Surface) composite(idx int, src color.NRGBA, alpha float64, mode render.BlendMode) {
	if mode == render.BlendAdditive {
		s.cells[idx] = render.Add(s.cells[idx], src, alpha)
	} else {
		s.cells[idx] = render.Blend(s.cells[idx], src, alpha)
	}
	s.touched[idx] = true
}

// DrawSurface composites the touched cells of another tcellfx surface at a world offset
func (s *Surface) DrawSurface(src render.Surface, x, y float64) {
	other, ok := src.(*Surface)
	if !ok {
		return
	}
	offC := int(math.Round(x / s.cellW))
	offR := int(math.Round(y / s.cellH))
	for row := 0; row < other.rows; row++ {
		for col := 0; col < other.cols; col++ {
			i := row*other.cols + col
			if !other.touched[i] {
				continue
			}
			tc, tr := col+offC, row+offR
			if tc < 0 || tc >= s.cols || tr < 0 || tr >= s.rows {
				continue
			}
			s.composite(tr*s.cols+tc, other.cells[i], 1, s.Current.Blend)
		}
	}
}

// Cell returns the composited color at a cell and whether anything was drawn there
func (s *Surface) Cell(col, row int) (color.NRGBA, bool) {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return color.NRGBA{}, false
	}
	i := row*s.cols + col
	return s.cells[i], s.touched[i]
}

// Flush writes every cell to the screen without showing it
func (s *Surface) Flush() {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			i := row*s.cols + col
			c := s.background
			if s.touched[i] {
				c = s.cells[i]
			}
			s.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(ToTcell(c)))
		}
	}
}

// Show flushes and presents the frame
func (s *Surface) Show() {
	s.Flush()
	s.screen.Show()
}

// ToTcell converts a color to a truecolor tcell color
func ToTcell(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
