package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/vmath"
)

// CellKey addresses a grid cell by floor(x/size), floor(y/size)
type CellKey struct {
	X, Y int
}

type cell struct {
	items []*Particle
}

// SpatialGrid is a sparse bucket index over world space
// Cells exist only while occupied; emptied cell sets are recycled
type SpatialGrid struct {
	size  float64
	inv   float64
	cells map[CellKey]*cell
	spare []*cell
	count int

	deletions int // Since last map rebuild
}

// NewSpatialGrid creates a grid with square cells of edge cellSize
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = parameter.SpatialGridCellSize
	}
	return &SpatialGrid{
		size:  cellSize,
		inv:   1 / cellSize,
		cells: make(map[CellKey]*cell),
	}
}

// CellSize returns the cell edge length
func (g *SpatialGrid) CellSize() float64 { return g.size }

// KeyFor maps a position to its cell key
func (g *SpatialGrid) KeyFor(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos[0] * g.inv)),
		Y: int(math.Floor(pos[1] * g.inv)),
	}
}

// Insert adds p at its current position
// O(1) amortized, no-op if already indexed
func (g *SpatialGrid) Insert(p *Particle) {
	if p.inGrid {
		return
	}
	key := g.KeyFor(p.Position)
	c := g.cells[key]
	if c == nil {
		c = g.newCell()
		g.cells[key] = c
	}
	p.cell = key
	p.cellIdx = len(c.items)
	p.inGrid = true
	c.items = append(c.items, p)
	g.count++
}

// Remove deletes p from its cell, deleting the cell when emptied
// O(1) swap-remove
func (g *SpatialGrid) Remove(p *Particle) {
	if !p.inGrid {
		return
	}
	c := g.cells[p.cell]
	if c == nil {
		p.inGrid = false
		return
	}

	last := len(c.items) - 1
	if p.cellIdx < last {
		moved := c.items[last]
		c.items[p.cellIdx] = moved
		moved.cellIdx = p.cellIdx
	}
	c.items[last] = nil
	c.items = c.items[:last]
	p.inGrid = false
	g.count--

	if len(c.items) == 0 {
		delete(g.cells, p.cell)
		g.spare = append(g.spare, c)
		g.deletions++
		if g.deletions >= parameter.SpatialCompactThreshold {
			g.Compact()
		}
	}
}

// Move re-keys p if its position crossed into another cell
// Returns true when the particle changed cells
func (g *SpatialGrid) Move(p *Particle) bool {
	if !p.inGrid {
		return false
	}
	if g.KeyFor(p.Position) == p.cell {
		return false
	}
	g.Remove(p)
	g.Insert(p)
	return true
}

// Query calls fn for every particle in cells overlapping r
// Candidates may lie up to one cell outside r; callers filter precisely
// Iteration stops when fn returns false. Returns the number of cells visited
func (g *SpatialGrid) Query(r vmath.Rect, fn func(*Particle) bool) int {
	r = r.Canon()
	lo := g.KeyFor(r.Min)
	hi := g.KeyFor(r.Max)

	span := (hi.X - lo.X + 1) * (hi.Y - lo.Y + 1)
	visited := 0

	// Sparse occupancy: scanning occupied cells is cheaper than the key range
	if span < 0 || span > len(g.cells) {
		for key, c := range g.cells {
			if key.X < lo.X || key.X > hi.X || key.Y < lo.Y || key.Y > hi.Y {
				continue
			}
			visited++
			for _, p := range c.items {
				if !fn(p) {
					return visited
				}
			}
		}
		return visited
	}

	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			c := g.cells[CellKey{x, y}]
			if c == nil {
				continue
			}
			visited++
			for _, p := range c.items {
				if !fn(p) {
					return visited
				}
			}
		}
	}
	return visited
}

// CellCount returns the number of occupied cells
func (g *SpatialGrid) CellCount() int { return len(g.cells) }

// Len returns the number of indexed particles
func (g *SpatialGrid) Len() int { return g.count }

// Clear drops every cell
func (g *SpatialGrid) Clear() {
	for _, c := range g.cells {
		for _, p := range c.items {
			p.inGrid = false
		}
	}
	g.cells = make(map[CellKey]*cell)
	g.spare = g.spare[:0]
	g.count = 0
	g.deletions = 0
}

// Compact rebuilds the cell map to release bucket memory and drops spare cells
func (g *SpatialGrid) Compact() {
	rebuilt := make(map[CellKey]*cell, len(g.cells))
	for k, c := range g.cells {
		rebuilt[k] = c
	}
	g.cells = rebuilt
	g.spare = nil
	g.deletions = 0
}

func (g *SpatialGrid) newCell() *cell {
	if n := len(g.spare); n > 0 {
		c := g.spare[n-1]
		g.spare[n-1] = nil
		g.spare = g.spare[:n-1]
		return c
	}
	return &cell{items: make([]*Particle, 0, 8)}
}
