package particle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/vmath"
)

func gridParticle(x, y float64) *Particle {
	return &Particle{Position: mgl64.Vec2{x, y}}
}

func TestSpatialGrid_KeyFor(t *testing.T) {
	g := NewSpatialGrid(10)
	tests := []struct {
		pos  mgl64.Vec2
		want CellKey
	}{
		{mgl64.Vec2{0, 0}, CellKey{0, 0}},
		{mgl64.Vec2{9.9, 9.9}, CellKey{0, 0}},
		{mgl64.Vec2{10, 0}, CellKey{1, 0}},
		{mgl64.Vec2{-0.1, -10}, CellKey{-1, -1}},
		{mgl64.Vec2{-10.1, 25}, CellKey{-2, 2}},
	}
	for _, tt := range tests {
		if got := g.KeyFor(tt.pos); got != tt.want {
			t.Errorf("KeyFor(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestSpatialGrid_LazyCellsDeletedWhenEmpty(t *testing.T) {
	g := NewSpatialGrid(10)
	a := gridParticle(1, 1)
	b := gridParticle(2, 2)
	c := gridParticle(50, 50)

	g.Insert(a)
	g.Insert(b)
	g.Insert(c)
	if g.CellCount() != 2 || g.Len() != 3 {
		t.Fatalf("Expected 2 cells / 3 items, got %d / %d", g.CellCount(), g.Len())
	}

	g.Remove(a)
	if g.CellCount() != 2 {
		t.Error("Cell with remaining particle must survive")
	}
	g.Remove(b)
	if g.CellCount() != 1 {
		t.Errorf("Emptied cell must be deleted, got %d cells", g.CellCount())
	}

	// Double remove is a no-op
	g.Remove(b)
	if g.Len() != 1 {
		t.Errorf("Expected 1 item, got %d", g.Len())
	}
}

func TestSpatialGrid_Move(t *testing.T) {
	g := NewSpatialGrid(10)
	p := gridParticle(1, 1)
	g.Insert(p)

	p.Position = mgl64.Vec2{5, 5}
	if g.Move(p) {
		t.Error("Move within cell should not re-key")
	}

	p.Position = mgl64.Vec2{15, 5}
	if !g.Move(p) {
		t.Error("Move across cells should re-key")
	}
	if p.cell != (CellKey{1, 0}) || g.CellCount() != 1 {
		t.Errorf("Unexpected cell %v / count %d", p.cell, g.CellCount())
	}
}

func TestSpatialGrid_SwapRemoveKeepsIndices(t *testing.T) {
	g := NewSpatialGrid(100)
	ps := []*Particle{gridParticle(1, 1), gridParticle(2, 2), gridParticle(3, 3)}
	for _, p := range ps {
		g.Insert(p)
	}

	g.Remove(ps[0])
	g.Remove(ps[2])
	g.Remove(ps[1])
	if g.Len() != 0 || g.CellCount() != 0 {
		t.Errorf("Expected empty grid, got %d items / %d cells", g.Len(), g.CellCount())
	}
}

func TestSpatialGrid_QueryVisitsOnlyOverlappingCells(t *testing.T) {
	g := NewSpatialGrid(10)
	for x := 0; x < 100; x += 10 {
		for y := 0; y < 100; y += 10 {
			g.Insert(gridParticle(float64(x)+5, float64(y)+5))
		}
	}

	seen := 0
	visited := g.Query(vmath.NewRect(0, 0, 20, 20), func(*Particle) bool {
		seen++
		return true
	})

	// Max edge lands on cell 2, one cell of margin
	if visited != 9 {
		t.Errorf("Expected 9 cells visited, got %d", visited)
	}
	if seen != 9 {
		t.Errorf("Expected 9 candidates, got %d", seen)
	}
}

func TestSpatialGrid_QuerySparse(t *testing.T) {
	g := NewSpatialGrid(1)
	g.Insert(gridParticle(5, 5))
	g.Insert(gridParticle(5000, 5000))

	seen := 0
	visited := g.Query(vmath.NewRect(0, 0, 1000, 1000), func(*Particle) bool {
		seen++
		return true
	})
	if visited != 1 || seen != 1 {
		t.Errorf("Expected 1 cell / 1 candidate, got %d / %d", visited, seen)
	}
}

func TestSpatialGrid_Clear(t *testing.T) {
	g := NewSpatialGrid(10)
	p := gridParticle(1, 1)
	g.Insert(p)
	g.Clear()
	if g.CellCount() != 0 || p.inGrid {
		t.Error("Clear should drop all cells and unmark particles")
	}
	g.Insert(p)
	if g.Len() != 1 {
		t.Error("Particle should be insertable after Clear")
	}
}
