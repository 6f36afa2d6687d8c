package vmath

import "github.com/go-gl/mathgl/mgl64"

// Rect is an axis-aligned box, Min inclusive, Max exclusive
type Rect struct {
	Min, Max mgl64.Vec2
}

// NewRect builds a rect from origin and size
func NewRect(x, y, w, h float64) Rect {
	return Rect{Min: mgl64.Vec2{x, y}, Max: mgl64.Vec2{x + w, y + h}}
}

// RectAround builds a square rect centered on c
func RectAround(c mgl64.Vec2, radius float64) Rect {
	return Rect{
		Min: mgl64.Vec2{c[0] - radius, c[1] - radius},
		Max: mgl64.Vec2{c[0] + radius, c[1] + radius},
	}
}

func (r Rect) Width() float64  { return r.Max[0] - r.Min[0] }
func (r Rect) Height() float64 { return r.Max[1] - r.Min[1] }

// Empty reports zero or negative area
func (r Rect) Empty() bool {
	return r.Max[0] <= r.Min[0] || r.Max[1] <= r.Min[1]
}

// Contains reports whether p lies within [Min, Max)
func (r Rect) Contains(p mgl64.Vec2) bool {
	return p[0] >= r.Min[0] && p[0] < r.Max[0] &&
		p[1] >= r.Min[1] && p[1] < r.Max[1]
}

// Canon returns the rect with Min and Max swapped where inverted
func (r Rect) Canon() Rect {
	if r.Max[0] < r.Min[0] {
		r.Min[0], r.Max[0] = r.Max[0], r.Min[0]
	}
	if r.Max[1] < r.Min[1] {
		r.Min[1], r.Max[1] = r.Max[1], r.Min[1]
	}
	return r
}
