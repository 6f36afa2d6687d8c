package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Polar returns a vector of length mag at angle radians
func Polar(angle, mag float64) mgl64.Vec2 {
	s, c := math.Sincos(angle)
	return mgl64.Vec2{c * mag, s * mag}
}

// DistSq returns squared distance between a and b
func DistSq(a, b mgl64.Vec2) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Lerp interpolates between a and b by t
func Lerp(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
