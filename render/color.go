package render

import (
	"image/color"

	"github.com/lixenwraith/vfx/parameter"
)

// clamp converts float to uint8 efficiently
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// add is addition with clamping
func add(a, b uint8) uint8 {
	sum := int(a) + int(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

// Blend mixes src over c by alpha, result is opaque
// If alpha is 1.0 or 0.0, we return early to save math
func Blend(c, src color.NRGBA, alpha float64) color.NRGBA {
	if alpha >= 1.0 {
		return color.NRGBA{R: src.R, G: src.G, B: src.B, A: 255}
	}
	if alpha <= 0.0 {
		return c
	}

	inv := 1.0 - alpha
	return color.NRGBA{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
		A: 255,
	}
}

// Add performs additive blend with clamping and alpha blending
func Add(c, src color.NRGBA, alpha float64) color.NRGBA {
	if alpha <= 0.0 {
		return c
	}

	added := color.NRGBA{
		R: add(c.R, src.R),
		G: add(c.G, src.G),
		B: add(c.B, src.B),
		A: 255,
	}
	if alpha >= 1.0 {
		return added
	}
	return Blend(c, added, alpha)
}

// Scale multiplies all color channels by factor, alpha is kept
func Scale(c color.NRGBA, factor float64) color.NRGBA {
	return color.NRGBA{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
		A: c.A,
	}
}

// Quantize drops low color bits and buckets alpha so near-identical colors share a batch
// Channel values are re-centered in their bucket
func Quantize(c color.NRGBA) color.NRGBA {
	const mask = uint8((0xFF << parameter.ColorQuantizeShift) & 0xFF)
	const half = uint8(1<<parameter.ColorQuantizeShift) / 2

	q := func(v uint8) uint8 { return v&mask | half }

	step := 256 / parameter.AlphaQuantizeLevels
	bucket := int(c.A) / step
	a := bucket*step + step - 1
	if c.A == 0 {
		a = 0
	}
	return color.NRGBA{R: q(c.R), G: q(c.G), B: q(c.B), A: uint8(a)}
}
