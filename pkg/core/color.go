package core

import (
	"image/color"
	"math"
)

// Color is an 8-bit-per-channel RGB color
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromVec3 converts a float color in [0, 255] space to RGB8.
// Each channel saturates at 255; negative and NaN values map to 0.
func ColorFromVec3(v Vec3) Color {
	return Color{
		R: clampChannel(v.X),
		G: clampChannel(v.Y),
		B: clampChannel(v.Z),
	}
}

func clampChannel(c float64) uint8 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	if c >= 255 {
		return 255
	}
	return uint8(c)
}

// Vec3 widens the color to float components in [0, 255]
func (c Color) Vec3() Vec3 {
	return Vec3{float64(c.R), float64(c.G), float64(c.B)}
}

// RGBA returns the color as an opaque image/color value
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Luminance returns the perceptual luminance in [0, 1].
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (c Color) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255.0
}
