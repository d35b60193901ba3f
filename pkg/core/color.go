package core

import (
	"image/color"
	"math"
)

// MaxChannel is the upper bound of a display color channel
const MaxChannel = 255.0

var (
	Black = Color{0, 0, 0}
	White = Color{MaxChannel, MaxChannel, MaxChannel}
)

// Color is an RGB triple with channels conceptually in [0, 255].
// Construction does not clamp; Scale and Add clamp every resulting channel.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Scale multiplies every channel by k and clamps to [0, 255]
func (c Color) Scale(k float64) Color {
	return Color{
		R: clampChannel(c.R * k),
		G: clampChannel(c.G * k),
		B: clampChannel(c.B * k),
	}
}

// Add sums two colors channel-wise and clamps to [0, 255]
func (c Color) Add(other Color) Color {
	return Color{
		R: clampChannel(c.R + other.R),
		G: clampChannel(c.G + other.G),
		B: clampChannel(c.B + other.B),
	}
}

// RGBA converts the color to a fully opaque 8-bit pixel
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: toByte(c.R),
		G: toByte(c.G),
		B: toByte(c.B),
		A: 255,
	}
}

func clampChannel(v float64) float64 {
	return max(0, min(MaxChannel, v))
}

// toByte rounds like a clamped byte array store does
func toByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.RoundToEven(clampChannel(v)))
}
