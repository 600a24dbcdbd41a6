package veneer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication happens in the compositing stage, never earlier.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Lerp linearly interpolates per component toward other by ratio r.
func (c Color) Lerp(other Color, r float64) Color {
	return Color{
		R: lerp(c.R, other.R, r),
		G: lerp(c.G, other.G, r),
		B: lerp(c.B, other.B, r),
		A: lerp(c.A, other.A, r),
	}
}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp(c.R, 0, 1)*255 + 0.5),
		G: uint8(clamp(c.G, 0, 1)*255 + 0.5),
		B: uint8(clamp(c.B, 0, 1)*255 + 0.5),
		A: uint8(clamp(c.A, 0, 1)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and UV coordinates
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. For an [Instance], X and Y are
// the un-animated translation and Width/Height the un-animated size.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// --- Scalar helpers shared by the stages and their shader mirrors ---

func lerp(a, b, r float64) float64 {
	return a + (b-a)*r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// smoothstep is the cubic Hermite ramp over [0, 1]. The input must already
// be clamped.
func smoothstep(u float64) float64 {
	return u * u * (3 - 2*u)
}

// --- White pixel singleton (no sync.Once — veneer is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Bound in place of a missing atlas or backdrop so the composite shader
// always has both source images.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(ColorWhite.toRGBA())
	}
	return whitePixelImage
}
