package veneer

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is the geometry stage's output for one corner of one instance: the
// clip-space position plus every attribute the compositing stage needs.
// Attributes other than ClipPos and Rel are constant across an instance's
// four corners.
type Vertex struct {
	// ClipPos is the corner position in clip space ([-1, 1] per axis).
	ClipPos Vec2
	// Rel is the corner's offset within the instance's animated size, in
	// local pixels. Interpolated across the quad it becomes the per-pixel
	// relative coordinate the nine-slice remap works on.
	Rel Vec2
	// RenderSize is the animated {width, height} in pixels.
	RenderSize Vec2
	// SrcOrigin is the source rectangle's top-left corner within the
	// atlas, in texels.
	SrcOrigin Vec2
	// SlicedSize is the source rectangle's footprint in texels — the
	// pre-scaled nine-slice reference size.
	SlicedSize Vec2
	// TexSize is the atlas texture size in pixels.
	TexSize Vec2
	// SliceBorders are the border widths in texels: left, top, right,
	// bottom.
	SliceBorders [4]float64

	Mode    Mode
	Opacity float64
	Tint    Color
}

// Corner order: two-bit index, bit 0 selects right, bit 1 selects bottom.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// EvaluateVertex runs the instance geometry stage for one corner: resolve
// the four animation channels at the time snapshot, scale the unit corner by
// the animated size, apply the instance transform and translation, and
// convert to clip space.
//
// EvaluateVertex is a pure function of its arguments. Callers evaluating the
// four corners of one instance must pass the same now to all four so a quad
// never mixes time snapshots.
func EvaluateVertex(in *Instance, corner int, now float64, screen Vec2) Vertex {
	w := in.Width.Value(in.Rect.Width, now)
	h := in.Height.Value(in.Rect.Height, now)
	tx := in.X.Value(in.Rect.X, now)
	ty := in.Y.Value(in.Rect.Y, now)

	rel := Vec2{
		X: float64(corner&1) * w,
		Y: float64(corner>>1&1) * h,
	}

	local := in.Transform.Mul4x1(mgl64.Vec4{rel.X, rel.Y, 0, 1})
	px := local.X() + tx
	py := local.Y() + ty

	tint := in.Tint
	if in.TintAnim != nil {
		tint = in.TintAnim.Value(tint, now)
	}

	return Vertex{
		ClipPos:    Vec2{2*px/screen.X - 1, 2*py/screen.Y - 1},
		Rel:        rel,
		RenderSize: Vec2{w, h},
		SrcOrigin: Vec2{
			in.UVOffset.X * in.TexSize.X,
			in.UVOffset.Y * in.TexSize.Y,
		},
		SlicedSize: Vec2{
			in.UVScale.X * in.TexSize.X,
			in.UVScale.Y * in.TexSize.Y,
		},
		TexSize:      in.TexSize,
		SliceBorders: in.SliceBorders,
		Mode:         in.Mode,
		Opacity:      in.Opacity,
		Tint:         tint,
	}
}

// ScreenPos converts the clip-space position back to screen pixels, the form
// ebiten's destination vertices want.
func (v Vertex) ScreenPos(screen Vec2) Vec2 {
	return Vec2{
		X: (v.ClipPos.X + 1) / 2 * screen.X,
		Y: (v.ClipPos.Y + 1) / 2 * screen.Y,
	}
}
