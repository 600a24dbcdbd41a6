package veneer

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects how the compositing stage sources and blends a pixel's color.
// The enum is closed: the shader dispatches on exactly these five values.
type Mode uint8

const (
	// ModeDirect samples the texture and uses the sample as-is.
	ModeDirect Mode = iota
	// ModeAlphaTint treats the texture as a single-channel alpha mask and
	// colors it with the tint.
	ModeAlphaTint
	// ModeSolidFill ignores the texture; the tint is the color.
	ModeSolidFill
	// ModeAlphaTintBackdrop is ModeAlphaTint composited over the blurred
	// backdrop.
	ModeAlphaTintBackdrop
	// ModeSolidFillBackdrop is ModeSolidFill composited over the blurred
	// backdrop.
	ModeSolidFillBackdrop
)

// UsesBackdrop reports whether the mode samples the backdrop texture.
func (m Mode) UsesBackdrop() bool {
	return m == ModeAlphaTintBackdrop || m == ModeSolidFillBackdrop
}

// SolidFill reports whether the mode ignores the primary texture.
func (m Mode) SolidFill() bool {
	return m == ModeSolidFill || m == ModeSolidFillBackdrop
}

// AlphaTint reports whether the mode reads the texture as an alpha mask.
func (m Mode) AlphaTint() bool {
	return m == ModeAlphaTint || m == ModeAlphaTintBackdrop
}

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "Direct"
	case ModeAlphaTint:
		return "AlphaTint"
	case ModeSolidFill:
		return "SolidFill"
	case ModeAlphaTintBackdrop:
		return "AlphaTintBackdrop"
	case ModeSolidFillBackdrop:
		return "SolidFillBackdrop"
	}
	return "Mode(?)"
}

// Instance is one animated, texture-backed rectangular element. Records are
// written by the host before a render pass and read-only during it; the
// geometry stage never mutates them.
type Instance struct {
	// Rect is the un-animated reference rectangle: X/Y translate, and
	// Width/Height are the base size the animation channels act on.
	Rect Rect

	// UVScale and UVOffset describe the source rectangle within the atlas
	// texture, in normalized texture coordinates.
	UVScale, UVOffset Vec2

	// Transform is applied to the evaluated local corner position before
	// translation and clip-space conversion.
	Transform mgl64.Mat4

	// SliceBorders are the nine-slice border widths in source-texture
	// pixels: left, top, right, bottom. All zero means no nine-slice.
	SliceBorders [4]float64

	// TexSize is the atlas texture size in pixels.
	TexSize Vec2

	Mode    Mode
	Opacity float64 // 0..1, multiplied into the final alpha
	Tint    Color

	// Animation channels for the four animatable scalars. Zero values are
	// static channels.
	Width, Height, X, Y Channel

	// TintAnim, when non-nil, animates the tint from Tint toward its
	// target.
	TintAnim *ColorChannel

	live bool
}

// NewInstance returns an instance with the identity transform, full opacity,
// a white tint, and a full-texture UV rect.
func NewInstance() Instance {
	return Instance{
		UVScale:   Vec2{1, 1},
		Transform: mgl64.Ident4(),
		Opacity:   1,
		Tint:      ColorWhite,
	}
}

// Live reports whether the instance occupies an allocated buffer slot.
func (in *Instance) Live() bool { return in.live }

// Packed instance layout, the byte contract with a host that uploads records
// to its own GPU pipeline. Seventeen 16-byte vec4 groups per record:
//
//	 0  rect          w, h, translate_x, translate_y
//	 1  uv            scale_x, scale_y, offset_u, offset_v
//	 2  slice borders left, top, right, bottom
//	 3  tex/mode      tex_w, tex_h, mode, opacity
//	 4  tint          r, g, b, a
//	 5  x channel     start, end, target, 0
//	 6  x curve       p1x, p1y, p2x, p2y
//	 7  y channel     8  y curve
//	 9  w channel    10  w curve
//	11  h channel    12  h curve
//	13..16  transform columns 0..3
const (
	// InstanceStride is the packed record size in float32 lanes.
	InstanceStride = 68
	// InstanceStrideBytes is the packed record size in bytes.
	InstanceStrideBytes = InstanceStride * 4
)

// Pack appends the instance's packed representation to dst and returns the
// extended slice. The layout is stable; see [InstanceStride].
func (in *Instance) Pack(dst []float32) []float32 {
	dst = append(dst,
		float32(in.Rect.Width), float32(in.Rect.Height),
		float32(in.Rect.X), float32(in.Rect.Y),

		float32(in.UVScale.X), float32(in.UVScale.Y),
		float32(in.UVOffset.X), float32(in.UVOffset.Y),

		float32(in.SliceBorders[0]), float32(in.SliceBorders[1]),
		float32(in.SliceBorders[2]), float32(in.SliceBorders[3]),

		float32(in.TexSize.X), float32(in.TexSize.Y),
		float32(in.Mode), float32(in.Opacity),

		float32(in.Tint.R), float32(in.Tint.G),
		float32(in.Tint.B), float32(in.Tint.A),
	)
	dst = packChannel(dst, in.X)
	dst = packChannel(dst, in.Y)
	dst = packChannel(dst, in.Width)
	dst = packChannel(dst, in.Height)
	for col := 0; col < 4; col++ {
		c := in.Transform.Col(col)
		dst = append(dst, float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3]))
	}
	return dst
}

func packChannel(dst []float32, ch Channel) []float32 {
	return append(dst,
		float32(ch.Start), float32(ch.End), float32(ch.Target), 0,
		float32(ch.Curve.P1.X), float32(ch.Curve.P1.Y),
		float32(ch.Curve.P2.X), float32(ch.Curve.P2.Y),
	)
}

// InstanceBuffer owns a dense, slot-addressed array of instance records.
// Freed slots are recycled lowest-index-first so the packed buffer stays
// compact for the uploader.
type InstanceBuffer struct {
	instances []Instance
	free      []int
}

// NewInstanceBuffer returns an empty buffer.
func NewInstanceBuffer() *InstanceBuffer {
	return &InstanceBuffer{}
}

// Alloc reserves a slot and initializes it via [NewInstance], reusing the
// lowest freed slot when one exists.
func (b *InstanceBuffer) Alloc() int {
	if n := len(b.free); n > 0 {
		// Lowest index first.
		best := 0
		for i := 1; i < n; i++ {
			if b.free[i] < b.free[best] {
				best = i
			}
		}
		slot := b.free[best]
		b.free[best] = b.free[n-1]
		b.free = b.free[:n-1]
		b.instances[slot] = NewInstance()
		b.instances[slot].live = true
		return slot
	}
	b.instances = append(b.instances, NewInstance())
	slot := len(b.instances) - 1
	b.instances[slot].live = true
	return slot
}

// Free releases a slot for reuse. Freeing a dead slot is a no-op.
func (b *InstanceBuffer) Free(slot int) {
	if slot < 0 || slot >= len(b.instances) || !b.instances[slot].live {
		return
	}
	b.instances[slot] = Instance{}
	b.free = append(b.free, slot)
}

// At returns the record in the given slot. The pointer stays valid until the
// next Alloc (which may grow the backing array).
func (b *InstanceBuffer) At(slot int) *Instance {
	return &b.instances[slot]
}

// Len returns the number of slots, live or freed.
func (b *InstanceBuffer) Len() int {
	return len(b.instances)
}

// Each calls fn for every live instance in slot order.
func (b *InstanceBuffer) Each(fn func(slot int, in *Instance)) {
	for i := range b.instances {
		if b.instances[i].live {
			fn(i, &b.instances[i])
		}
	}
}

// anyBackdrop reports whether any live instance uses a backdrop mode.
func (b *InstanceBuffer) anyBackdrop() bool {
	for i := range b.instances {
		if b.instances[i].live && b.instances[i].Mode.UsesBackdrop() {
			return true
		}
	}
	return false
}

// Pack writes every slot (live or zeroed) into dst in slot order, dense at
// [InstanceStride] lanes per record, and returns the slice. Pass a slice
// with spare capacity to avoid reallocation across frames.
func (b *InstanceBuffer) Pack(dst []float32) []float32 {
	dst = dst[:0]
	for i := range b.instances {
		dst = b.instances[i].Pack(dst)
	}
	return dst
}
