package veneer

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// MaskRect is a soft rectangular clip in screen-normalized coordinates,
// applied per pixel independently of instance data. Pixels outside the
// rectangle are discarded — no write at all, not a transparent write.
// Softness holds the per-edge falloff band widths (left, top, right,
// bottom), also screen-normalized; inside a band the alpha ramps from 0 at
// the edge to 1 at the band's inner boundary.
type MaskRect struct {
	Min, Max Vec2
	Softness [4]float64
}

// FullMask returns a mask covering the whole screen with hard edges.
func FullMask() MaskRect {
	return MaskRect{Max: Vec2{1, 1}}
}

// --- CPU reference of the compositing stage ---
//
// These functions compute exactly what compositeShaderSrc computes, formula
// for formula. The test suite asserts against them; the shader is the same
// math on the GPU.

// sliceAxis remaps a relative coordinate r along one axis into a source
// texel offset. size is the rendered extent, lt/rb the leading/trailing
// border widths in texels, sliced the source rectangle's footprint in
// texels.
//
// Inside a border the texel offset equals the pixel offset, keeping native
// density; the middle segment stretches linearly across the source's middle
// band. Border pairs wider than the rendered size shrink proportionally so
// the middle segment is never negative; a middle segment of exactly zero
// pins to the leading seam.
func sliceAxis(r, size, lt, rb, sliced float64) float64 {
	if lt+rb > size && lt+rb > 0 {
		f := size / (lt + rb)
		lt *= f
		rb *= f
	}
	if lt > 0 && r < lt {
		return r
	}
	if rb > 0 && size-r < rb {
		return sliced - (size - r)
	}
	mid := size - lt - rb
	if mid <= 0 {
		return lt
	}
	return lt + (r-lt)*(sliced-lt-rb)/mid
}

// maskEdge is the smooth falloff from one mask edge: d is the distance from
// the edge into the interior, width the softness band. Zero width means a
// hard edge.
func maskEdge(d, width float64) float64 {
	if width <= 0 {
		return 1
	}
	return smoothstep(clamp(d/width, 0, 1))
}

// maskFactor returns the soft attenuation for a screen-normalized point, or
// ok == false when the point lies outside the mask entirely.
func maskFactor(p Vec2, m MaskRect) (factor float64, ok bool) {
	if p.X < m.Min.X || p.Y < m.Min.Y || p.X > m.Max.X || p.Y > m.Max.Y {
		return 0, false
	}
	f := maskEdge(p.X-m.Min.X, m.Softness[0])
	f = math.Min(f, maskEdge(p.Y-m.Min.Y, m.Softness[1]))
	f = math.Min(f, maskEdge(m.Max.X-p.X, m.Softness[2]))
	f = math.Min(f, maskEdge(m.Max.Y-p.Y, m.Softness[3]))
	return f, true
}

// PixelInput is one compositing-stage invocation: the interpolated vertex
// attributes plus the pixel's screen-normalized coordinate and the texture
// fetch callbacks.
type PixelInput struct {
	ScreenUV     Vec2 // screen-normalized pixel coordinate
	Rel          Vec2 // interpolated relative coordinate in local pixels
	RenderSize   Vec2
	SrcOrigin    Vec2
	SlicedSize   Vec2
	SliceBorders [4]float64
	Mode         Mode
	Opacity      float64
	Tint         Color

	// Sample fetches a straight-alpha texel from the primary texture at an
	// absolute texel position. Nil is treated as opaque white.
	Sample func(texel Vec2) Color
	// Backdrop fetches the backdrop color at a screen-normalized
	// coordinate; its alpha is treated as opaque. Nil is treated as black.
	Backdrop func(screenUV Vec2) Color
}

// PixelInput builds a compositing invocation from the vertex's instance-wide
// attributes, an interpolated relative coordinate, and a screen coordinate.
func (v Vertex) PixelInput(rel, screenUV Vec2) PixelInput {
	return PixelInput{
		ScreenUV:     screenUV,
		Rel:          rel,
		RenderSize:   v.RenderSize,
		SrcOrigin:    v.SrcOrigin,
		SlicedSize:   v.SlicedSize,
		SliceBorders: v.SliceBorders,
		Mode:         v.Mode,
		Opacity:      v.Opacity,
		Tint:         v.Tint,
	}
}

// ShadePixel is the CPU reference of the compositing stage. It returns the
// premultiplied output color, or ok == false when the pixel is discarded by
// the mask. It never produces NaN or Inf, whatever the inputs.
func ShadePixel(in PixelInput, mask MaskRect) (out Color, ok bool) {
	factor, inside := maskFactor(in.ScreenUV, mask)
	if !inside {
		return Color{}, false
	}

	var c Color
	switch {
	case in.Mode.SolidFill():
		c = in.Tint
	default:
		tx := sliceAxis(in.Rel.X, in.RenderSize.X, in.SliceBorders[0], in.SliceBorders[2], in.SlicedSize.X)
		ty := sliceAxis(in.Rel.Y, in.RenderSize.Y, in.SliceBorders[1], in.SliceBorders[3], in.SlicedSize.Y)
		s := ColorWhite
		if in.Sample != nil {
			s = in.Sample(Vec2{in.SrcOrigin.X + tx, in.SrcOrigin.Y + ty})
		}
		if in.Mode.AlphaTint() {
			c = Color{in.Tint.R, in.Tint.G, in.Tint.B, in.Tint.A * s.A}
		} else {
			c = s
		}
	}

	a := c.A * factor * in.Opacity
	out = Color{c.R * a, c.G * a, c.B * a, a}

	if in.Mode.UsesBackdrop() && a > 0 {
		b := Color{}
		if in.Backdrop != nil {
			b = in.Backdrop(in.ScreenUV)
		}
		return Color{
			R: out.R + b.R*(1-a),
			G: out.G + b.G*(1-a),
			B: out.B + b.B*(1-a),
			A: 1,
		}, true
	}
	return out, true
}

// --- Composite shader ---
//
// The GPU side of the stage. Uniforms mirror PixelInput's instance-wide
// fields; the per-pixel relative coordinate and render size arrive as vertex
// custom attributes so they interpolate across the quad. Image 0 is the
// atlas, image 1 the (blurred) backdrop.

const compositeShaderSrc = `//kage:unit pixels
package main

var ScreenSize vec2
var SrcOrigin vec2
var SlicedSize vec2
var SliceBorders vec4
var Mode float
var Opacity float
var Tint vec4
var MaskMin vec2
var MaskMax vec2
var MaskSoftness vec4

func sliceAxis(r, size, lt0, rb0, sliced float) float {
	lt := lt0
	rb := rb0
	if lt+rb > size && lt+rb > 0 {
		f := size / (lt + rb)
		lt *= f
		rb *= f
	}
	if lt > 0 && r < lt {
		return r
	}
	if rb > 0 && size-r < rb {
		return sliced - (size - r)
	}
	mid := size - lt - rb
	if mid <= 0 {
		return lt
	}
	return lt + (r-lt)*(sliced-lt-rb)/mid
}

func maskEdge(d, width float) float {
	if width <= 0 {
		return 1
	}
	return smoothstep(0, width, d)
}

func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {
	p := dst.xy / ScreenSize
	if p.x < MaskMin.x || p.y < MaskMin.y || p.x > MaskMax.x || p.y > MaskMax.y {
		discard()
	}

	var c vec4
	if Mode == 2 || Mode == 4 {
		c = Tint
	} else {
		rel := custom.xy
		size := custom.zw
		tx := sliceAxis(rel.x, size.x, SliceBorders.x, SliceBorders.z, SlicedSize.x)
		ty := sliceAxis(rel.y, size.y, SliceBorders.y, SliceBorders.w, SlicedSize.y)
		s := imageSrc0At(imageSrc0Origin() + SrcOrigin + vec2(tx, ty))
		if Mode == 1 || Mode == 3 {
			c = vec4(Tint.rgb, Tint.a*s.a)
		} else {
			// Sampled texels are premultiplied; the pipeline below
			// premultiplies exactly once at the end.
			if s.a > 0 {
				s.rgb /= s.a
			}
			c = s
		}
	}

	m := maskEdge(p.x-MaskMin.x, MaskSoftness.x)
	m = min(m, maskEdge(p.y-MaskMin.y, MaskSoftness.y))
	m = min(m, maskEdge(MaskMax.x-p.x, MaskSoftness.z))
	m = min(m, maskEdge(MaskMax.y-p.y, MaskSoftness.w))

	a := c.a * m * Opacity
	out := vec4(c.rgb*a, a)

	if Mode >= 3 && a > 0 {
		b := imageSrc1At(imageSrc1Origin() + dst.xy)
		return vec4(out.rgb+b.rgb*(1.0-a), 1.0)
	}
	return out
}
`

// --- Lazy shader compilation (no sync.Once — veneer is single-threaded) ---

var compositeShader *ebiten.Shader

func ensureCompositeShader() *ebiten.Shader {
	if compositeShader == nil {
		s, err := ebiten.NewShader([]byte(compositeShaderSrc))
		if err != nil {
			panic("veneer: failed to compile composite shader: " + err.Error())
		}
		compositeShader = s
	}
	return compositeShader
}
