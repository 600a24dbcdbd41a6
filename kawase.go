package veneer

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// DualKawaseFilter is a two-stage blur: a chain of half-resolution
// downsample passes followed by matching upsample passes. Each pass uses a
// small fixed kernel, so N passes approximate a large-radius Gaussian at a
// fraction of the cost. Used by [Compositor] to produce the blurred backdrop
// for the backdrop composite modes, and usable standalone as a [Filter].
//
// Offset scales the per-pass sample offsets: larger values widen the blur
// per pass but eventually introduce ringing; Passes deepens the pyramid.
// The intermediate chain textures are owned by the filter and reused across
// frames.
type DualKawaseFilter struct {
	Passes int
	Offset float64

	temps    []*ebiten.Image
	uniforms map[string]any
	verts    [4]ebiten.Vertex
	indices  [6]uint16
	shaderOp ebiten.DrawTrianglesShaderOptions
}

// NewDualKawaseFilter creates a blur with the given pyramid depth and
// per-pass offset scale. Passes below 1 are clamped to 1.
func NewDualKawaseFilter(passes int, offset float64) *DualKawaseFilter {
	if passes < 1 {
		passes = 1
	}
	f := &DualKawaseFilter{
		Passes:   passes,
		Offset:   offset,
		uniforms: make(map[string]any, 1),
		indices:  [6]uint16{0, 1, 2, 2, 1, 3},
	}
	return f
}

// Padding returns the blur's effective reach in pixels: the per-pass offset
// compounds through each half-resolution level.
func (f *DualKawaseFilter) Padding() int {
	return int(math.Ceil((0.5 + f.Offset) * float64(uint(1)<<uint(f.Passes))))
}

// Apply renders the full downsample/upsample chain from src into dst.
// Intermediates are produced and consumed in strict downsample-then-upsample
// order; the chain never reuses a level within one Apply.
func (f *DualKawaseFilter) Apply(src, dst *ebiten.Image) {
	passes := f.Passes
	if passes < 1 {
		passes = 1
	}

	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	// Grow or shrink the temp chain to the current depth.
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	down := ensureKawaseDownShader()
	up := ensureKawaseUpShader()

	// Downsample chain: each pass half the previous size.
	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		f.drawPass(f.temps[i], current, down)
		current = f.temps[i]
	}

	// Upsample chain back through the same levels.
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.drawPass(f.temps[i], current, up)
		current = f.temps[i]
	}

	// Final upsample to dst.
	f.drawPass(dst, current, up)
}

// drawPass stretches the whole of src over the whole of dst through the
// given kernel shader.
func (f *DualKawaseFilter) drawPass(dst, src *ebiten.Image, shader *ebiten.Shader) {
	sb := src.Bounds()
	db := dst.Bounds()

	sx0, sy0 := float32(sb.Min.X), float32(sb.Min.Y)
	sx1, sy1 := float32(sb.Max.X), float32(sb.Max.Y)
	dx0, dy0 := float32(db.Min.X), float32(db.Min.Y)
	dx1, dy1 := float32(db.Max.X), float32(db.Max.Y)

	f.verts[0] = ebiten.Vertex{DstX: dx0, DstY: dy0, SrcX: sx0, SrcY: sy0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	f.verts[1] = ebiten.Vertex{DstX: dx1, DstY: dy0, SrcX: sx1, SrcY: sy0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	f.verts[2] = ebiten.Vertex{DstX: dx0, DstY: dy1, SrcX: sx0, SrcY: sy1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	f.verts[3] = ebiten.Vertex{DstX: dx1, DstY: dy1, SrcX: sx1, SrcY: sy1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}

	f.uniforms["Offset"] = float32(f.Offset)
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawTrianglesShader(f.verts[:], f.indices[:], shader, &f.shaderOp)
}

// --- Kernel shaders ---
//
// Sample positions are clamped to the source region so edge texels repeat
// instead of bleeding in transparent black; both kernels' weights sum to 1,
// so a uniform image passes through unchanged.

const kawaseDownShaderSrc = `//kage:unit pixels
package main

var Offset float

func clampToSrc(p vec2) vec2 {
	o := imageSrc0Origin()
	s := imageSrc0Size()
	return clamp(p, o+0.5, o+s-0.5)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	h := 0.5 + Offset
	sum := imageSrc0At(clampToSrc(src)) * 4.0
	sum += imageSrc0At(clampToSrc(src + vec2(-h, -h)))
	sum += imageSrc0At(clampToSrc(src + vec2(h, -h)))
	sum += imageSrc0At(clampToSrc(src + vec2(-h, h)))
	sum += imageSrc0At(clampToSrc(src + vec2(h, h)))
	return sum / 8.0
}
`

const kawaseUpShaderSrc = `//kage:unit pixels
package main

var Offset float

func clampToSrc(p vec2) vec2 {
	o := imageSrc0Origin()
	s := imageSrc0Size()
	return clamp(p, o+0.5, o+s-0.5)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	h := 0.5 + Offset
	sum := imageSrc0At(clampToSrc(src + vec2(-2.0*h, 0.0)))
	sum += imageSrc0At(clampToSrc(src + vec2(2.0*h, 0.0)))
	sum += imageSrc0At(clampToSrc(src + vec2(0.0, -2.0*h)))
	sum += imageSrc0At(clampToSrc(src + vec2(0.0, 2.0*h)))
	sum += imageSrc0At(clampToSrc(src+vec2(-h, -h))) * 2.0
	sum += imageSrc0At(clampToSrc(src+vec2(h, -h))) * 2.0
	sum += imageSrc0At(clampToSrc(src+vec2(-h, h))) * 2.0
	sum += imageSrc0At(clampToSrc(src+vec2(h, h))) * 2.0
	return sum / 12.0
}
`

var (
	kawaseDownShader *ebiten.Shader
	kawaseUpShader   *ebiten.Shader
)

func ensureKawaseDownShader() *ebiten.Shader {
	if kawaseDownShader == nil {
		s, err := ebiten.NewShader([]byte(kawaseDownShaderSrc))
		if err != nil {
			panic("veneer: failed to compile kawase downsample shader: " + err.Error())
		}
		kawaseDownShader = s
	}
	return kawaseDownShader
}

func ensureKawaseUpShader() *ebiten.Shader {
	if kawaseUpShader == nil {
		s, err := ebiten.NewShader([]byte(kawaseUpShaderSrc))
		if err != nil {
			panic("veneer: failed to compile kawase upsample shader: " + err.Error())
		}
		kawaseUpShader = s
	}
	return kawaseUpShader
}

// --- CPU reference of the kernels ---
//
// sample fetches a color at an absolute position; callers supply clamping
// semantics matching the shader's clampToSrc. The formulas below are the
// shader kernels verbatim.

// kawaseDownSample evaluates the downsample kernel at p: center weight 4,
// four diagonal corners weight 1, total divided by 8.
func kawaseDownSample(sample func(Vec2) Color, p Vec2, offset float64) Color {
	h := 0.5 + offset
	sum := colorScale(sample(p), 4)
	sum = colorAdd(sum, sample(Vec2{p.X - h, p.Y - h}))
	sum = colorAdd(sum, sample(Vec2{p.X + h, p.Y - h}))
	sum = colorAdd(sum, sample(Vec2{p.X - h, p.Y + h}))
	sum = colorAdd(sum, sample(Vec2{p.X + h, p.Y + h}))
	return colorScale(sum, 1.0/8)
}

// kawaseUpSample evaluates the upsample kernel at p: four axis-aligned taps
// weight 1, four diagonal taps weight 2, total divided by 12.
func kawaseUpSample(sample func(Vec2) Color, p Vec2, offset float64) Color {
	h := 0.5 + offset
	sum := sample(Vec2{p.X - 2*h, p.Y})
	sum = colorAdd(sum, sample(Vec2{p.X + 2*h, p.Y}))
	sum = colorAdd(sum, sample(Vec2{p.X, p.Y - 2*h}))
	sum = colorAdd(sum, sample(Vec2{p.X, p.Y + 2*h}))
	sum = colorAdd(sum, colorScale(sample(Vec2{p.X - h, p.Y - h}), 2))
	sum = colorAdd(sum, colorScale(sample(Vec2{p.X + h, p.Y - h}), 2))
	sum = colorAdd(sum, colorScale(sample(Vec2{p.X - h, p.Y + h}), 2))
	sum = colorAdd(sum, colorScale(sample(Vec2{p.X + h, p.Y + h}), 2))
	return colorScale(sum, 1.0/12)
}

func colorAdd(a, b Color) Color {
	return Color{a.R + b.R, a.G + b.G, a.B + b.B, a.A + b.A}
}

func colorScale(c Color, s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}
