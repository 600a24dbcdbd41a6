package veneer

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Compositor drives the full pipeline for a frame: sink the layout tree into
// the instance buffer, prepare the blurred backdrop if any live instance
// needs one, then draw every live instance as a shader quad.
//
// The zero value is not usable; construct with [NewCompositor]. Fields are
// exported for host configuration between frames, not during Render.
type Compositor struct {
	// Instances is the slot-addressed record array the tree sinks into.
	// Hosts bypassing the tree can allocate and fill slots directly.
	Instances *InstanceBuffer

	// Atlas is the source texture instances sample from. May be nil when
	// every instance uses a solid-fill mode.
	Atlas *ebiten.Image

	// Tree, when non-nil, is flattened into Instances at the start of
	// every Render.
	Tree *Tree

	// Mask clips every instance. Defaults to [FullMask].
	Mask MaskRect

	// Blur produces the backdrop for the backdrop composite modes.
	Blur *DualKawaseFilter

	// BackdropFilters run on the blurred backdrop before instances sample
	// it, in order.
	BackdropFilters []Filter

	backdrop *ebiten.Image
	pool     texturePool

	verts   [4]ebiten.Vertex
	indices [6]uint16

	// Persistent uniform storage; the slices are written in place each
	// draw so Render allocates nothing after warmup.
	uniforms     map[string]any
	screenSize   []float32
	srcOrigin    []float32
	slicedSize   []float32
	sliceBorders []float32
	tint         []float32
	maskMin      []float32
	maskMax      []float32
	maskSoftness []float32

	shaderOp ebiten.DrawTrianglesShaderOptions
}

// NewCompositor returns a compositor with an empty instance buffer, a full
// mask, and a default three-pass blur.
func NewCompositor() *Compositor {
	c := &Compositor{
		Instances:    NewInstanceBuffer(),
		Mask:         FullMask(),
		Blur:         NewDualKawaseFilter(3, 0.5),
		indices:      [6]uint16{0, 1, 2, 2, 1, 3},
		screenSize:   make([]float32, 2),
		srcOrigin:    make([]float32, 2),
		slicedSize:   make([]float32, 2),
		sliceBorders: make([]float32, 4),
		tint:         make([]float32, 4),
		maskMin:      make([]float32, 2),
		maskMax:      make([]float32, 2),
		maskSoftness: make([]float32, 4),
	}
	c.uniforms = map[string]any{
		"ScreenSize":   c.screenSize,
		"SrcOrigin":    c.srcOrigin,
		"SlicedSize":   c.slicedSize,
		"SliceBorders": c.sliceBorders,
		"Tint":         c.tint,
		"MaskMin":      c.maskMin,
		"MaskMax":      c.maskMax,
		"MaskSoftness": c.maskSoftness,
		"Mode":         float32(0),
		"Opacity":      float32(1),
	}
	return c
}

// SetBackdrop sets the image the backdrop modes blur and sample. When nil
// (the default), Render snapshots the destination instead, so instances
// composite over whatever was already drawn.
func (c *Compositor) SetBackdrop(img *ebiten.Image) {
	c.backdrop = img
}

// Render draws one frame into dst at the given time snapshot. Every channel
// in the tree and the instance buffer observes the same now.
func (c *Compositor) Render(dst *ebiten.Image, now float64) {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	screen := Vec2{float64(w), float64(h)}

	if c.Tree != nil {
		c.Tree.TakeDirty()
		c.Tree.Sink(c.Instances, now, screen)
	}

	blurred := c.prepareBackdrop(dst, w, h)

	atlas := c.Atlas
	if atlas == nil {
		atlas = ensureWhitePixel()
	}
	back := blurred
	if back == nil {
		back = ensureWhitePixel()
	}

	shader := ensureCompositeShader()
	c.screenSize[0] = float32(screen.X)
	c.screenSize[1] = float32(screen.Y)
	c.maskMin[0] = float32(c.Mask.Min.X)
	c.maskMin[1] = float32(c.Mask.Min.Y)
	c.maskMax[0] = float32(c.Mask.Max.X)
	c.maskMax[1] = float32(c.Mask.Max.Y)
	for i, s := range c.Mask.Softness {
		c.maskSoftness[i] = float32(s)
	}

	c.Instances.Each(func(_ int, in *Instance) {
		var v0 Vertex
		for corner := 0; corner < 4; corner++ {
			v := EvaluateVertex(in, corner, now, screen)
			if corner == 0 {
				v0 = v
			}
			sp := v.ScreenPos(screen)
			c.verts[corner] = ebiten.Vertex{
				DstX: float32(sp.X), DstY: float32(sp.Y),
				ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
				Custom0: float32(v.Rel.X), Custom1: float32(v.Rel.Y),
				Custom2: float32(v.RenderSize.X), Custom3: float32(v.RenderSize.Y),
			}
		}

		c.srcOrigin[0] = float32(v0.SrcOrigin.X)
		c.srcOrigin[1] = float32(v0.SrcOrigin.Y)
		c.slicedSize[0] = float32(v0.SlicedSize.X)
		c.slicedSize[1] = float32(v0.SlicedSize.Y)
		for i, b := range v0.SliceBorders {
			c.sliceBorders[i] = float32(b)
		}
		c.tint[0] = float32(v0.Tint.R)
		c.tint[1] = float32(v0.Tint.G)
		c.tint[2] = float32(v0.Tint.B)
		c.tint[3] = float32(v0.Tint.A)
		c.uniforms["Mode"] = float32(v0.Mode)
		c.uniforms["Opacity"] = float32(v0.Opacity)

		c.shaderOp.Images[0] = atlas
		c.shaderOp.Images[1] = back
		c.shaderOp.Uniforms = c.uniforms
		dst.DrawTrianglesShader(c.verts[:], c.indices[:], shader, &c.shaderOp)
	})

	c.pool.Release(blurred)
}

// prepareBackdrop produces the blurred, filtered backdrop image, or nil when
// no live instance uses a backdrop mode. The returned image comes from the
// pool and is released by Render after the draw loop.
func (c *Compositor) prepareBackdrop(dst *ebiten.Image, w, h int) *ebiten.Image {
	if !c.Instances.anyBackdrop() {
		return nil
	}

	src := c.backdrop
	var snap *ebiten.Image
	if src == nil {
		snap = c.pool.Acquire(w, h)
		snap.DrawImage(dst, nil)
		src = snap
	}

	target := c.pool.Acquire(w, h)
	if c.Blur != nil {
		c.Blur.Apply(src, target)
	} else {
		target.DrawImage(src, nil)
	}
	c.pool.Release(snap)

	out, scratch := applyFilters(c.BackdropFilters, target, &c.pool)
	if scratch != nil && out != scratch {
		c.pool.Release(scratch)
	}
	if out != target {
		c.pool.Release(target)
	}
	return out
}
