// Package veneer is the compositing core of a GPU-driven 2D UI renderer for
// [Ebitengine].
//
// Veneer turns per-sprite instance records plus a current-time scalar into
// final pixels: cubic-Bézier eased animation channels, nine-slice texture
// scaling, five texture/tint composite modes, soft rectangular masking,
// backdrop blending, and a dual kawase blur for the blurred-backdrop look.
//
// # Pipeline
//
// Four stages, composed from geometry to pixel:
//
//   - [Curve] — the easing evaluator, inverting a cubic Bézier timing curve
//     into an interpolation ratio.
//   - [EvaluateVertex] — the instance geometry stage, expanding one
//     [Instance] and a corner index into a clip-space position and the
//     per-pixel varyings.
//   - The compositing stage — a Kage fragment shader (with a pure-Go
//     reference, [ShadePixel]) performing nine-slice UV remapping, composite
//     mode dispatch, soft masking, premultiplication, and backdrop blending.
//   - [DualKawaseFilter] — a two-pass downsample/upsample blur producing the
//     blurred backdrop consumed by the backdrop composite modes.
//
// [Compositor] ties the stages to an actual draw path:
//
//	comp := veneer.NewCompositor()
//	slot := comp.Instances.Alloc()
//	inst := comp.Instances.At(slot)
//	inst.Rect = veneer.Rect{X: 40, Y: 40, Width: 200, Height: 120}
//	inst.Mode = veneer.ModeSolidFill
//	inst.Tint = veneer.Color{R: 0.2, G: 0.4, B: 0.9, A: 0.8}
//
//	// inside ebiten.Game.Draw:
//	comp.Render(screen, now)
//
// # Animation
//
// Every instance carries four animation channels (width, height, x, y), each
// a start/end time window, a target value, and an easing [Curve]. A channel
// whose window is empty (Start == End) is static. All evaluation is a pure
// function of the record and the time snapshot, so a frame never observes a
// half-animated instance.
//
// Curves also plug into [gween] tweens via [Curve.TweenFunc], and
// [TweenGroup] drives the fields the channels don't cover (opacity, tint).
//
// # Purity and concurrency
//
// The easing evaluator, geometry stage, and every CPU reference of the pixel
// stage are side-effect-free functions of their inputs; they may be called
// from any goroutine. Types that hold ebiten images ([Compositor],
// [DualKawaseFilter], the texture pool) follow Ebitengine's single-goroutine
// model.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package veneer
