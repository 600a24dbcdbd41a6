package veneer

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// texturePool manages reusable offscreen ebiten.Images. Backing textures are
// allocated at power-of-two dimensions and bucketed by size; Acquire hands
// out an exact-size sub-image view so callers can stretch over Bounds()
// without caring about the rounding. The kawase chain target and the filter
// ping-pong scratch come from here; after warmup, Acquire/Release are
// zero-alloc.
type texturePool struct {
	buckets map[uint64][]*ebiten.Image
	backing map[*ebiten.Image]*ebiten.Image // view -> pow2 backing texture
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen view of exactly (w, h) pixels, backed
// by a pooled power-of-two texture.
func (p *texturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	var raw *ebiten.Image
	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			raw = stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			raw.Clear()
		}
	}
	if raw == nil {
		raw = ebiten.NewImageWithOptions(
			image.Rect(0, 0, pw, ph),
			&ebiten.NewImageOptions{Unmanaged: true},
		)
	}

	view := raw.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	if p.backing == nil {
		p.backing = make(map[*ebiten.Image]*ebiten.Image)
	}
	p.backing[view] = raw
	return view
}

// Release returns a view obtained from Acquire to the pool. The backing
// texture is cleared on next Acquire, not here (avoids redundant GPU work if
// released then immediately re-acquired). Releasing nil or a foreign image
// is a no-op.
func (p *texturePool) Release(view *ebiten.Image) {
	if view == nil {
		return
	}
	raw, ok := p.backing[view]
	if !ok {
		return
	}
	delete(p.backing, view)

	b := raw.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], raw)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
