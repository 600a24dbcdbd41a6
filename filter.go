package veneer

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is the interface for image-to-image effects, most notably the
// backdrop blur chain. A filter owns no pixels of its own: Apply is a pure
// image transform from src into dst.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels the effect needs around the source
	// (e.g. blur radius). Zero means no padding.
	Padding() int
}

// filterChainPadding returns the cumulative padding required by a chain.
func filterChainPadding(filters []Filter) int {
	pad := 0
	for _, f := range filters {
		pad += f.Padding()
	}
	return pad
}

// applyFilters runs a filter chain on src, ping-ponging between src and one
// pooled scratch image. Returns the image holding the final result — either
// src itself (empty chain or even-length ping-pong) or the scratch image —
// plus the scratch image so the caller can release whichever of the two it
// doesn't keep.
func applyFilters(filters []Filter, src *ebiten.Image, pool *texturePool) (out, scratch *ebiten.Image) {
	if len(filters) == 0 {
		return src, nil
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	current := src
	var spare *ebiten.Image

	for _, f := range filters {
		if spare == nil {
			spare = pool.Acquire(w, h)
			scratch = spare
		} else {
			spare.Clear()
		}
		f.Apply(current, spare)
		current, spare = spare, current
	}

	return current, scratch
}
