package veneer

import (
	"encoding/json"
	"fmt"
	"log"
)

// TextureRegion describes a named sub-rectangle within the atlas texture, in
// pixels. Value type — instances store the derived UV rect, not the region.
type TextureRegion struct {
	X, Y          int
	Width, Height int
}

// Atlas maps region names to rectangles within one texture of the given
// size. It carries no image of its own; the host hands the page image to
// [Compositor.Atlas] and applies regions to instances by name.
type Atlas struct {
	// TexSize is the page texture size in pixels.
	TexSize Vec2

	regions map[string]TextureRegion
}

// Region returns the region for the given name and whether it exists.
func (a *Atlas) Region(name string) (TextureRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Apply writes the named region's UV rect and texture size into an instance.
// Unknown names fall back to the full texture.
func (a *Atlas) Apply(in *Instance, name string) {
	uvOffset, uvScale := a.uvRect(name)
	in.UVOffset = uvOffset
	in.UVScale = uvScale
	in.TexSize = a.TexSize
}

// ApplyNode is [Atlas.Apply] for a tree node's visual description.
func (a *Atlas) ApplyNode(n *TreeNode, name string) {
	uvOffset, uvScale := a.uvRect(name)
	n.UVOffset = uvOffset
	n.UVScale = uvScale
	n.TexSize = a.TexSize
}

func (a *Atlas) uvRect(name string) (offset, scale Vec2) {
	r, ok := a.regions[name]
	if !ok {
		log.Printf("veneer: atlas region %q not found, using full texture", name)
	}
	if !ok || a.TexSize.X <= 0 || a.TexSize.Y <= 0 {
		return Vec2{}, Vec2{1, 1}
	}
	return Vec2{float64(r.X) / a.TexSize.X, float64(r.Y) / a.TexSize.Y},
		Vec2{float64(r.Width) / a.TexSize.X, float64(r.Height) / a.TexSize.Y}
}

// --- TexturePacker JSON loading ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame jsonRect `json:"frame"`
}

type jsonMetaSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

// LoadAtlas parses TexturePacker hash-format JSON ("frames" object keyed by
// region name) for a page of the given pixel size.
func LoadAtlas(jsonData []byte, texW, texH int) (*Atlas, error) {
	var doc struct {
		Frames map[string]jsonFrame `json:"frames"`
		Meta   struct {
			Size jsonMetaSize `json:"size"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("veneer: failed to parse atlas JSON: %w", err)
	}
	if doc.Frames == nil {
		return nil, fmt.Errorf("veneer: atlas JSON has no \"frames\" key")
	}

	// The meta block's size wins when present; the arguments are the
	// fallback for exporters that omit it.
	if doc.Meta.Size.W > 0 && doc.Meta.Size.H > 0 {
		texW, texH = doc.Meta.Size.W, doc.Meta.Size.H
	}

	atlas := &Atlas{
		TexSize: Vec2{float64(texW), float64(texH)},
		regions: make(map[string]TextureRegion, len(doc.Frames)),
	}
	for name, f := range doc.Frames {
		atlas.regions[name] = TextureRegion{
			X: f.Frame.X, Y: f.Frame.Y,
			Width: f.Frame.W, Height: f.Frame.H,
		}
	}
	return atlas, nil
}
