package veneer

import (
	"testing"
)

const testAtlasJSON = `{
	"frames": {
		"frame": {"frame": {"x": 0, "y": 0, "w": 48, "h": 48}},
		"glyphs": {"frame": {"x": 48, "y": 0, "w": 64, "h": 16}}
	},
	"meta": {"size": {"w": 128, "h": 64}}
}`

func TestLoadAtlas(t *testing.T) {
	a, err := LoadAtlas([]byte(testAtlasJSON), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.TexSize != (Vec2{128, 64}) {
		t.Errorf("tex size = %+v, want meta size {128 64}", a.TexSize)
	}
	r, ok := a.Region("glyphs")
	if !ok {
		t.Fatal("glyphs region missing")
	}
	if r != (TextureRegion{X: 48, Y: 0, Width: 64, Height: 16}) {
		t.Errorf("glyphs region = %+v", r)
	}
	if _, ok := a.Region("missing"); ok {
		t.Error("unknown region reported as present")
	}
}

func TestLoadAtlasSizeFallback(t *testing.T) {
	a, err := LoadAtlas([]byte(`{"frames": {"x": {"frame": {"x":0,"y":0,"w":8,"h":8}}}}`), 256, 128)
	if err != nil {
		t.Fatal(err)
	}
	if a.TexSize != (Vec2{256, 128}) {
		t.Errorf("tex size = %+v, want argument fallback {256 128}", a.TexSize)
	}
}

func TestLoadAtlasErrors(t *testing.T) {
	if _, err := LoadAtlas([]byte("not json"), 1, 1); err == nil {
		t.Error("malformed JSON accepted")
	}
	if _, err := LoadAtlas([]byte(`{"meta": {}}`), 1, 1); err == nil {
		t.Error("missing frames key accepted")
	}
}

func TestAtlasApply(t *testing.T) {
	a, err := LoadAtlas([]byte(testAtlasJSON), 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	in := NewInstance()
	a.Apply(&in, "frame")
	if in.UVOffset != (Vec2{0, 0}) || in.UVScale != (Vec2{48.0 / 128, 48.0 / 64}) {
		t.Errorf("frame uv = offset %+v scale %+v", in.UVOffset, in.UVScale)
	}
	if in.TexSize != (Vec2{128, 64}) {
		t.Errorf("tex size = %+v", in.TexSize)
	}

	a.Apply(&in, "glyphs")
	if in.UVOffset != (Vec2{48.0 / 128, 0}) || in.UVScale != (Vec2{64.0 / 128, 16.0 / 64}) {
		t.Errorf("glyphs uv = offset %+v scale %+v", in.UVOffset, in.UVScale)
	}

	// Unknown names fall back to the full texture.
	a.Apply(&in, "missing")
	if in.UVOffset != (Vec2{0, 0}) || in.UVScale != (Vec2{1, 1}) {
		t.Errorf("fallback uv = offset %+v scale %+v", in.UVOffset, in.UVScale)
	}

	var n TreeNode
	a.ApplyNode(&n, "glyphs")
	if n.UVOffset != (Vec2{48.0 / 128, 0}) {
		t.Errorf("node uv offset = %+v", n.UVOffset)
	}
}
