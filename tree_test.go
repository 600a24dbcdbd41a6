package veneer

import (
	"testing"
)

func TestTreeSinkRootOnly(t *testing.T) {
	tr := NewTree()
	buf := NewInstanceBuffer()
	tr.Sink(buf, 0, Vec2{800, 600})
	if buf.Len() != 0 {
		t.Fatalf("layout-only root wrote %d instances, want 0", buf.Len())
	}
}

func TestTreeSinkWritesInstance(t *testing.T) {
	tr := NewTree()
	buf := NewInstanceBuffer()
	slot := buf.Alloc()

	ref := tr.Alloc(TreeNode{
		Slot:    slot,
		Offset:  Vec2{10, 20},
		Size:    Vec2{100, 50},
		Opacity: 0.5,
		Tint:    Color{1, 0, 0, 1},
		Mode:    ModeSolidFill,
	})
	tr.AddChild(TreeRoot, ref)
	tr.Sink(buf, 0, Vec2{800, 600})

	in := buf.At(slot)
	if !in.Live() {
		t.Fatal("sunk instance not live")
	}
	if in.Rect != (Rect{X: 10, Y: 20, Width: 100, Height: 50}) {
		t.Errorf("rect = %+v", in.Rect)
	}
	if in.Mode != ModeSolidFill || in.Opacity != 0.5 || in.Tint.R != 1 {
		t.Errorf("visual fields not flattened: %+v", in)
	}
}

func TestTreeSinkRelativeToParent(t *testing.T) {
	tr := NewTree()
	buf := NewInstanceBuffer()

	panel := tr.Alloc(TreeNode{
		Slot:   -1,
		Offset: Vec2{100, 100},
		Size:   Vec2{200, 100},
	})
	tr.AddChild(TreeRoot, panel)

	// Child fills the right half of the panel.
	child := tr.Alloc(TreeNode{
		Slot:      buf.Alloc(),
		RelOffset: Vec2{0.5, 0},
		RelSize:   Vec2{0.5, 1},
	})
	tr.AddChild(panel, child)
	tr.Sink(buf, 0, Vec2{800, 600})

	got := buf.At(tr.Node(child).Slot).Rect
	want := Rect{X: 200, Y: 100, Width: 100, Height: 100}
	if got != want {
		t.Errorf("child rect = %+v, want %+v", got, want)
	}
}

func TestTreeSinkRootTracksScreen(t *testing.T) {
	tr := NewTree()
	buf := NewInstanceBuffer()

	// A node covering the root's right half scales with the screen.
	ref := tr.Alloc(TreeNode{
		Slot:      buf.Alloc(),
		RelOffset: Vec2{0.5, 0},
		RelSize:   Vec2{0.5, 1},
	})
	tr.AddChild(TreeRoot, ref)

	tr.Sink(buf, 0, Vec2{800, 600})
	if got := buf.At(tr.Node(ref).Slot).Rect; got != (Rect{X: 400, Y: 0, Width: 400, Height: 600}) {
		t.Errorf("at 800x600: %+v", got)
	}
	tr.Sink(buf, 0, Vec2{1000, 500})
	if got := buf.At(tr.Node(ref).Slot).Rect; got != (Rect{X: 500, Y: 0, Width: 500, Height: 500}) {
		t.Errorf("at 1000x500: %+v", got)
	}
}

func TestTreeSinkAnimatedOffset(t *testing.T) {
	linear := Curve{Vec2{0.25, 0.25}, Vec2{0.75, 0.75}}
	tr := NewTree()
	buf := NewInstanceBuffer()

	ref := tr.Alloc(TreeNode{
		Slot: buf.Alloc(),
		Size: Vec2{10, 10},
		Left: Channel{Start: 0, End: 2, Target: 100, Curve: linear},
	})
	tr.AddChild(TreeRoot, ref)

	tr.Sink(buf, 1, Vec2{800, 600})
	got := buf.At(tr.Node(ref).Slot).Rect
	if !near(got.X, 50, 1e-9) {
		t.Errorf("animated left at midpoint = %v, want 50", got.X)
	}
	// Sunk records carry static channels; animation was resolved here.
	if !buf.At(tr.Node(ref).Slot).X.Static() {
		t.Error("sunk instance should carry a static x channel")
	}
}

func TestTreeSinkChildSeesAnimatedParent(t *testing.T) {
	linear := Curve{Vec2{0.25, 0.25}, Vec2{0.75, 0.75}}
	tr := NewTree()
	buf := NewInstanceBuffer()

	panel := tr.Alloc(TreeNode{
		Slot:  -1,
		Size:  Vec2{100, 100},
		Width: Channel{Start: 0, End: 2, Target: 300, Curve: linear},
	})
	tr.AddChild(TreeRoot, panel)

	child := tr.Alloc(TreeNode{
		Slot:    buf.Alloc(),
		RelSize: Vec2{1, 1},
	})
	tr.AddChild(panel, child)

	tr.Sink(buf, 1, Vec2{800, 600})
	if got := buf.At(tr.Node(child).Slot).Rect.Width; !near(got, 200, 1e-9) {
		t.Errorf("child width = %v, want parent's animated 200", got)
	}
}

func TestTreeRemoveChildSkipsSubtree(t *testing.T) {
	tr := NewTree()
	buf := NewInstanceBuffer()

	panel := tr.Alloc(TreeNode{Slot: buf.Alloc(), Size: Vec2{10, 10}})
	inner := tr.Alloc(TreeNode{Slot: buf.Alloc(), Size: Vec2{5, 5}})
	tr.AddChild(TreeRoot, panel)
	tr.AddChild(panel, inner)

	tr.RemoveChild(panel)
	buf.At(tr.Node(panel).Slot).live = false
	buf.At(tr.Node(inner).Slot).live = false
	tr.Sink(buf, 0, Vec2{800, 600})

	if buf.At(tr.Node(panel).Slot).Live() || buf.At(tr.Node(inner).Slot).Live() {
		t.Error("detached subtree still sunk")
	}
}

func TestTreeReparenting(t *testing.T) {
	tr := NewTree()
	buf := NewInstanceBuffer()

	a := tr.Alloc(TreeNode{Slot: -1, Offset: Vec2{100, 0}})
	b := tr.Alloc(TreeNode{Slot: -1, Offset: Vec2{0, 200}})
	leaf := tr.Alloc(TreeNode{Slot: buf.Alloc(), Size: Vec2{10, 10}})
	tr.AddChild(TreeRoot, a)
	tr.AddChild(TreeRoot, b)
	tr.AddChild(a, leaf)

	tr.Sink(buf, 0, Vec2{800, 600})
	if got := buf.At(tr.Node(leaf).Slot).Rect.X; got != 100 {
		t.Fatalf("under a: x = %v, want 100", got)
	}

	tr.AddChild(b, leaf)
	tr.Sink(buf, 0, Vec2{800, 600})
	got := buf.At(tr.Node(leaf).Slot).Rect
	if got.X != 0 || got.Y != 200 {
		t.Errorf("under b: rect = %+v, want offset {0 200}", got)
	}
	// The old parent no longer lists the leaf.
	if len(tr.Node(a).children) != 0 {
		t.Errorf("old parent still has children")
	}
}

func TestTreeFreeRecyclesRefs(t *testing.T) {
	tr := NewTree()
	a := tr.Alloc(TreeNode{Slot: -1})
	tr.AddChild(TreeRoot, a)
	tr.Free(a)

	b := tr.Alloc(TreeNode{Slot: -1, Offset: Vec2{5, 5}})
	if b != a {
		t.Errorf("Alloc after Free: ref %v, want recycled %v", b, a)
	}
	if tr.Node(b).Offset != (Vec2{5, 5}) {
		t.Error("recycled node carries stale state")
	}
	// Freeing the root is refused.
	tr.Free(TreeRoot)
	if tr.Node(TreeRoot).parent != -1 {
		t.Error("root corrupted by Free")
	}
}

func TestTreeDirtyFlag(t *testing.T) {
	tr := NewTree()
	if tr.TakeDirty() {
		t.Fatal("fresh tree should be clean")
	}
	a := tr.Alloc(TreeNode{Slot: -1})
	tr.AddChild(TreeRoot, a)
	if !tr.TakeDirty() {
		t.Fatal("AddChild should dirty the tree")
	}
	if tr.TakeDirty() {
		t.Fatal("TakeDirty should clear the flag")
	}
	tr.MarkDirty()
	if !tr.TakeDirty() {
		t.Fatal("MarkDirty not observed")
	}
}
