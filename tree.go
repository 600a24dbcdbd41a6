package veneer

import (
	"github.com/go-gl/mathgl/mgl64"
)

// TreeRef identifies a node in a [Tree]. The zero ref is the root.
type TreeRef int

// TreeRoot is the root node: a full-screen rect every other node hangs off.
const TreeRoot TreeRef = 0

// TreeNode is one rectangle in the composite hierarchy. Its effective
// position and size combine an absolute offset/size with fractions of the
// parent's effective rect, so panels can track a resizing parent without
// per-frame host arithmetic.
//
// Animation here happens at sink time on the CPU: the Left/Top/Width/Height
// channels animate the node's local offset and size, and the flattened
// instance is written with static channels. Free-standing instances animate
// in the geometry stage instead; the two paths share the same [Channel]
// semantics.
type TreeNode struct {
	// Slot is the instance-buffer slot this node writes during Sink, or a
	// negative value for layout-only nodes (containers).
	Slot int

	Offset, Size Vec2
	// RelOffset and RelSize are added as fractions of the parent's
	// effective rect: effective = parent·rel + local.
	RelOffset, RelSize Vec2

	// Sink-time animation channels for the local offset and size.
	Left, Top, Width, Height Channel

	// Visual description flattened into the instance record.
	UVScale, UVOffset Vec2
	SliceBorders      [4]float64
	TexSize           Vec2
	Mode              Mode
	Opacity           float64
	Tint              Color
	TintAnim          *ColorChannel

	parent   int
	children []int
}

// Tree is a hierarchy of composite rects that flattens into an
// [InstanceBuffer]. It is the layout layer above the per-instance pipeline:
// hosts that don't need nesting can skip it and write instances directly.
type Tree struct {
	nodes  []TreeNode
	unused []int
	dirty  bool
}

// NewTree creates a tree whose root tracks the full screen.
func NewTree() *Tree {
	return &Tree{
		nodes: []TreeNode{{
			Slot:    -1,
			RelSize: Vec2{1, 1},
			parent:  -1,
		}},
	}
}

// Alloc inserts a node and returns its ref. The node starts unparented;
// attach it with [Tree.AddChild]. Freed refs are recycled.
func (t *Tree) Alloc(n TreeNode) TreeRef {
	n.parent = -1
	n.children = nil
	if k := len(t.unused); k > 0 {
		idx := t.unused[k-1]
		t.unused = t.unused[:k-1]
		t.nodes[idx] = n
		return TreeRef(idx)
	}
	t.nodes = append(t.nodes, n)
	return TreeRef(len(t.nodes) - 1)
}

// Free detaches a node and marks its storage reusable. Children are not
// freed: re-parent or free them separately.
func (t *Tree) Free(ref TreeRef) {
	if ref == TreeRoot {
		return
	}
	t.RemoveChild(ref)
	t.nodes[ref] = TreeNode{Slot: -1, parent: -1}
	t.unused = append(t.unused, int(ref))
}

// Node returns the node for a ref. The pointer stays valid until the next
// Alloc.
func (t *Tree) Node(ref TreeRef) *TreeNode {
	return &t.nodes[ref]
}

// AddChild links child under parent, unlinking it from any previous parent.
func (t *Tree) AddChild(parent, child TreeRef) {
	c := &t.nodes[child]
	if c.parent >= 0 {
		t.detach(child)
	}
	c.parent = int(parent)
	p := &t.nodes[parent]
	p.children = append(p.children, int(child))
	t.dirty = true
}

// RemoveChild unlinks child from its parent, leaving it in the tree but
// unreachable from the root (and therefore skipped by Sink).
func (t *Tree) RemoveChild(child TreeRef) {
	if t.nodes[child].parent < 0 {
		return
	}
	t.detach(child)
	t.nodes[child].parent = -1
	t.dirty = true
}

func (t *Tree) detach(child TreeRef) {
	p := &t.nodes[t.nodes[child].parent]
	for i, c := range p.children {
		if c == int(child) {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
}

// MarkDirty flags the tree so the next Render sinks it even with no
// structural change.
func (t *Tree) MarkDirty() {
	t.dirty = true
}

// TakeDirty returns the dirty flag and clears it.
func (t *Tree) TakeDirty() bool {
	d := t.dirty
	t.dirty = false
	return d
}

// sinkItem is one pending node during the breadth-first flatten: the node
// index plus the parent's effective rect.
type sinkItem struct {
	node int
	base Rect
}

// Sink flattens the tree into the instance buffer: walk breadth-first from
// the root, resolve each node's effective rect (parent-relative adjustments
// plus sink-time animation), and write complete instance records into the
// nodes' slots. Every node observes the same time snapshot.
func (t *Tree) Sink(buf *InstanceBuffer, now float64, screen Vec2) {
	queue := []sinkItem{{node: 0, base: Rect{0, 0, screen.X, screen.Y}}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		n := &t.nodes[it.node]
		left := it.base.X + it.base.Width*n.RelOffset.X + n.Left.Value(n.Offset.X, now)
		top := it.base.Y + it.base.Height*n.RelOffset.Y + n.Top.Value(n.Offset.Y, now)
		w := it.base.Width*n.RelSize.X + n.Width.Value(n.Size.X, now)
		h := it.base.Height*n.RelSize.Y + n.Height.Value(n.Size.Y, now)

		if n.Slot >= 0 {
			in := buf.At(n.Slot)
			tint := n.Tint
			if n.TintAnim != nil {
				tint = n.TintAnim.Value(tint, now)
			}
			*in = Instance{
				Rect:         Rect{X: left, Y: top, Width: w, Height: h},
				UVScale:      n.UVScale,
				UVOffset:     n.UVOffset,
				Transform:    mgl64.Ident4(),
				SliceBorders: n.SliceBorders,
				TexSize:      n.TexSize,
				Mode:         n.Mode,
				Opacity:      n.Opacity,
				Tint:         tint,
				live:         true,
			}
		}

		eff := Rect{X: left, Y: top, Width: w, Height: h}
		for _, c := range n.children {
			queue = append(queue, sinkItem{node: c, base: eff})
		}
	}
}
