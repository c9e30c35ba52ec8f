package motion

import (
	"github.com/ivlev/ssconv/internal/errkind"
)

// Node is one part placed in the tree. Parent and Children are arena
// indexes into the owning Tree.
type Node struct {
	Part     *Part
	Index    int
	Parent   int
	Children []int
	Depth    int

	firstFrame int
	hasKeys    bool
}

func (n *Node) ID() int           { return n.Part.ID }
func (n *Node) IsRoot() bool      { return n.Parent < 0 }
func (n *Node) Type() PartType    { return n.Part.Type }
func (n *Node) InheritEach() bool { return n.Part.InheritEach }

// Attribute returns the node's attribute for tag, or nil.
func (n *Node) Attribute(tag Tag) *Attribute {
	return n.Part.Attribute(tag)
}

// Tree is the immutable part hierarchy stored as an arena in pre-order.
type Tree struct {
	nodes    []Node
	endFrame int
}

// NewTree builds the hierarchy from a flat part list.
//
// The root is the first part of type PartRoot; it always inherits
// attribute by attribute. Children are attached in input order. Parts with
// a negative id or whose parent chain never reaches the root are dropped.
// endFrame is the last frame of the motion and bounds every node's span.
func NewTree(parts []*Part, endFrame int) (*Tree, error) {
	seen := make(map[int]bool, len(parts))
	var root *Part
	for _, p := range parts {
		if p.ID >= 0 {
			if seen[p.ID] {
				return nil, errkind.New(errkind.MalformedDocument, "duplicate part id %d", p.ID)
			}
			seen[p.ID] = true
		}
		if root == nil && p.Type == PartRoot {
			root = p
		}
	}
	if root == nil {
		return nil, errkind.New(errkind.MalformedDocument, "no root part")
	}

	rootCopy := *root
	rootCopy.InheritEach = true

	t := &Tree{endFrame: endFrame}
	t.add(&rootCopy, -1, 0)

	children := make(map[int][]*Part)
	for _, p := range parts {
		if p.ID < 0 || p == root {
			continue
		}
		children[p.ParentID] = append(children[p.ParentID], p)
	}
	t.attach(0, children)
	return t, nil
}

func (t *Tree) add(p *Part, parent, depth int) int {
	idx := len(t.nodes)
	first, ok := p.firstFrame()
	t.nodes = append(t.nodes, Node{
		Part:       p,
		Index:      idx,
		Parent:     parent,
		Depth:      depth,
		firstFrame: first,
		hasKeys:    ok,
	})
	return idx
}

func (t *Tree) attach(idx int, children map[int][]*Part) {
	id := t.nodes[idx].Part.ID
	depth := t.nodes[idx].Depth
	for _, c := range children[id] {
		ci := t.add(c, idx, depth+1)
		t.nodes[idx].Children = append(t.nodes[idx].Children, ci)
		t.attach(ci, children)
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.nodes[0] }

// Node returns the node at arena index i.
func (t *Tree) Node(i int) *Node { return &t.nodes[i] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Nodes returns every node in depth-first pre-order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.nodes))
	for i := range t.nodes {
		out[i] = &t.nodes[i]
	}
	return out
}

// Parent returns n's parent, or nil for the root.
func (t *Tree) Parent(n *Node) *Node {
	if n.Parent < 0 {
		return nil
	}
	return &t.nodes[n.Parent]
}

// EndFrame returns the last frame of the motion the tree belongs to.
func (t *Tree) EndFrame() int { return t.endFrame }

// HasFrame reports whether n has attribute data at frame: from its first
// keyframe on any attribute up to the end of the motion.
func (t *Tree) HasFrame(n *Node, frame int) bool {
	return n.hasKeys && frame >= n.firstFrame && frame <= t.endFrame
}
