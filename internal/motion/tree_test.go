package motion

import (
	"testing"

	"github.com/ivlev/ssconv/internal/curve"
	"github.com/ivlev/ssconv/internal/errkind"
)

func keyedPart(t *testing.T, id, parent int, typ PartType, first int) *Part {
	t.Helper()
	p := &Part{ID: id, ParentID: parent, Type: typ, Name: typ.String()}
	if first >= 0 {
		tl, err := NewTimeline([]Keyframe{{Frame: first, Value: FloatValue(0), Curve: curve.Curve{Type: curve.Linear}}})
		if err != nil {
			t.Fatalf("NewTimeline: %v", err)
		}
		a, err := NewAttribute(PosX, Percent{}, tl)
		if err != nil {
			t.Fatalf("NewAttribute: %v", err)
		}
		p.SetAttribute(a)
	}
	return p
}

func TestNewTreeLayout(t *testing.T) {
	parts := []*Part{
		keyedPart(t, 2, 1, PartNormal, 0),
		keyedPart(t, 0, -1, PartRoot, 0),
		keyedPart(t, 1, 0, PartNormal, 0),
		keyedPart(t, 3, 0, PartNull, 0),
		keyedPart(t, 4, 9, PartNormal, 0), // orphan
	}

	tree, err := NewTree(parts, 20)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	var ids []int
	for _, n := range tree.Nodes() {
		ids = append(ids, n.ID())
	}
	want := []int{0, 1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("expected nodes %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected pre-order %v, got %v", want, ids)
		}
	}

	root := tree.Root()
	if !root.IsRoot() || !root.InheritEach() {
		t.Error("root must be the tree root and inherit individually")
	}
	if parts[1].InheritEach {
		t.Error("building the tree must not modify the input parts")
	}
	if got := tree.Parent(tree.Node(2)).ID(); got != 1 {
		t.Errorf("parent of part 2: expected 1, got %d", got)
	}
	if tree.Node(2).Depth != 2 {
		t.Errorf("depth of part 2: expected 2, got %d", tree.Node(2).Depth)
	}
}

func TestNewTreeRejects(t *testing.T) {
	if _, err := NewTree([]*Part{keyedPart(t, 0, -1, PartNormal, 0)}, 5); !errkind.Has(err, errkind.MalformedDocument) {
		t.Errorf("missing root: expected %s, got %v", errkind.MalformedDocument, err)
	}
	dup := []*Part{keyedPart(t, 0, -1, PartRoot, 0), keyedPart(t, 0, 0, PartNormal, 0)}
	if _, err := NewTree(dup, 5); !errkind.Has(err, errkind.MalformedDocument) {
		t.Errorf("duplicate id: expected %s, got %v", errkind.MalformedDocument, err)
	}
}

func TestHasFrame(t *testing.T) {
	parts := []*Part{
		keyedPart(t, 0, -1, PartRoot, 0),
		keyedPart(t, 1, 0, PartNormal, 4),
		keyedPart(t, 2, 0, PartNormal, -1),
	}
	tree, err := NewTree(parts, 10)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	tests := []struct {
		node  int
		frame int
		want  bool
	}{
		{0, 0, true},
		{0, 10, true},
		{0, 11, false},
		{1, 3, false},
		{1, 4, true},
		{1, 10, true},
		{2, 5, false},
	}
	for _, tt := range tests {
		if got := tree.HasFrame(tree.Node(tt.node), tt.frame); got != tt.want {
			t.Errorf("node %d frame %d: expected %v, got %v", tt.node, tt.frame, tt.want, got)
		}
	}
}
