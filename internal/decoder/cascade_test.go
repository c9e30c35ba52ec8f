package decoder

import (
	"math"
	"testing"

	"github.com/ivlev/ssconv/internal/motion"
)

type snapshot [9]float32

func values(p *FrameParam) snapshot {
	return snapshot{
		p.PosX.Value, p.PosY.Value, p.Angle.Value, p.ScaleX.Value, p.ScaleY.Value,
		p.Trans.Value, p.FlipH.Value, p.FlipV.Value, p.Hide.Value,
	}
}

func TestCascadeNeutralParent(t *testing.T) {
	m := build(t, 0,
		part(0, -1, motion.PartRoot, true),
		part(1, 0, motion.PartNormal, false),
	)
	wholeNode := m.Tree.Node(1)

	local := func(node *motion.Node, pct motion.Percent, hide float32) FrameParam {
		p := NewFrameParam()
		p.Node = node
		p.PosX = FloatValue{12.5, pct}
		p.PosY = FloatValue{-3, pct}
		p.Angle = FloatValue{0.7, pct}
		p.ScaleX = FloatValue{2, pct}
		p.ScaleY = FloatValue{-1.5, pct}
		p.Trans = FloatValue{0.4, pct}
		p.FlipH = FloatValue{1, pct}
		p.FlipV = FloatValue{0, pct}
		p.Hide = FloatValue{hide, pct}
		return p
	}

	tests := []struct {
		name  string
		param FrameParam
	}{
		{"inherit as a whole", local(wholeNode, motion.Percent{}, 1)},
		{"inherit everything individually", local(nil, motion.SomePercent(100), 0)},
		{"inherit nothing individually", local(nil, motion.SomePercent(0), 1)},
		{"unset percentages", local(nil, motion.Percent{}, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			neutral := NewFrameParam()
			p := tt.param
			before := values(&p)
			Cascade(&p, &neutral)
			if after := values(&p); after != before {
				t.Errorf("neutral parent changed values: %v -> %v", before, after)
			}
		})
	}
}

func TestCascadeFlipTwice(t *testing.T) {
	flip := motion.SomePercent(100)
	neutral := NewFrameParam()

	grand := NewFrameParam()
	grand.FlipH = FloatValue{1, flip}
	Cascade(&grand, &neutral)

	parent := NewFrameParam()
	parent.FlipH = FloatValue{1, flip}
	Cascade(&parent, &grand)

	child := NewFrameParam()
	child.FlipH = FloatValue{0, flip}
	Cascade(&child, &parent)

	if child.FlipH.Value != 0 {
		t.Errorf("expected flip-H 0 after two flipped ancestors, got %v", child.FlipH.Value)
	}
	if parent.FlipH.Value != 0 {
		t.Errorf("expected flipped parent under flipped grandparent to compose to 0, got %v", parent.FlipH.Value)
	}
}

func TestCascadeScaleThenRotate(t *testing.T) {
	parent := NewFrameParam()
	parent.PosX.Value = 100
	parent.PosY.Value = 50
	parent.Angle.Value = math.Pi / 2
	parent.ScaleX.Value = 2

	child := NewFrameParam()
	child.PosX.Value = 10
	child.Angle.Value = 0.25
	Cascade(&child, &parent)

	if !near(child.PosX.Value, 100) || !near(child.PosY.Value, 30) {
		t.Errorf("expected position (100,30), got (%v,%v)", child.PosX.Value, child.PosY.Value)
	}
	if !near(child.Angle.Value, math.Pi/2+0.25) {
		t.Errorf("expected angle %v, got %v", math.Pi/2+0.25, child.Angle.Value)
	}
	if child.ScaleX.Value != 2 {
		t.Errorf("expected scale 2, got %v", child.ScaleX.Value)
	}
}

func TestCascadeOptOut(t *testing.T) {
	parent := NewFrameParam()
	parent.PosX.Value = 40
	parent.Trans.Value = 0.5
	parent.Hide.Value = 1

	child := NewFrameParam()
	child.PosX = FloatValue{5, motion.SomePercent(0)}
	child.Trans = FloatValue{0.8, motion.Percent{}}
	child.Hide = FloatValue{0, motion.Percent{}}
	Cascade(&child, &parent)

	if child.PosX.Value != 5 {
		t.Errorf("position opted out, expected 5, got %v", child.PosX.Value)
	}
	if !near(child.Trans.Value, 0.4) {
		t.Errorf("unset opacity percentage uses the tag default, expected 0.4, got %v", child.Trans.Value)
	}
	if child.Hide.Value != 0 {
		t.Errorf("unset hide percentage uses the tag default (no), got %v", child.Hide.Value)
	}

	child.Hide = FloatValue{0, motion.SomePercent(100)}
	Cascade(&child, &parent)
	if child.Hide.Value != 1 {
		t.Errorf("inherited hide should follow the parent, got %v", child.Hide.Value)
	}
}

func TestCascadeWholeCopiesParentOptOut(t *testing.T) {
	m := build(t, 0,
		part(0, -1, motion.PartRoot, true),
		part(1, 0, motion.PartNormal, false),
	)

	parent := NewFrameParam()
	parent.PosX = FloatValue{40, motion.SomePercent(0)}
	parent.PosY = FloatValue{20, motion.SomePercent(100)}
	parent.Trans = FloatValue{0.5, motion.SomePercent(0)}

	child := NewFrameParam()
	child.Node = m.Tree.Node(1)
	child.PosX = FloatValue{5, motion.SomePercent(100)}
	child.PosY = FloatValue{3, motion.Percent{}}
	child.Trans = FloatValue{0.8, motion.SomePercent(100)}
	Cascade(&child, &parent)

	if child.PosX.InheritPercent != motion.SomePercent(0) || child.Trans.InheritPercent != motion.SomePercent(0) {
		t.Errorf("expected the parent's percentages copied, got %+v %+v", child.PosX.InheritPercent, child.Trans.InheritPercent)
	}
	if child.PosX.Value != 5 {
		t.Errorf("position opted out by the parent, expected 5, got %v", child.PosX.Value)
	}
	if !near(child.Trans.Value, 0.8) {
		t.Errorf("opacity opted out by the parent, expected 0.8, got %v", child.Trans.Value)
	}
	if child.PosY.Value != 23 {
		t.Errorf("position Y still inherits, expected 23, got %v", child.PosY.Value)
	}
}

func TestCascadeWholeThroughThreeLevels(t *testing.T) {
	m := build(t, 0,
		part(0, -1, motion.PartRoot, true,
			attr(t, motion.PosX, motion.SomePercent(100), lin(0, 40)),
			attr(t, motion.Trans, motion.SomePercent(100), lin(0, 0.5)),
		),
		part(1, 0, motion.PartNormal, true,
			attr(t, motion.PosX, motion.Percent{}, lin(0, 10)),
			attr(t, motion.Trans, motion.Percent{}, lin(0, 0.5)),
		),
		part(2, 1, motion.PartNormal, false,
			attr(t, motion.PosX, motion.SomePercent(100), lin(0, 3)),
			attr(t, motion.Trans, motion.SomePercent(0), lin(0, 0.8)),
		),
	)

	params, err := New(m, Options{}).DecodeFrame(0)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	// Part 1 settles its unset percentages first: position falls back to
	// no inheritance, opacity to the tag default of 100.
	mid := byID(t, params, 1)
	if mid.PosX.Value != 10 || !near(mid.Trans.Value, 0.25) {
		t.Errorf("part 1: expected x 10 and opacity 0.25, got %v and %v", mid.PosX.Value, mid.Trans.Value)
	}

	// Part 2 inherits as a whole and copies those settled percentages,
	// overriding its own.
	leaf := byID(t, params, 2)
	if leaf.PosX.InheritPercent != motion.SomePercent(0) || leaf.Trans.InheritPercent != motion.SomePercent(100) {
		t.Errorf("part 2: unexpected percentages %+v %+v", leaf.PosX.InheritPercent, leaf.Trans.InheritPercent)
	}
	if leaf.PosX.Value != 3 {
		t.Errorf("part 2: expected x 3, got %v", leaf.PosX.Value)
	}
	if !near(leaf.Trans.Value, 0.2) {
		t.Errorf("part 2: expected opacity 0.2, got %v", leaf.Trans.Value)
	}
}
