package decoder

import (
	"math"
	"testing"

	"github.com/ivlev/ssconv/internal/curve"
	"github.com/ivlev/ssconv/internal/motion"
)

func lin(frame int, v float32) motion.Keyframe {
	return motion.Keyframe{Frame: frame, Value: motion.FloatValue(v), Curve: curve.Curve{Type: curve.Linear}}
}

func attr(t *testing.T, tag motion.Tag, pct motion.Percent, keys ...motion.Keyframe) *motion.Attribute {
	t.Helper()
	tl, err := motion.NewTimeline(keys)
	if err != nil {
		t.Fatalf("NewTimeline(%s): %v", tag, err)
	}
	a, err := motion.NewAttribute(tag, pct, tl)
	if err != nil {
		t.Fatalf("NewAttribute(%s): %v", tag, err)
	}
	return a
}

func part(id, parent int, typ motion.PartType, each bool, attrs ...*motion.Attribute) *motion.Part {
	p := &motion.Part{ID: id, ParentID: parent, Type: typ, InheritEach: each, Name: typ.String()}
	for _, a := range attrs {
		p.SetAttribute(a)
	}
	return p
}

func build(t *testing.T, end int, parts ...*motion.Part) *motion.Motion {
	t.Helper()
	tree, err := motion.NewTree(parts, end)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return &motion.Motion{Name: "test", Tree: tree, FPS: 30, EndFrame: end}
}

func byID(t *testing.T, params []FrameParam, id int) FrameParam {
	t.Helper()
	for _, p := range params {
		if p.ID() == id {
			return p
		}
	}
	t.Fatalf("no record for part %d", id)
	return FrameParam{}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}
