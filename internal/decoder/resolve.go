package decoder

import (
	"fmt"

	"github.com/ivlev/ssconv/internal/curve"
	"github.com/ivlev/ssconv/internal/motion"
)

// bracket locates the keyframes around frame. p is only filled when both
// exist and differ.
func bracket(tl *motion.Timeline, frame int) (fwd, bwd *motion.Keyframe, p curve.Params) {
	fwd = tl.FindAtOrBefore(frame)
	bwd = tl.FindAtOrAfter(frame)
	if fwd != nil && bwd != nil && fwd != bwd {
		p = curve.Params{
			Ratio:         curve.Ratio(fwd.Frame, bwd.Frame, frame),
			Curve:         fwd.Curve,
			ForwardFrame:  fwd.Frame,
			BackwardFrame: bwd.Frame,
		}
	}
	return fwd, bwd, p
}

func resolveFloat(a *motion.Attribute, frame int) (float32, error) {
	if !a.Timeline.HasKeys() {
		return motion.TypeOf(a.Tag).Default.Float, nil
	}
	fwd, bwd, p := bracket(a.Timeline, frame)
	switch {
	case fwd == nil:
		if a.Tag == motion.Hide {
			// Hidden until the timeline starts.
			return 1, nil
		}
		if bwd != nil {
			return bwd.Value.Float, nil
		}
		return motion.TypeOf(a.Tag).Default.Float, nil
	case bwd == nil, fwd == bwd:
		return fwd.Value.Float, nil
	}
	return curve.Evaluate(p, fwd.Value.Float, bwd.Value.Float)
}

func resolveVertex(a *motion.Attribute, frame int) (motion.Vertex4, error) {
	fwd, bwd, p := bracket(a.Timeline, frame)
	switch {
	case fwd == nil:
		if bwd != nil {
			return bwd.Value.Vertex, nil
		}
		return motion.TypeOf(a.Tag).Default.Vertex, nil
	case bwd == nil, fwd == bwd:
		return fwd.Value.Vertex, nil
	}

	var out motion.Vertex4
	for i := range out {
		f, b := fwd.Value.Vertex[i], bwd.Value.Vertex[i]
		x, err := curve.Evaluate(p, float32(f.X), float32(b.X))
		if err != nil {
			return out, err
		}
		y, err := curve.Evaluate(p, float32(f.Y), float32(b.Y))
		if err != nil {
			return out, err
		}
		out[i] = motion.Point{X: int(x), Y: int(y)}
	}
	return out, nil
}

// resolveColorBlend interpolates per channel. Mismatched color types are
// widened instead of rejected: vertex wins over parts, and a side with no
// color takes the other side's RGB.
func resolveColorBlend(a *motion.Attribute, frame int) (motion.ColorBlend, error) {
	fwd, bwd, p := bracket(a.Timeline, frame)
	switch {
	case fwd == nil:
		if bwd != nil {
			return bwd.Value.Color, nil
		}
		return motion.TypeOf(a.Tag).Default.Color, nil
	case bwd == nil, fwd == bwd:
		return fwd.Value.Color, nil
	}

	f, b := fwd.Value.Color, bwd.Value.Color
	out := motion.ColorBlend{Blend: f.Blend}
	switch {
	case f.Type == motion.ColorTypeNone && b.Type == motion.ColorTypeNone:
		out.Type = motion.ColorTypeNone
	case f.Type == motion.ColorTypeVertex || b.Type == motion.ColorTypeVertex:
		out.Type = motion.ColorTypeVertex
	default:
		out.Type = motion.ColorTypeParts
	}

	for i := range out.Colors {
		fc, bc := f.Colors[i], b.Colors[i]
		from, to := fc, bc
		switch {
		case f.Type == motion.ColorTypeNone:
			from = bc
		case b.Type == motion.ColorTypeNone:
			to = fc
		}

		var err error
		c := &out.Colors[i]
		if c.R, err = curve.EvaluateColor(p, from.R, to.R); err != nil {
			return out, err
		}
		if c.G, err = curve.EvaluateColor(p, from.G, to.G); err != nil {
			return out, err
		}
		if c.B, err = curve.EvaluateColor(p, from.B, to.B); err != nil {
			return out, err
		}
		if c.A, err = curve.EvaluateColor(p, fc.A, bc.A); err != nil {
			return out, err
		}
	}
	return out, nil
}

// resolveUserData only reports data on frames that carry a keyframe.
func resolveUserData(a *motion.Attribute, frame int) motion.UserData {
	if k := a.Timeline.FindExact(frame); k != nil {
		return k.Value.UserData
	}
	return motion.UserData{}
}

// Resolve computes the uncascaded state of node at frame. Attributes the
// node does not declare keep their static defaults.
func Resolve(node *motion.Node, frame int) (FrameParam, error) {
	p := NewFrameParam()
	p.Node = node

	for tag := motion.PosX; tag < motion.NumTags; tag++ {
		a := node.Attribute(tag)
		if a == nil {
			continue
		}

		var err error
		switch tag {
		case motion.Vertex:
			p.Vertex, err = resolveVertex(a, frame)
		case motion.PartColor:
			p.Color, err = resolveColorBlend(a, frame)
		case motion.UserDataTag:
			p.UserData = resolveUserData(a, frame)
		default:
			v := p.float(tag)
			v.Value, err = resolveFloat(a, frame)
			v.InheritPercent = a.InheritPercent
		}
		if err != nil {
			return p, fmt.Errorf("part %q %s at frame %d: %w", node.Part.Name, tag, frame, err)
		}
	}
	return p, nil
}
