package decoder

import (
	"math"

	"golang.org/x/image/math/f32"

	"github.com/ivlev/ssconv/internal/motion"
)

// fixInherit settles the inherit percentage of v before the cascade.
//
// A node inheriting as a whole copies the parent's percentage. A node
// inheriting attribute by attribute keeps its own; an unset percentage
// then means "no" for the transform attributes and the tag default for
// flips, hide and opacity.
func fixInherit(v, parent *FloatValue, tag motion.Tag, each bool) {
	if !each {
		v.InheritPercent = parent.InheritPercent
		return
	}
	if v.InheritPercent.Set {
		return
	}
	switch tag {
	case motion.Trans, motion.FlipH, motion.FlipV, motion.Hide:
		v.InheritPercent = motion.SomePercent(motion.TypeOf(tag).DefaultInheritPercent)
	default:
		v.InheritPercent = motion.SomePercent(0)
	}
}

// Cascade composes p with its already cascaded parent record. parent is
// read only.
func Cascade(p *FrameParam, parent *FrameParam) {
	each := p.Node == nil || p.Node.InheritEach()
	for _, tag := range [...]motion.Tag{
		motion.PosX, motion.PosY, motion.Angle, motion.ScaleX, motion.ScaleY,
		motion.Trans, motion.FlipH, motion.FlipV, motion.Hide,
	} {
		fixInherit(p.float(tag), parent.float(tag), tag, each)
	}

	// Local offset in the parent's space: scale, then rotate.
	pos := f32.Vec2{p.PosX.Value, p.PosY.Value}
	if p.ScaleX.Inherits() {
		pos[0] *= parent.ScaleX.Value
	}
	if p.ScaleY.Inherits() {
		pos[1] *= parent.ScaleY.Value
	}
	if p.Angle.Inherits() && parent.Angle.Value != 0 {
		pos = rotate(pos, -float64(parent.Angle.Value))
	}

	if p.PosX.Inherits() {
		p.PosX.Value = parent.PosX.Value + pos[0]
	}
	if p.PosY.Inherits() {
		p.PosY.Value = parent.PosY.Value + pos[1]
	}
	if p.Angle.Inherits() {
		p.Angle.Value += parent.Angle.Value
	}
	if p.FlipH.Inherits() {
		p.FlipH.Value = float32(int(p.FlipH.Value) ^ int(parent.FlipH.Value))
	}
	if p.FlipV.Inherits() {
		p.FlipV.Value = float32(int(p.FlipV.Value) ^ int(parent.FlipV.Value))
	}
	if p.ScaleX.Inherits() {
		p.ScaleX.Value *= parent.ScaleX.Value
	}
	if p.ScaleY.Inherits() {
		p.ScaleY.Value *= parent.ScaleY.Value
	}
	if p.Hide.Inherits() {
		p.Hide.Value = parent.Hide.Value
	}
	if p.Trans.Inherits() {
		p.Trans.Value *= parent.Trans.Value
	}
}

func rotate(v f32.Vec2, a float64) f32.Vec2 {
	s, c := math.Sincos(a)
	x, y := float64(v[0]), float64(v[1])
	return f32.Vec2{float32(x*c - y*s), float32(x*s + y*c)}
}
