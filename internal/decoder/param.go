package decoder

import (
	"github.com/ivlev/ssconv/internal/motion"
)

// FloatValue is a resolved scalar attribute and its inherit percentage.
type FloatValue struct {
	Value          float32
	InheritPercent motion.Percent
}

// Inherits reports whether the value takes part in the cascade.
func (v FloatValue) Inherits() bool { return v.InheritPercent.Inherits() }

// FrameParam is the resolved state of one node at one frame.
type FrameParam struct {
	Node *motion.Node

	PosX     FloatValue
	PosY     FloatValue
	Angle    FloatValue
	ScaleX   FloatValue
	ScaleY   FloatValue
	Trans    FloatValue
	Priority FloatValue
	FlipH    FloatValue
	FlipV    FloatValue
	Hide     FloatValue
	ImgX     FloatValue
	ImgY     FloatValue
	ImgW     FloatValue
	ImgH     FloatValue
	OriginX  FloatValue
	OriginY  FloatValue
	Palette  FloatValue

	Vertex   motion.Vertex4
	Color    motion.ColorBlend
	UserData motion.UserData
}

func defaultFloat(tag motion.Tag) FloatValue {
	typ := motion.TypeOf(tag)
	v := FloatValue{Value: typ.Default.Float}
	if typ.Inheritable {
		v.InheritPercent = motion.SomePercent(typ.DefaultInheritPercent)
	}
	return v
}

// NewFrameParam returns a record with every attribute at its static
// default. With no node attached it is the neutral parent of the root:
// origin position, no rotation, unit scale, opaque, visible.
func NewFrameParam() FrameParam {
	return FrameParam{
		PosX:     defaultFloat(motion.PosX),
		PosY:     defaultFloat(motion.PosY),
		Angle:    defaultFloat(motion.Angle),
		ScaleX:   defaultFloat(motion.ScaleX),
		ScaleY:   defaultFloat(motion.ScaleY),
		Trans:    defaultFloat(motion.Trans),
		Priority: defaultFloat(motion.Priority),
		FlipH:    defaultFloat(motion.FlipH),
		FlipV:    defaultFloat(motion.FlipV),
		Hide:     defaultFloat(motion.Hide),
		ImgX:     defaultFloat(motion.ImgX),
		ImgY:     defaultFloat(motion.ImgY),
		ImgW:     defaultFloat(motion.ImgW),
		ImgH:     defaultFloat(motion.ImgH),
		OriginX:  defaultFloat(motion.OriginX),
		OriginY:  defaultFloat(motion.OriginY),
		Palette:  defaultFloat(motion.Palette),
	}
}

// float returns the scalar slot for tag, or nil for composite tags.
func (p *FrameParam) float(tag motion.Tag) *FloatValue {
	switch tag {
	case motion.PosX:
		return &p.PosX
	case motion.PosY:
		return &p.PosY
	case motion.Angle:
		return &p.Angle
	case motion.ScaleX:
		return &p.ScaleX
	case motion.ScaleY:
		return &p.ScaleY
	case motion.Trans:
		return &p.Trans
	case motion.Priority:
		return &p.Priority
	case motion.FlipH:
		return &p.FlipH
	case motion.FlipV:
		return &p.FlipV
	case motion.Hide:
		return &p.Hide
	case motion.ImgX:
		return &p.ImgX
	case motion.ImgY:
		return &p.ImgY
	case motion.ImgW:
		return &p.ImgW
	case motion.ImgH:
		return &p.ImgH
	case motion.OriginX:
		return &p.OriginX
	case motion.OriginY:
		return &p.OriginY
	case motion.Palette:
		return &p.Palette
	}
	return nil
}

// ID is the part id of the record, or -1 for the neutral parent.
func (p *FrameParam) ID() int {
	if p.Node == nil {
		return -1
	}
	return p.Node.ID()
}

// Less orders records by priority, then by part id.
func Less(a, b *FrameParam) bool {
	if a.Priority.Value != b.Priority.Value {
		return a.Priority.Value < b.Priority.Value
	}
	return a.ID() < b.ID()
}

// Predicate classifies a record for filtering.
type Predicate func(*FrameParam) bool

func IsHidden(p *FrameParam) bool    { return p.Hide.Value != 0 }
func IsInvisible(p *FrameParam) bool { return p.Trans.Value == 0 }
func IsRoot(p *FrameParam) bool      { return p.Node != nil && p.Node.IsRoot() }
func IsNullPart(p *FrameParam) bool  { return p.Node != nil && p.Node.Type() == motion.PartNull }
func IsScaleZero(p *FrameParam) bool { return p.ScaleX.Value == 0 || p.ScaleY.Value == 0 }
func HasUserData(p *FrameParam) bool { return p.UserData.HasData() }

func IsHitTestOrSoundPart(p *FrameParam) bool {
	if p.Node == nil {
		return false
	}
	t := p.Node.Type()
	return t == motion.PartHitTest || t == motion.PartSound
}

// AnyOf matches records matched by at least one of preds.
func AnyOf(preds ...Predicate) Predicate {
	return func(p *FrameParam) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}

// Remove returns the records not matched by pred, in order. The input is
// left untouched.
func Remove(params []FrameParam, pred Predicate) []FrameParam {
	out := make([]FrameParam, 0, len(params))
	for i := range params {
		if !pred(&params[i]) {
			out = append(out, params[i])
		}
	}
	return out
}

// Keep returns the records matched by pred, in order.
func Keep(params []FrameParam, pred Predicate) []FrameParam {
	return Remove(params, func(p *FrameParam) bool { return !pred(p) })
}
