package motion

import (
	"fmt"
	"strings"

	"github.com/ivlev/ssconv/internal/errkind"
)

// PartType is the display type of a part.
type PartType int

const (
	PartNormal PartType = iota
	PartRoot
	PartNull
	PartHitTest
	PartSound
)

func (t PartType) String() string {
	switch t {
	case PartNormal:
		return "normal"
	case PartRoot:
		return "root"
	case PartNull:
		return "null"
	case PartHitTest:
		return "hittest"
	case PartSound:
		return "sound"
	default:
		return fmt.Sprintf("PartType(%d)", int(t))
	}
}

func ParsePartType(s string) (PartType, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return PartNormal, nil
	case "root":
		return PartRoot, nil
	case "null":
		return PartNull, nil
	case "hittest", "hit-test":
		return PartHitTest, nil
	case "sound":
		return PartSound, nil
	}
	return PartNormal, fmt.Errorf("unknown part type %q", s)
}

// AlphaBlend is how a part is composited onto what is behind it.
type AlphaBlend int

const (
	AlphaMix AlphaBlend = iota
	AlphaMultiply
	AlphaAdd
	AlphaSubtract
)

func (a AlphaBlend) String() string {
	switch a {
	case AlphaMultiply:
		return "mul"
	case AlphaAdd:
		return "add"
	case AlphaSubtract:
		return "sub"
	default:
		return "mix"
	}
}

func ParseAlphaBlend(s string) (AlphaBlend, error) {
	switch strings.ToLower(s) {
	case "", "mix":
		return AlphaMix, nil
	case "mul", "multiply":
		return AlphaMultiply, nil
	case "add":
		return AlphaAdd, nil
	case "sub", "subtract":
		return AlphaSubtract, nil
	}
	return AlphaMix, fmt.Errorf("unknown alpha blend %q", s)
}

// Percent is an optional inherit percentage.
type Percent struct {
	Value float32
	Set   bool
}

// SomePercent returns a set percentage.
func SomePercent(v float32) Percent { return Percent{Value: v, Set: true} }

// Inherits reports whether the percentage is set and non-zero.
func (p Percent) Inherits() bool { return p.Set && p.Value != 0 }

// Attribute binds a timeline to a tag, with the inherit percentage
// declared for it in the document (unset when absent).
type Attribute struct {
	Tag            Tag
	InheritPercent Percent
	Timeline       *Timeline
}

// NewAttribute validates that every keyframe value has the kind tag expects.
func NewAttribute(tag Tag, percent Percent, timeline *Timeline) (*Attribute, error) {
	if tag <= Unknown || tag >= NumTags {
		return nil, errkind.New(errkind.MalformedTimeline, "unknown attribute tag %d", int(tag))
	}
	want := TypeOf(tag).Kind
	for _, k := range timeline.Keys() {
		if k.Value.Kind != want {
			return nil, errkind.New(errkind.MalformedTimeline,
				"%s keyframe at frame %d holds a %s value, expected %s", tag, k.Frame, k.Value.Kind, want)
		}
		if !k.Curve.Type.Valid() {
			return nil, errkind.New(errkind.UnresolvedCurve,
				"%s keyframe at frame %d uses unknown curve %d", tag, k.Frame, int(k.Curve.Type))
		}
	}
	return &Attribute{Tag: tag, InheritPercent: percent, Timeline: timeline}, nil
}

// Part is the static description of one node.
type Part struct {
	ID          int
	ParentID    int
	Name        string
	Type        PartType
	ImageID     int
	PicArea     Rect
	Origin      Point
	AlphaBlend  AlphaBlend
	InheritEach bool

	Attributes [NumTags]*Attribute
}

// SetAttribute stores a at its tag slot, replacing any previous one.
func (p *Part) SetAttribute(a *Attribute) {
	p.Attributes[a.Tag] = a
}

// Attribute returns the attribute for tag, or nil.
func (p *Part) Attribute(tag Tag) *Attribute {
	if tag < 0 || tag >= NumTags {
		return nil
	}
	return p.Attributes[tag]
}

// firstFrame is the earliest keyframe over all attributes.
func (p *Part) firstFrame() (int, bool) {
	first, ok := 0, false
	for _, a := range p.Attributes {
		if a == nil {
			continue
		}
		if f, has := a.Timeline.FirstFrame(); has && (!ok || f < first) {
			first, ok = f, true
		}
	}
	return first, ok
}
