package motion

import (
	"fmt"
	"strings"
)

// Point is an integer 2D point.
type Point struct {
	X, Y int
}

func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Rect is an integer rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// NewRect builds a rectangle from a position and a size.
func NewRect(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Normalize swaps edges so that Left <= Right and Top <= Bottom.
func (r Rect) Normalize() Rect {
	if r.Right < r.Left {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Bottom < r.Top {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// Intersect returns the overlap of a and b, or the zero rectangle.
func Intersect(a, b Rect) Rect {
	if a.Right < b.Left || b.Right < a.Left || a.Bottom < b.Top || b.Bottom < a.Top {
		return Rect{}
	}
	return Rect{
		Left:   max(a.Left, b.Left),
		Top:    max(a.Top, b.Top),
		Right:  min(a.Right, b.Right),
		Bottom: min(a.Bottom, b.Bottom),
	}
}

// Corner indexes of a Vertex4 or of ColorBlend.Colors.
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
)

// Vertex4 holds the per-corner vertex offsets of a quad.
type Vertex4 [4]Point

func (v Vertex4) IsZero() bool {
	for _, p := range v {
		if !p.IsZero() {
			return false
		}
	}
	return true
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// ARGB packs c as 0xAARRGGBB.
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ColorType says whether a blend applies to the whole part or per vertex.
type ColorType int

const (
	ColorTypeNone ColorType = iota
	ColorTypeParts
	ColorTypeVertex
)

func (t ColorType) String() string {
	switch t {
	case ColorTypeParts:
		return "parts"
	case ColorTypeVertex:
		return "vertex"
	default:
		return "none"
	}
}

func ParseColorType(s string) (ColorType, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return ColorTypeNone, nil
	case "parts", "part":
		return ColorTypeParts, nil
	case "vertex":
		return ColorTypeVertex, nil
	}
	return ColorTypeNone, fmt.Errorf("unknown color type %q", s)
}

// BlendOp is the color blend operation.
type BlendOp int

const (
	BlendVoid BlendOp = iota
	BlendMix
	BlendMultiply
	BlendAdd
	BlendSubtract
)

func (b BlendOp) String() string {
	switch b {
	case BlendMix:
		return "mix"
	case BlendMultiply:
		return "mul"
	case BlendAdd:
		return "add"
	case BlendSubtract:
		return "sub"
	default:
		return "void"
	}
}

func ParseBlendOp(s string) (BlendOp, error) {
	switch strings.ToLower(s) {
	case "", "void":
		return BlendVoid, nil
	case "mix":
		return BlendMix, nil
	case "mul", "multiply":
		return BlendMultiply, nil
	case "add":
		return BlendAdd, nil
	case "sub", "subtract":
		return BlendSubtract, nil
	}
	return BlendVoid, fmt.Errorf("unknown blend operation %q", s)
}

// ColorBlend is the value of the PCOL attribute. With ColorTypeParts only
// Colors[0] is meaningful.
type ColorBlend struct {
	Type   ColorType
	Blend  BlendOp
	Colors [4]Color
}

// UserData is the value of the UDAT attribute. Absent fields are nil.
type UserData struct {
	Number *int32
	Rect   *Rect
	Point  *Point
	String *string
}

func (u UserData) HasData() bool {
	return u.Number != nil || u.Rect != nil || u.Point != nil || u.String != nil
}

// Kind discriminates Value.
type Kind int

const (
	KindFloat Kind = iota
	KindVertex
	KindColorBlend
	KindUserData
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindVertex:
		return "vertex"
	case KindColorBlend:
		return "color-blend"
	case KindUserData:
		return "user-data"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a keyframe value. Only the field selected by Kind is meaningful.
type Value struct {
	Kind     Kind
	Float    float32
	Vertex   Vertex4
	Color    ColorBlend
	UserData UserData
}

func FloatValue(v float32) Value         { return Value{Kind: KindFloat, Float: v} }
func VertexValue(v Vertex4) Value        { return Value{Kind: KindVertex, Vertex: v} }
func ColorBlendValue(c ColorBlend) Value { return Value{Kind: KindColorBlend, Color: c} }
func UserDataValue(u UserData) Value     { return Value{Kind: KindUserData, UserData: u} }
