package encoder

import (
	"encoding/binary"
	"math"

	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/errkind"
	"github.com/ivlev/ssconv/internal/motion"
)

// Sink receives fixed-width values. *binwriter.Writer satisfies it.
type Sink interface {
	WriteInt16(v int16)
	WriteUint16(v uint16)
	WriteInt32(v int32)
	WriteUint32(v uint32)
	WriteFloat32(v float32)
	WriteBytes(p []byte)
}

// Record is one part at one frame in player terms. Angle is in degrees
// and the origin is measured from the bottom-left of the source rectangle.
type Record struct {
	Flags  PartFlag
	PartID int
	Src    motion.Rect
	PosX   float32
	PosY   float32

	OriginX int
	OriginY int
	Angle   float32
	ScaleX  float32
	ScaleY  float32
	Opacity int
	Vertex  motion.Vertex4

	ColorType motion.ColorType
	Blend     motion.BlendOp
	Colors    [4]motion.Color
}

// SourceRect is the node's source rectangle moved and resized by the
// image offset attributes.
func SourceRect(p *decoder.FrameParam) motion.Rect {
	area := p.Node.Part.PicArea
	left := area.Left + int(p.ImgX.Value)
	top := area.Top + int(p.ImgY.Value)
	return motion.Rect{
		Left:   left,
		Top:    top,
		Right:  left + area.Width() + int(p.ImgW.Value),
		Bottom: top + area.Height() + int(p.ImgH.Value),
	}
}

// Origin is the node's pivot moved by the origin offset attributes,
// measured from the top-left of the source rectangle.
func Origin(p *decoder.FrameParam) motion.Point {
	o := p.Node.Part.Origin
	return motion.Point{X: o.X + int(p.OriginX.Value), Y: o.Y + int(p.OriginY.Value)}
}

// Degrees converts radians with single precision arithmetic.
func Degrees(rad float32) float32 {
	return rad * 180 / float32(math.Pi)
}

// defaults returns a record holding every optional field at its
// structural default for the given source rectangle.
func defaults(id int, src motion.Rect) Record {
	return Record{
		PartID:  id,
		Src:     src,
		OriginX: src.Width() / 2,
		OriginY: src.Height() / 2,
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 255,
	}
}

// NewRecord converts a cascaded frame record and computes its flags.
// invisible is decided by the caller since the policy differs per target.
func NewRecord(p *decoder.FrameParam, invisible bool) Record {
	src := SourceRect(p)
	origin := Origin(p)

	r := defaults(p.ID(), src)
	r.PosX = p.PosX.Value
	r.PosY = p.PosY.Value
	r.OriginX = origin.X
	r.OriginY = src.Height() - origin.Y
	r.Angle = Degrees(p.Angle.Value)
	r.ScaleX = p.ScaleX.Value
	r.ScaleY = p.ScaleY.Value
	r.Opacity = int(255 * p.Trans.Value)
	r.Vertex = p.Vertex

	var f PartFlag
	if p.FlipH.Value != 0 {
		f |= FlagFlipH
	}
	if p.FlipV.Value != 0 {
		f |= FlagFlipV
	}
	if invisible {
		f |= FlagInvisible
	}
	if r.OriginX != src.Width()/2 {
		f |= FlagOriginX
	}
	if r.OriginY != src.Height()/2 {
		f |= FlagOriginY
	}
	if r.Angle != 0 {
		f |= FlagRotation
	}
	if r.ScaleX != 1 {
		f |= FlagScaleX
	}
	if r.ScaleY != 1 {
		f |= FlagScaleY
	}
	if r.Opacity < 255 {
		f |= FlagOpacity
	}
	for i, v := range p.Vertex {
		if !v.IsZero() {
			f |= vertexOffsetFlags[i]
		}
	}

	c := p.Color
	if c.Blend != motion.BlendVoid {
		switch c.Type {
		case motion.ColorTypeParts:
			if c.Colors[motion.TopLeft].A > 0 {
				f |= FlagColor
			}
		case motion.ColorTypeVertex:
			for i, col := range c.Colors {
				if col.A > 0 {
					f |= vertexColorFlags[i]
				}
			}
		}
	}
	if f&FlagsColorBlend != 0 {
		r.ColorType = c.Type
		r.Blend = c.Blend
		r.Colors = c.Colors
	}

	r.Flags = f
	return r
}

func blendNumber(b motion.BlendOp) int16 {
	switch b {
	case motion.BlendMultiply:
		return 1
	case motion.BlendAdd:
		return 2
	case motion.BlendSubtract:
		return 3
	default:
		return 0
	}
}

func blendFromNumber(n int16) (motion.BlendOp, bool) {
	switch n {
	case 0:
		return motion.BlendMix, true
	case 1:
		return motion.BlendMultiply, true
	case 2:
		return motion.BlendAdd, true
	case 3:
		return motion.BlendSubtract, true
	}
	return motion.BlendVoid, false
}

// Encode writes the mandatory fields, then every flagged field in
// ascending flag order. The returned data flags are meant for an
// Accumulator.
func (r *Record) Encode(w Sink) DataFlag {
	f := r.Flags
	w.WriteUint32(uint32(f))
	w.WriteInt16(int16(r.PartID + 1))
	w.WriteInt16(int16(r.Src.Left))
	w.WriteInt16(int16(r.Src.Top))
	w.WriteInt16(int16(r.Src.Width()))
	w.WriteInt16(int16(r.Src.Height()))
	w.WriteFloat32(r.PosX)
	w.WriteFloat32(r.PosY)

	if f.Has(FlagOriginX) {
		w.WriteInt16(int16(r.OriginX))
	}
	if f.Has(FlagOriginY) {
		w.WriteInt16(int16(r.OriginY))
	}
	if f.Has(FlagRotation) {
		w.WriteFloat32(r.Angle)
	}
	if f.Has(FlagScaleX) {
		w.WriteFloat32(r.ScaleX)
	}
	if f.Has(FlagScaleY) {
		w.WriteFloat32(r.ScaleY)
	}
	if f.Has(FlagOpacity) {
		w.WriteInt16(int16(r.Opacity))
	}
	for i, flag := range vertexOffsetFlags {
		if f.Has(flag) {
			w.WriteInt16(int16(r.Vertex[i].X))
			w.WriteInt16(int16(r.Vertex[i].Y))
		}
	}

	if f&FlagsColorBlend != 0 {
		w.WriteInt16(blendNumber(r.Blend))
		if f.Has(FlagColor) {
			w.WriteUint32(r.Colors[motion.TopLeft].ARGB())
		}
		for i, flag := range vertexColorFlags {
			if f.Has(flag) {
				w.WriteUint32(r.Colors[i].ARGB())
			}
		}
	}
	return f.DataFlags()
}

// reader walks an encoded buffer; the first short read sticks in err.
type reader struct {
	b     []byte
	pos   int
	order binary.ByteOrder
	err   error
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if r.pos+n > len(r.b) {
		r.err = errkind.New(errkind.MalformedRecord, "record truncated at byte %d, need %d more", r.pos, r.pos+n-len(r.b))
		return make([]byte, n)
	}
	p := r.b[r.pos : r.pos+n]
	r.pos += n
	return p
}

func (r *reader) int16() int16     { return int16(r.order.Uint16(r.next(2))) }
func (r *reader) uint16() uint16   { return r.order.Uint16(r.next(2)) }
func (r *reader) int32() int32     { return int32(r.order.Uint32(r.next(4))) }
func (r *reader) uint32() uint32   { return r.order.Uint32(r.next(4)) }
func (r *reader) float32() float32 { return math.Float32frombits(r.order.Uint32(r.next(4))) }

func colorFromARGB(v uint32) motion.Color {
	return motion.Color{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// DecodeRecord reads one part record from the start of b and reports how
// many bytes it used. Fields absent from the flags word come back at
// their structural defaults.
func DecodeRecord(b []byte, order binary.ByteOrder) (Record, int, error) {
	in := &reader{b: b, order: order}

	f := PartFlag(in.uint32())
	id := int(in.int16()) - 1
	left, top := int(in.int16()), int(in.int16())
	w, h := int(in.int16()), int(in.int16())

	r := defaults(id, motion.NewRect(left, top, w, h))
	r.Flags = f
	r.PosX = in.float32()
	r.PosY = in.float32()

	if f.Has(FlagOriginX) {
		r.OriginX = int(in.int16())
	}
	if f.Has(FlagOriginY) {
		r.OriginY = int(in.int16())
	}
	if f.Has(FlagRotation) {
		r.Angle = in.float32()
	}
	if f.Has(FlagScaleX) {
		r.ScaleX = in.float32()
	}
	if f.Has(FlagScaleY) {
		r.ScaleY = in.float32()
	}
	if f.Has(FlagOpacity) {
		r.Opacity = int(in.int16())
	}
	for i, flag := range vertexOffsetFlags {
		if f.Has(flag) {
			r.Vertex[i] = motion.Point{X: int(in.int16()), Y: int(in.int16())}
		}
	}

	if f&FlagsColorBlend != 0 {
		n := in.int16()
		blend, ok := blendFromNumber(n)
		if !ok && in.err == nil {
			return Record{}, in.pos, errkind.New(errkind.MalformedRecord, "unknown blend number %d", n)
		}
		r.Blend = blend
		if f.Has(FlagColor) {
			r.ColorType = motion.ColorTypeParts
			r.Colors[motion.TopLeft] = colorFromARGB(in.uint32())
		}
		if f&FlagsVertexColor != 0 {
			r.ColorType = motion.ColorTypeVertex
		}
		for i, flag := range vertexColorFlags {
			if f.Has(flag) {
				r.Colors[i] = colorFromARGB(in.uint32())
			}
		}
	}

	if in.err != nil {
		return Record{}, in.pos, in.err
	}
	return r, in.pos, nil
}
