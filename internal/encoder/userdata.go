package encoder

import (
	"encoding/binary"

	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/errkind"
	"github.com/ivlev/ssconv/internal/motion"
)

// TextEncoder turns a document string into output bytes. A nil encoder
// keeps the UTF-8 bytes.
type TextEncoder func(s string) ([]byte, error)

// UserDataRecord is the user data of one part at one frame. String holds
// already encoded bytes.
type UserDataRecord struct {
	Flags  UserDataFlag
	PartID int
	Number int32
	Rect   motion.Rect
	Point  motion.Point
	String []byte
}

// NewUserDataRecord collects the fields present in p.
func NewUserDataRecord(p *decoder.FrameParam, enc TextEncoder) (UserDataRecord, error) {
	u := p.UserData
	r := UserDataRecord{PartID: p.ID()}
	if u.Number != nil {
		r.Flags |= UserNumber
		r.Number = *u.Number
	}
	if u.Rect != nil {
		r.Flags |= UserRect
		r.Rect = *u.Rect
	}
	if u.Point != nil {
		r.Flags |= UserPoint
		r.Point = *u.Point
	}
	if u.String != nil {
		r.Flags |= UserString
		if enc == nil {
			r.String = []byte(*u.String)
		} else {
			b, err := enc(*u.String)
			if err != nil {
				return UserDataRecord{}, err
			}
			r.String = b
		}
	}
	return r, nil
}

// Encode writes the flags, the part id and the present fields. A string
// is its byte length, then the bytes and a NUL padded to an even size.
// The padded bytes go out as little-endian 16-bit words in the sink's
// byte order, which players read back as shorts, so a big-endian sink
// swaps each byte pair.
func (r *UserDataRecord) Encode(w Sink) {
	w.WriteUint16(uint16(r.Flags))
	w.WriteInt16(int16(r.PartID + 1))

	if r.Flags.has(UserNumber) {
		w.WriteInt32(r.Number)
	}
	if r.Flags.has(UserRect) {
		w.WriteInt32(int32(r.Rect.Left))
		w.WriteInt32(int32(r.Rect.Top))
		w.WriteInt32(int32(r.Rect.Right))
		w.WriteInt32(int32(r.Rect.Bottom))
	}
	if r.Flags.has(UserPoint) {
		w.WriteInt32(int32(r.Point.X))
		w.WriteInt32(int32(r.Point.Y))
	}
	if r.Flags.has(UserString) {
		w.WriteInt16(int16(len(r.String)))
		buf := make([]byte, (len(r.String)+2)&^1)
		copy(buf, r.String)
		for i := 0; i < len(buf); i += 2 {
			w.WriteUint16(binary.LittleEndian.Uint16(buf[i:]))
		}
	}
}

func (f UserDataFlag) has(flag UserDataFlag) bool { return f&flag != 0 }

// DecodeUserDataRecord reads one user-data record from the start of b.
func DecodeUserDataRecord(b []byte, order binary.ByteOrder) (UserDataRecord, int, error) {
	in := &reader{b: b, order: order}

	r := UserDataRecord{Flags: UserDataFlag(in.uint16())}
	r.PartID = int(in.int16()) - 1
	if r.Flags&^UserDataFlags != 0 && in.err == nil {
		return UserDataRecord{}, in.pos, errkind.New(errkind.MalformedRecord, "unknown user data flags %#x", uint16(r.Flags))
	}

	if r.Flags.has(UserNumber) {
		r.Number = in.int32()
	}
	if r.Flags.has(UserRect) {
		r.Rect = motion.Rect{
			Left:   int(in.int32()),
			Top:    int(in.int32()),
			Right:  int(in.int32()),
			Bottom: int(in.int32()),
		}
	}
	if r.Flags.has(UserPoint) {
		r.Point = motion.Point{X: int(in.int32()), Y: int(in.int32())}
	}
	if r.Flags.has(UserString) {
		n := int(in.uint16())
		buf := make([]byte, (n+2)&^1)
		for i := 0; i < len(buf); i += 2 {
			binary.LittleEndian.PutUint16(buf[i:], in.uint16())
		}
		r.String = buf[:n]
	}

	if in.err != nil {
		return UserDataRecord{}, in.pos, in.err
	}
	return r, in.pos, nil
}
