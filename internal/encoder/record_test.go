package encoder

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/ivlev/ssconv/internal/binwriter"
	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/errkind"
	"github.com/ivlev/ssconv/internal/motion"
)

func frameParam(id int) decoder.FrameParam {
	node := &motion.Node{
		Part: &motion.Part{
			ID:      id,
			PicArea: motion.NewRect(10, 20, 32, 16),
			Origin:  motion.Point{X: 16, Y: 8},
		},
		Parent: 0,
	}
	p := decoder.NewFrameParam()
	p.Node = node
	return p
}

func encode(t *testing.T, order binary.ByteOrder, r Record) ([]byte, DataFlag) {
	t.Helper()
	w := binwriter.New(order)
	df := r.Encode(w)
	out, err := w.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return out, df
}

func TestDefaultRecordIsMandatoryFieldsOnly(t *testing.T) {
	p := frameParam(3)
	p.PosX.Value = 5
	p.PosY.Value = -7.5

	rec := NewRecord(&p, false)
	if rec.Flags != 0 {
		t.Fatalf("expected no optional flags, got %s", rec.Flags)
	}

	out, df := encode(t, binary.LittleEndian, rec)
	if df != 0 {
		t.Errorf("expected no data flags, got %#x", df)
	}
	if len(out) != 22 {
		t.Fatalf("expected 22 bytes, got %d", len(out))
	}
	if got := binary.LittleEndian.Uint32(out); got != 0 {
		t.Errorf("expected zero flags word, got %#x", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[4:])); got != 4 {
		t.Errorf("expected part id 4 on the wire, got %d", got)
	}

	back, n, err := DecodeRecord(out, binary.LittleEndian)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if n != len(out) {
		t.Errorf("decoder used %d of %d bytes", n, len(out))
	}
	if back != rec {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, rec)
	}
	if back.OriginX != 16 || back.OriginY != 8 || back.ScaleX != 1 || back.Opacity != 255 || back.Angle != 0 {
		t.Errorf("optional fields not at their defaults: %+v", back)
	}
}

func TestRecordFlagsAndRoundTrip(t *testing.T) {
	p := frameParam(0)
	p.FlipH.Value = 1
	p.Angle.Value = math.Pi / 2
	p.ScaleX.Value = 2
	p.Trans.Value = 0.5
	p.OriginY.Value = 2
	p.Vertex[motion.TopRight] = motion.Point{X: 1, Y: -2}
	p.Color = motion.ColorBlend{Type: motion.ColorTypeParts, Blend: motion.BlendMix}
	p.Color.Colors[0] = motion.Color{R: 1, G: 2, B: 3, A: 255}

	rec := NewRecord(&p, true)
	want := FlagFlipH | FlagInvisible | FlagOriginY | FlagRotation | FlagScaleX | FlagOpacity | FlagVertexOffsetTR | FlagColor
	if rec.Flags != want {
		t.Fatalf("expected flags %s, got %s", want, rec.Flags)
	}
	if rec.Opacity != 127 {
		t.Errorf("expected opacity 127, got %d", rec.Opacity)
	}
	if rec.OriginY != 6 {
		t.Errorf("expected origin y measured from the bottom (6), got %d", rec.OriginY)
	}
	if math.Abs(float64(rec.Angle-90)) > 1e-4 {
		t.Errorf("expected 90 degrees, got %v", rec.Angle)
	}

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		out, df := encode(t, order, rec)
		if df != DataVertexOffset|DataColorBlend {
			t.Errorf("%v: expected vertex and color data flags, got %#x", order, df)
		}
		// mandatory 22 + origin y 2 + angle 4 + scale x 4 + opacity 2 + vertex 4 + blend 2 + color 4
		if len(out) != 44 {
			t.Errorf("%v: expected 44 bytes, got %d", order, len(out))
		}
		back, _, err := DecodeRecord(out, order)
		if err != nil {
			t.Fatalf("%v: DecodeRecord: %v", order, err)
		}
		if back != rec {
			t.Errorf("%v: round trip mismatch:\n got %+v\nwant %+v", order, back, rec)
		}
	}
}

func TestVertexColorFlags(t *testing.T) {
	p := frameParam(1)
	p.Color = motion.ColorBlend{Type: motion.ColorTypeVertex, Blend: motion.BlendAdd}
	p.Color.Colors[motion.BottomLeft] = motion.Color{R: 200, A: 10}

	rec := NewRecord(&p, false)
	if rec.Flags != FlagVertexColorBL {
		t.Fatalf("expected only the bottom-left color flag, got %s", rec.Flags)
	}
	out, _ := encode(t, binary.LittleEndian, rec)
	back, _, err := DecodeRecord(out, binary.LittleEndian)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if back.Blend != motion.BlendAdd || back.ColorType != motion.ColorTypeVertex {
		t.Errorf("expected vertex add blend, got %s %s", back.ColorType, back.Blend)
	}
	if back.Colors[motion.BottomLeft] != p.Color.Colors[motion.BottomLeft] {
		t.Errorf("bottom-left color lost: %+v", back.Colors)
	}
}

func TestVoidBlendWritesNoColor(t *testing.T) {
	p := frameParam(1)
	p.Color = motion.ColorBlend{Type: motion.ColorTypeParts, Blend: motion.BlendVoid}
	p.Color.Colors[0] = motion.Color{A: 255}

	if rec := NewRecord(&p, false); rec.Flags&FlagsColorBlend != 0 {
		t.Errorf("void blend must not set color flags, got %s", rec.Flags)
	}
}

func TestDecodeTruncatedRecord(t *testing.T) {
	p := frameParam(2)
	p.ScaleY.Value = 3
	out, _ := encode(t, binary.LittleEndian, NewRecord(&p, false))

	_, _, err := DecodeRecord(out[:len(out)-1], binary.LittleEndian)
	if !errkind.Has(err, errkind.MalformedRecord) {
		t.Errorf("expected %s, got %v", errkind.MalformedRecord, err)
	}
}

func TestAccumulator(t *testing.T) {
	var acc Accumulator
	var wg sync.WaitGroup
	for _, f := range []DataFlag{DataVertexOffset, DataColorBlend, DataVertexOffset, DataAffineTrans} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc.Add(f)
		}()
	}
	wg.Wait()

	if got := acc.Flags(); got != DataVertexOffset|DataColorBlend|DataAffineTrans {
		t.Errorf("unexpected accumulated flags %#x", got)
	}
}

func TestPartFlagString(t *testing.T) {
	if s := (FlagFlipH | FlagScaleY).String(); s != "flipH|scaleY" {
		t.Errorf("got %q", s)
	}
	if s := PartFlag(0).String(); s != "none" {
		t.Errorf("got %q", s)
	}
}
