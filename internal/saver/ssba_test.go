package saver

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ivlev/ssconv/internal/encoder"
	"github.com/ivlev/ssconv/internal/motion"
)

// ssbaFile reads back what the player would read.
type ssbaFile struct {
	t     *testing.T
	b     []byte
	order binary.ByteOrder
}

func (f ssbaFile) u32(at int) uint32 { return f.order.Uint32(f.b[at:]) }
func (f ssbaFile) i16(at int) int    { return int(int16(f.order.Uint16(f.b[at:]))) }
func (f ssbaFile) ref(at int) int    { return int(int32(f.u32(at))) }

func (f ssbaFile) str(at int) string {
	f.t.Helper()
	end := bytes.IndexByte(f.b[at:], 0)
	if end < 0 {
		f.t.Fatalf("unterminated string at %d", at)
	}
	return string(f.b[at : at+end])
}

// frame returns the part data offset, user data offset, part count and
// user data count of one frame table entry.
func (f ssbaFile) frame(i int) (parts, userData, numParts, numUserData int) {
	at := f.ref(20) + i*12
	return f.ref(at), f.ref(at + 4), f.i16(at + 8), f.i16(at + 10)
}

func TestSSBALayout(t *testing.T) {
	out := save(t, "ssba", Options{Prefix: "girl", Creator: "ssconv test"}, fixture(t, "arm"))
	f := ssbaFile{t: t, b: out, order: binary.LittleEndian}

	if f.u32(0) != 0xffffffff || f.u32(4) != ssbaMagic {
		t.Fatalf("bad magic % x", out[:8])
	}
	if !bytes.Equal(out[4:8], []byte("ABSS")) {
		t.Errorf("expected the id packed big-endian first and stored little-endian, got %q", out[4:8])
	}
	if v := f.u32(8); v != ssbaVersion {
		t.Errorf("expected version %d, got %d", ssbaVersion, v)
	}
	if flags := encoder.DataFlag(f.u32(12)); flags != 0 {
		t.Errorf("expected no data flags, got %#x", flags)
	}
	if n := f.i16(28); n != 2 {
		t.Errorf("expected 2 parts, got %d", n)
	}
	if n := f.i16(30); n != 11 {
		t.Errorf("expected 11 frames, got %d", n)
	}
	if n := f.i16(32); n != 30 {
		t.Errorf("expected fps 30, got %d", n)
	}
	if s := f.str(64); s != "ssconv test" {
		t.Errorf("expected creator comment at 64, got %q", s)
	}

	images := f.ref(24)
	if s := f.str(f.ref(images)); s != "a.png" {
		t.Errorf("expected image file name only, got %q", s)
	}
	if end := f.ref(images + 4); end != 0 {
		t.Errorf("expected the image table to end with 0, got %d", end)
	}

	parts := f.ref(16)
	for i, want := range []struct {
		name     string
		id       int
		parentID int
	}{{"root", 1, 0}, {"arm", 2, 1}} {
		at := parts + i*16
		if s := f.str(f.ref(at)); s != want.name {
			t.Errorf("part %d: expected name %q, got %q", i, want.name, s)
		}
		if id, parent := f.i16(at+4), f.i16(at+6); id != want.id || parent != want.parentID {
			t.Errorf("part %d: expected ids %d/%d, got %d/%d", i, want.id, want.parentID, id, parent)
		}
	}

	partData, userData, numParts, numUserData := f.frame(0)
	if numParts != 1 || numUserData != 1 {
		t.Fatalf("frame 0: expected 1 part and 1 user data, got %d and %d", numParts, numUserData)
	}
	ud, _, err := encoder.DecodeUserDataRecord(out[userData:], f.order)
	if err != nil {
		t.Fatalf("user data: %v", err)
	}
	if ud.PartID != 1 || ud.Number != 7 || string(ud.String) != "hi" {
		t.Errorf("unexpected user data %+v", ud)
	}
	if partData == 0 {
		t.Fatal("frame 0: missing part data")
	}

	partData, userData, numParts, _ = f.frame(5)
	if userData != 0 {
		t.Errorf("frame 5: expected null user data offset, got %d", userData)
	}
	if numParts != 1 {
		t.Fatalf("frame 5: expected 1 part, got %d", numParts)
	}
	rec, _, err := encoder.DecodeRecord(out[partData:], f.order)
	if err != nil {
		t.Fatalf("frame 5 record: %v", err)
	}
	if rec.PartID != 1 || rec.PosX != 50 || rec.Flags != 0 {
		t.Errorf("frame 5: unexpected record %+v", rec)
	}
	if rec.Src.Width() != 64 || rec.OriginX != 32 || rec.OriginY != 16 {
		t.Errorf("frame 5: unexpected geometry %+v", rec)
	}
}

func TestSSBAAffineKeepsInvisibleParts(t *testing.T) {
	out := save(t, "ssba", Options{AffineTransformation: true, BigEndian: true}, fixture(t, "arm"))
	f := ssbaFile{t: t, b: out, order: binary.BigEndian}

	if !bytes.Equal(out[4:8], []byte("SSBA")) {
		t.Errorf("expected big-endian id, got %q", out[4:8])
	}
	if flags := encoder.DataFlag(f.u32(12)); flags&encoder.DataAffineTrans == 0 {
		t.Errorf("expected the affine data flag, got %#x", flags)
	}

	partData, _, numParts, _ := f.frame(5)
	if numParts != 2 {
		t.Fatalf("expected root and arm, got %d parts", numParts)
	}
	root, n, err := encoder.DecodeRecord(out[partData:], f.order)
	if err != nil {
		t.Fatal(err)
	}
	if root.PartID != 0 || !root.Flags.Has(encoder.FlagInvisible) {
		t.Errorf("expected an invisible root record first, got %+v", root)
	}
	arm, _, err := encoder.DecodeRecord(out[partData+n:], f.order)
	if err != nil {
		t.Fatal(err)
	}
	if arm.PosX != 50 {
		t.Errorf("expected the local position 50, got %v", arm.PosX)
	}
}

func TestSSBAFramesWithoutParts(t *testing.T) {
	m := fixture(t, "arm")
	m.Tree.Node(1).Part.SetAttribute(attr(t, motion.Trans, motion.Percent{}, lin(0, 0)))
	out := save(t, "ssba", Options{}, m)
	f := ssbaFile{t: t, b: out, order: binary.LittleEndian}

	for frame := 0; frame <= 10; frame++ {
		partData, _, numParts, _ := f.frame(frame)
		if numParts != 0 || partData != 0 {
			t.Errorf("frame %d: expected no parts and a null offset, got %d at %d", frame, numParts, partData)
		}
	}
	if _, userData, _, n := f.frame(0); n != 1 || userData == 0 {
		t.Errorf("user data of a transparent part is still written, got %d at %d", n, userData)
	}
}
