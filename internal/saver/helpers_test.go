package saver

import (
	"bytes"
	"context"
	"testing"

	"github.com/ivlev/ssconv/internal/curve"
	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/motion"
)

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

func lin(frame int, v float32) motion.Keyframe {
	return motion.Keyframe{Frame: frame, Value: motion.FloatValue(v), Curve: curve.Curve{Type: curve.Linear}}
}

// fixture is a root held at the origin and an "arm" sliding from x=0 to
// x=100 over frames 0..10, carrying user data on frame 0.
func fixture(t *testing.T, armName string) *motion.Motion {
	t.Helper()

	num := int32(7)
	text := "hi"
	root := &motion.Part{ID: 0, ParentID: -1, Type: motion.PartRoot, Name: "root"}
	root.SetAttribute(attr(t, motion.PosX, motion.Percent{}, lin(0, 0)))

	arm := &motion.Part{
		ID:       1,
		ParentID: 0,
		Name:     armName,
		Type:     motion.PartNormal,
		ImageID:  0,
		PicArea:  motion.NewRect(0, 0, 64, 32),
		Origin:   motion.Point{X: 32, Y: 16},

		InheritEach: true,
	}
	arm.SetAttribute(attr(t, motion.PosX, motion.SomePercent(100), lin(0, 0), lin(10, 100)))
	arm.SetAttribute(attr(t, motion.UserDataTag, motion.Percent{}, motion.Keyframe{
		Frame: 0,
		Value: motion.UserDataValue(motion.UserData{Number: &num, String: &text}),
	}))

	tree, err := motion.NewTree([]*motion.Part{root, arm}, 10)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return &motion.Motion{
		Name:     "test",
		Tree:     tree,
		FPS:      30,
		EndFrame: 10,
		Images:   []motion.Image{{ID: 0, Path: "img/a.png", Width: 64, Height: 32}},
	}
}

func save(t *testing.T, format string, opts Options, m *motion.Motion) []byte {
	t.Helper()
	s, err := New(format, opts)
	if err != nil {
		t.Fatalf("New(%s): %v", format, err)
	}
	frames, err := decoder.New(m, s.Decoding()).DecodeAll(context.Background(), 2)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Save(context.Background(), &buf, m, frames); err != nil {
		t.Fatalf("Save(%s): %v", format, err)
	}
	return buf.Bytes()
}
