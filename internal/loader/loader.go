// Package loader reads animation documents from YAML and builds the
// immutable motion model from them.
package loader

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/ssconv/internal/curve"
	"github.com/ivlev/ssconv/internal/errkind"
	"github.com/ivlev/ssconv/internal/motion"
)

// Read decodes a document file.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a document. Unknown fields are rejected so that a typo in
// an attribute name does not silently drop animation.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errkind.Wrap(errkind.MalformedDocument, err, "decode document")
	}
	return &doc, nil
}

// Write stores a document as YAML.
func Write(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Load reads a document file and builds its motion. Images without a size
// are probed relative to imageDir, or to the document's directory when
// imageDir is empty.
func Load(path, imageDir string) (*motion.Motion, error) {
	doc, err := Read(path)
	if err != nil {
		return nil, err
	}
	m, err := Build(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if imageDir == "" {
		imageDir = filepath.Dir(path)
	}
	ProbeImages(m.Images, imageDir)
	return m, nil
}

// Build turns a document into a motion.
func Build(doc *Document) (*motion.Motion, error) {
	if doc.FPS <= 0 {
		return nil, errkind.New(errkind.MalformedDocument, "fps must be positive, got %d", doc.FPS)
	}

	images := make([]motion.Image, 0, len(doc.Images))
	for _, img := range doc.Images {
		images = append(images, motion.Image{
			ID:     img.ID,
			Path:   img.Path,
			Width:  img.Width,
			Height: img.Height,
			BPP:    img.BPP,
		})
	}

	parts := make([]*motion.Part, 0, len(doc.Parts))
	lastFrame := 0
	for i := range doc.Parts {
		p, last, err := buildPart(&doc.Parts[i])
		if err != nil {
			return nil, fmt.Errorf("part %d %q: %w", doc.Parts[i].ID, doc.Parts[i].Name, err)
		}
		parts = append(parts, p)
		lastFrame = max(lastFrame, last)
	}

	endFrame := lastFrame
	if doc.EndFrame != nil {
		if *doc.EndFrame < 0 {
			return nil, errkind.New(errkind.MalformedDocument, "negative end frame %d", *doc.EndFrame)
		}
		endFrame = *doc.EndFrame
	}

	tree, err := motion.NewTree(parts, endFrame)
	if err != nil {
		return nil, err
	}
	return &motion.Motion{
		Name:     doc.Name,
		Tree:     tree,
		FPS:      doc.FPS,
		EndFrame: endFrame,
		Images:   images,
	}, nil
}

// buildPart returns the part and the last keyframe of its attributes.
func buildPart(d *PartDoc) (*motion.Part, int, error) {
	typ, err := motion.ParsePartType(d.Type)
	if err != nil {
		return nil, 0, errkind.Wrap(errkind.MalformedDocument, err, "type")
	}
	blend, err := motion.ParseAlphaBlend(d.AlphaBlend)
	if err != nil {
		return nil, 0, errkind.Wrap(errkind.MalformedDocument, err, "alpha blend")
	}

	p := &motion.Part{
		ID:          d.ID,
		ParentID:    d.Parent,
		Name:        d.Name,
		Type:        typ,
		ImageID:     d.Image,
		PicArea:     rect(d.Area),
		Origin:      motion.Point{X: d.Origin.X, Y: d.Origin.Y},
		AlphaBlend:  blend,
		InheritEach: d.InheritEach,
	}

	last := 0
	for _, ad := range d.Attributes {
		tag := motion.ParseTag(ad.Tag)
		if tag == motion.Unknown {
			return nil, 0, errkind.New(errkind.MalformedDocument, "unknown attribute %q", ad.Tag)
		}
		if p.Attribute(tag) != nil {
			return nil, 0, errkind.New(errkind.MalformedDocument, "attribute %s declared twice", tag)
		}
		a, err := buildAttribute(tag, &ad)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", tag, err)
		}
		p.SetAttribute(a)
		if f, ok := a.Timeline.LastFrame(); ok {
			last = max(last, f)
		}
	}
	return p, last, nil
}

func buildAttribute(tag motion.Tag, d *AttributeDoc) (*motion.Attribute, error) {
	var pct motion.Percent
	if d.Inherit != nil {
		pct = motion.SomePercent(*d.Inherit)
	}

	keys := make([]motion.Keyframe, 0, len(d.Keys))
	for _, kd := range d.Keys {
		k, err := buildKey(tag, &kd)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", kd.Frame, err)
		}
		keys = append(keys, k)
	}
	tl, err := motion.NewTimeline(keys)
	if err != nil {
		return nil, err
	}
	return motion.NewAttribute(tag, pct, tl)
}

func buildKey(tag motion.Tag, d *KeyDoc) (motion.Keyframe, error) {
	if d.Frame < 0 {
		return motion.Keyframe{}, errkind.New(errkind.MalformedTimeline, "negative frame")
	}
	ct, err := curve.ParseType(d.Curve)
	if err != nil {
		return motion.Keyframe{}, err
	}
	c := curve.Curve{Type: ct}
	switch len(d.CurveParams) {
	case 0:
	case 4:
		c.StartT, c.StartV, c.EndT, c.EndV = d.CurveParams[0], d.CurveParams[1], d.CurveParams[2], d.CurveParams[3]
	default:
		return motion.Keyframe{}, errkind.New(errkind.MalformedTimeline, "expected 4 curve params, got %d", len(d.CurveParams))
	}

	v, err := buildValue(tag, d)
	if err != nil {
		return motion.Keyframe{}, err
	}
	return motion.Keyframe{Frame: d.Frame, Value: v, Curve: c}, nil
}

func buildValue(tag motion.Tag, d *KeyDoc) (motion.Value, error) {
	kind := motion.TypeOf(tag).Kind
	missing := errkind.New(errkind.MalformedTimeline, "missing %s value", kind)

	switch kind {
	case motion.KindFloat:
		if d.Value == nil {
			return motion.Value{}, missing
		}
		v := *d.Value
		if tag == motion.Angle {
			v = v * float32(math.Pi) / 180
		}
		return motion.FloatValue(v), nil

	case motion.KindVertex:
		if d.Vertex == nil {
			return motion.Value{}, missing
		}
		if len(d.Vertex) != 4 {
			return motion.Value{}, errkind.New(errkind.MalformedTimeline, "expected 4 vertex corners, got %d", len(d.Vertex))
		}
		var vx motion.Vertex4
		for i, pt := range d.Vertex {
			vx[i] = motion.Point{X: pt.X, Y: pt.Y}
		}
		return motion.VertexValue(vx), nil

	case motion.KindColorBlend:
		if d.Color == nil {
			return motion.Value{}, missing
		}
		cb, err := colorBlend(d.Color)
		if err != nil {
			return motion.Value{}, errkind.Wrap(errkind.MalformedTimeline, err, "color")
		}
		return motion.ColorBlendValue(cb), nil

	case motion.KindUserData:
		if d.User == nil {
			return motion.Value{}, missing
		}
		u := motion.UserData{Number: d.User.Number, String: d.User.String}
		if d.User.Rect != nil {
			r := rect(*d.User.Rect)
			u.Rect = &r
		}
		if d.User.Point != nil {
			u.Point = &motion.Point{X: d.User.Point.X, Y: d.User.Point.Y}
		}
		return motion.UserDataValue(u), nil
	}
	return motion.Value{}, errkind.New(errkind.MalformedTimeline, "unsupported value kind %s", kind)
}

func colorBlend(d *ColorDoc) (motion.ColorBlend, error) {
	typ, err := motion.ParseColorType(d.Type)
	if err != nil {
		return motion.ColorBlend{}, err
	}
	op, err := motion.ParseBlendOp(d.Blend)
	if err != nil {
		return motion.ColorBlend{}, err
	}
	cb := motion.ColorBlend{Type: typ, Blend: op}

	switch typ {
	case motion.ColorTypeParts:
		if len(d.Colors) != 1 {
			return cb, fmt.Errorf("parts blend takes 1 color, got %d", len(d.Colors))
		}
		c, err := ParseColor(d.Colors[0])
		if err != nil {
			return cb, err
		}
		cb.Colors = [4]motion.Color{c, c, c, c}
	case motion.ColorTypeVertex:
		if len(d.Colors) != 4 {
			return cb, fmt.Errorf("vertex blend takes 4 colors, got %d", len(d.Colors))
		}
		for i, s := range d.Colors {
			c, err := ParseColor(s)
			if err != nil {
				return cb, err
			}
			cb.Colors[i] = c
		}
	}
	return cb, nil
}

// ParseColor reads #aarrggbb. The leading # is optional.
func ParseColor(s string) (motion.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 8 {
		return motion.Color{}, fmt.Errorf("color %q is not #aarrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return motion.Color{}, fmt.Errorf("color %q is not #aarrggbb", s)
	}
	return motion.Color{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// FormatColor is the inverse of ParseColor.
func FormatColor(c motion.Color) string {
	return fmt.Sprintf("#%08x", c.ARGB())
}

func rect(r RectDoc) motion.Rect {
	return motion.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}
