package saver

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/encoder"
	"github.com/ivlev/ssconv/internal/motion"
)

// Dump is the YAML form of decoded frames.
type Dump struct {
	Name   string      `yaml:"name"`
	FPS    int         `yaml:"fps"`
	Frames []DumpFrame `yaml:"frames"`
}

type DumpFrame struct {
	Frame int        `yaml:"frame"`
	Parts []DumpPart `yaml:"parts"`
}

// DumpPart is one cascaded record. Positions are in pixels, the angle in
// radians.
type DumpPart struct {
	ID       int        `yaml:"id"`
	Name     string     `yaml:"name"`
	X        float32    `yaml:"x"`
	Y        float32    `yaml:"y"`
	Angle    float32    `yaml:"angle"`
	ScaleX   float32    `yaml:"scaleX"`
	ScaleY   float32    `yaml:"scaleY"`
	Opacity  float32    `yaml:"opacity"`
	Priority float32    `yaml:"priority"`
	FlipH    bool       `yaml:"flipH,omitempty"`
	FlipV    bool       `yaml:"flipV,omitempty"`
	Hidden   bool       `yaml:"hidden,omitempty"`
	Src      [4]int     `yaml:"src,flow"`
	Origin   [2]int     `yaml:"origin,flow"`
	Vertex   []int      `yaml:"vertex,flow,omitempty"`
	Color    *DumpColor `yaml:"color,omitempty"`
	UserData *DumpUser  `yaml:"userData,omitempty"`
}

type DumpColor struct {
	Type   string   `yaml:"type"`
	Blend  string   `yaml:"blend"`
	Colors []string `yaml:"colors,flow"`
}

type DumpUser struct {
	Number *int32  `yaml:"number,omitempty"`
	Rect   []int   `yaml:"rect,flow,omitempty"`
	Point  []int   `yaml:"point,flow,omitempty"`
	String *string `yaml:"string,omitempty"`
}

// dumpSaver writes every decoded record, unfiltered.
type dumpSaver struct {
	opts Options
}

func newDumpSaver(opts Options) *dumpSaver {
	return &dumpSaver{opts: opts}
}

func (s *dumpSaver) Decoding() decoder.Options {
	return decoder.Options{RootOrigin: s.opts.RootOrigin, SkipInheritance: s.opts.AffineTransformation}
}

func (s *dumpSaver) Save(ctx context.Context, out io.Writer, m *motion.Motion, frames [][]decoder.FrameParam) error {
	d := Dump{Name: s.opts.prefix(m), FPS: m.FPS, Frames: make([]DumpFrame, 0, len(frames))}
	for frame, params := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := DumpFrame{Frame: frame, Parts: make([]DumpPart, 0, len(params))}
		for i := range params {
			f.Parts = append(f.Parts, dumpPart(&params[i]))
		}
		d.Frames = append(d.Frames, f)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&d); err != nil {
		return err
	}
	return enc.Close()
}

func dumpPart(p *decoder.FrameParam) DumpPart {
	part := p.Node.Part
	src := encoder.SourceRect(p)
	origin := encoder.Origin(p)
	dp := DumpPart{
		ID:       part.ID,
		Name:     part.Name,
		X:        p.PosX.Value,
		Y:        p.PosY.Value,
		Angle:    p.Angle.Value,
		ScaleX:   p.ScaleX.Value,
		ScaleY:   p.ScaleY.Value,
		Opacity:  p.Trans.Value,
		Priority: p.Priority.Value,
		FlipH:    p.FlipH.Value != 0,
		FlipV:    p.FlipV.Value != 0,
		Hidden:   p.Hide.Value != 0,
		Src:      [4]int{src.Left, src.Top, src.Width(), src.Height()},
		Origin:   [2]int{origin.X, origin.Y},
	}

	if !p.Vertex.IsZero() {
		for _, v := range p.Vertex {
			dp.Vertex = append(dp.Vertex, v.X, v.Y)
		}
	}
	if c := p.Color; c.Type != motion.ColorTypeNone && c.Blend != motion.BlendVoid {
		dc := &DumpColor{Type: c.Type.String(), Blend: c.Blend.String()}
		n := 1
		if c.Type == motion.ColorTypeVertex {
			n = 4
		}
		for _, col := range c.Colors[:n] {
			dc.Colors = append(dc.Colors, fmt.Sprintf("#%08x", col.ARGB()))
		}
		dp.Color = dc
	}
	if u := p.UserData; u.HasData() {
		du := &DumpUser{Number: u.Number, String: u.String}
		if u.Rect != nil {
			du.Rect = []int{u.Rect.Left, u.Rect.Top, u.Rect.Right, u.Rect.Bottom}
		}
		if u.Point != nil {
			du.Point = []int{u.Point.X, u.Point.Y}
		}
		dp.UserData = du
	}
	return dp
}
