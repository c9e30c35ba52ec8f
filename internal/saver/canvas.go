package saver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/encoder"
	"github.com/ivlev/ssconv/internal/logging"
	"github.com/ivlev/ssconv/internal/motion"
)

// isRemovedCanvasPart reports records left out of canvas tables.
var isRemovedCanvasPart = decoder.AnyOf(
	decoder.IsHidden,
	decoder.IsInvisible,
	decoder.IsRoot,
	decoder.IsHitTestOrSoundPart,
	decoder.IsNullPart,
)

// canvasSaver writes the tables of the HTML5 canvas player, either as a
// JSON object or as JavaScript variables.
type canvasSaver struct {
	opts Options
	enc  Encoding
	json bool
}

func newCanvasSaver(opts Options, enc Encoding, json bool) *canvasSaver {
	return &canvasSaver{opts: opts, enc: enc, json: json}
}

func (s *canvasSaver) Decoding() decoder.Options {
	return decoder.Options{RootOrigin: s.opts.RootOrigin}
}

// quote writes v as a string literal valid in both JSON and JavaScript.
// Non-ASCII text is kept as is so that the output encoding applies to it.
func (s *canvasSaver) quote(v string) string {
	q := '\''
	if s.json {
		q = '"'
	}
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteRune(q)
	for _, r := range v {
		switch {
		case r == q || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}

func (s *canvasSaver) Save(ctx context.Context, out io.Writer, m *motion.Motion, frames [][]decoder.FrameParam) error {
	prefix := s.opts.prefix(m)
	var buf bytes.Buffer

	if s.json {
		buf.WriteString("{\n")
	} else {
		fmt.Fprintf(&buf, "// %s\n", s.opts.Creator)
	}

	if len(m.Images) > 0 {
		s.writeImages(&buf, prefix, m.Images)
		if s.json {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}

	if err := s.writeAnimation(ctx, &buf, prefix, m, frames); err != nil {
		return err
	}

	buf.WriteString("\n")
	if s.json {
		buf.WriteString("}\n")
	}

	tw := s.enc.Writer(out)
	if _, err := buf.WriteTo(tw); err != nil {
		return fmt.Errorf("encode %s output: %w", s.enc.Name, err)
	}
	return tw.Close()
}

func (s *canvasSaver) writeImages(buf *bytes.Buffer, prefix string, images []motion.Image) {
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = s.quote(path.Base(filepath.ToSlash(img.Path)))
	}
	list := strings.Join(names, ",")

	if s.json {
		fmt.Fprintf(buf, `"images":[%s]`, list)
	} else {
		fmt.Fprintf(buf, "var %s_images = [%s];", prefix, list)
	}
}

func (s *canvasSaver) writeAnimation(ctx context.Context, buf *bytes.Buffer, prefix string, m *motion.Motion, frames [][]decoder.FrameParam) error {
	nodes := m.Tree.Nodes()
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = s.quote(n.Part.Name)
	}
	partList := strings.Join(names, ",")

	if s.json {
		fmt.Fprintf(buf, "\"name\": %s,\n\"animation\": {\n\"fps\": %d,\n\"parts\": [%s],\n\"ssa\": [\n",
			s.quote(prefix), m.FPS, partList)
	} else {
		variable := prefix + "_animation"
		if s.opts.NoSuffix {
			variable = prefix
		}
		fmt.Fprintf(buf, "var %s = {\nfps: %d,\nparts: [%s],\nssa: [\n", variable, m.FPS, partList)
	}

	written := 0
	for frame, params := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		params = decoder.Remove(params, isRemovedCanvasPart)
		if len(params) == 0 {
			continue
		}

		if written > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString("[\n")
		for i := range params {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString("[")
			buf.WriteString(s.frameParams(prefix, m, frame, &params[i]).String())
			buf.WriteString("]")
		}
		buf.WriteString("\n]")
		written++
	}

	if s.json {
		buf.WriteString("\n]\n}")
	} else {
		buf.WriteString("\n]\n};")
	}
	logging.Logger().Debug("canvas frames written", "motion", m.Name, "frames", written, "of", len(frames))
	return nil
}

// frameParams lays out one part: id, image, source rectangle, position,
// rotation in radians and scale, then the optional origin, flips,
// opacity, alpha blend and vertex offsets.
func (s *canvasSaver) frameParams(prefix string, m *motion.Motion, frame int, p *decoder.FrameParam) *encoder.ParamBuffer {
	part := p.Node.Part
	src := encoder.SourceRect(p)

	if img, ok := m.Image(part.ImageID); ok && img.HasSize() {
		clipped := motion.Intersect(src, img.Bounds())
		if clipped.Width() != src.Width() || clipped.Height() != src.Height() {
			logging.Logger().Warn("source rectangle exceeds the image, clipped",
				"motion", prefix, "part", part.Name, "frame", frame, "rect", src, "image", img.Path)
		}
		src = clipped
	}

	origin := encoder.Origin(p)
	var b encoder.ParamBuffer
	b.AddInt(part.ID)
	b.AddInt(part.ImageID)
	b.AddInt(src.Left)
	b.AddInt(src.Top)
	b.AddInt(src.Width())
	b.AddInt(src.Height())
	b.AddFloat(p.PosX.Value)
	b.AddFloat(p.PosY.Value)
	b.AddFloat(p.Angle.Value)
	b.AddFloat(p.ScaleX.Value)
	b.AddFloat(p.ScaleY.Value)

	b.AddIntDefault(origin.X, 0)
	b.AddIntDefault(origin.Y, 0)
	b.AddIntDefault(flag(p.FlipH.Value), 0)
	b.AddIntDefault(flag(p.FlipV.Value), 0)
	b.AddFloatDefault(p.Trans.Value, 1)
	b.AddIntDefault(int(part.AlphaBlend), 0)
	for _, v := range p.Vertex {
		b.AddIntDefault(v.X, 0)
		b.AddIntDefault(v.Y, 0)
	}
	return &b
}

func flag(v float32) int {
	if v == 0 {
		return 0
	}
	return 1
}
