package saver

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/ssconv/internal/binwriter"
	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/encoder"
	"github.com/ivlev/ssconv/internal/logging"
	"github.com/ivlev/ssconv/internal/motion"
)

const (
	ssbaVersion    = 5
	ssbaHeaderSize = 64
	ssbaMagic      = uint32('S')<<24 | uint32('S')<<16 | uint32('B')<<8 | uint32('A')
)

// Part types as the player numbers them. Alpha blends share the
// numbering of motion.AlphaBlend.
const (
	ssbaPartNormal = 0
	ssbaPartNull   = 1
)

// isInvisiblePart reports records the player must not draw.
var isInvisiblePart = decoder.AnyOf(
	decoder.IsHidden,
	decoder.IsInvisible,
	decoder.IsRoot,
	decoder.IsHitTestOrSoundPart,
)

// ssbaSaver writes the binary player format. Offsets in the file are
// measured from its first byte, where the header lives, so no payload is
// ever found at offset 0.
type ssbaSaver struct {
	opts  Options
	enc   Encoding
	order binary.ByteOrder
}

func newSSBASaver(opts Options, enc Encoding) *ssbaSaver {
	var order binary.ByteOrder = binary.LittleEndian
	if opts.BigEndian {
		order = binary.BigEndian
	}
	return &ssbaSaver{opts: opts, enc: enc, order: order}
}

func (s *ssbaSaver) Decoding() decoder.Options {
	return decoder.Options{RootOrigin: s.opts.RootOrigin, SkipInheritance: s.opts.AffineTransformation}
}

// ssbaLabels are the label names of one output.
type ssbaLabels struct {
	prefix string
}

func (l ssbaLabels) image(id int) string         { return fmt.Sprintf("%s_image_%d", l.prefix, id) }
func (l ssbaLabels) userData(frame int) string   { return fmt.Sprintf("%s_userData_%d", l.prefix, frame) }
func (l ssbaLabels) partFrames(frame int) string { return fmt.Sprintf("%s_partFrameData_%d", l.prefix, frame) }
func (l ssbaLabels) partName(i int) string       { return fmt.Sprintf("%s_partName%d", l.prefix, i) }
func (l ssbaLabels) imageData() string           { return l.prefix + "_imageData" }
func (l ssbaLabels) frameData() string           { return l.prefix + "_frameData" }
func (l ssbaLabels) partData() string            { return l.prefix + "_partData" }

// frameChunk is one frame encoded into its own writer.
type frameChunk struct {
	w        *binwriter.Writer
	parts    int
	userData int
}

func (s *ssbaSaver) Save(ctx context.Context, out io.Writer, m *motion.Motion, frames [][]decoder.FrameParam) error {
	labels := ssbaLabels{prefix: s.opts.prefix(m)}
	var flags encoder.Accumulator
	if s.opts.AffineTransformation {
		flags.Add(encoder.DataAffineTrans)
	}

	w := binwriter.New(s.order)
	w.Fill(0, ssbaHeaderSize)
	w.WriteString(s.opts.Creator)
	w.Align(ssbaHeaderSize)

	if err := s.writeImages(w, labels, m.Images); err != nil {
		return err
	}

	chunks, err := s.encodeFrames(ctx, labels, frames, &flags)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if err := w.Append(c.w); err != nil {
			return err
		}
	}

	w.Align(4)
	if err := w.DefineLabel(labels.frameData()); err != nil {
		return err
	}
	for frame, c := range chunks {
		if c.parts > 0 {
			w.WriteReference(labels.partFrames(frame))
		} else {
			w.WriteInt32(0)
		}
		if c.userData > 0 {
			w.WriteReference(labels.userData(frame))
		} else {
			w.WriteInt32(0)
		}
		w.WriteInt16(int16(c.parts))
		w.WriteInt16(int16(c.userData))
	}

	if err := s.writeParts(w, labels, m.Tree, &flags); err != nil {
		return err
	}

	if err := w.Seek(0); err != nil {
		return err
	}
	w.WriteUint32(0xffffffff)
	w.WriteUint32(ssbaMagic)
	w.WriteUint32(ssbaVersion)
	w.WriteUint32(uint32(flags.Flags()))
	w.WriteReference(labels.partData())
	w.WriteReference(labels.frameData())
	w.WriteReference(labels.imageData())
	w.WriteInt16(int16(m.Tree.Len()))
	w.WriteInt16(int16(len(frames)))
	w.WriteInt16(int16(m.FPS))

	if _, err := w.WriteTo(out); err != nil {
		return err
	}
	logging.Logger().Debug("ssba written", "motion", m.Name, "bytes", w.Len(), "labels", len(w.LabelNames()), "flags", flags.Flags())
	return nil
}

func (s *ssbaSaver) imagePath(p string) string {
	p = filepath.ToSlash(p)
	if s.opts.KeepImagePaths {
		return p
	}
	return path.Base(p)
}

func (s *ssbaSaver) writeImages(w *binwriter.Writer, labels ssbaLabels, images []motion.Image) error {
	for _, img := range images {
		if err := w.DefineLabel(labels.image(img.ID)); err != nil {
			return err
		}
		name, err := s.enc.String(s.imagePath(img.Path))
		if err != nil {
			return err
		}
		w.WriteString(name)
	}

	w.Align(4)
	if err := w.DefineLabel(labels.imageData()); err != nil {
		return err
	}
	for _, img := range images {
		w.WriteReference(labels.image(img.ID))
	}
	w.WriteInt32(0)
	return nil
}

// encodeFrames encodes every frame into its own writer in parallel. The
// chunks come back in frame order.
func (s *ssbaSaver) encodeFrames(ctx context.Context, labels ssbaLabels, frames [][]decoder.FrameParam, flags *encoder.Accumulator) ([]frameChunk, error) {
	workers := s.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunks := make([]frameChunk, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for frame := range frames {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := s.encodeFrame(labels, frame, frames[frame], flags)
			if err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
			chunks[frame] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (s *ssbaSaver) encodeFrame(labels ssbaLabels, frame int, params []decoder.FrameParam, flags *encoder.Accumulator) (frameChunk, error) {
	c := frameChunk{w: binwriter.New(s.order)}

	withData := decoder.Keep(params, decoder.HasUserData)
	if len(withData) > 0 {
		if err := c.w.DefineLabel(labels.userData(frame)); err != nil {
			return c, err
		}
		for i := range withData {
			rec, err := encoder.NewUserDataRecord(&withData[i], s.enc.TextEncoder())
			if err != nil {
				return c, err
			}
			rec.Encode(c.w)
		}
	}
	c.userData = len(withData)

	// With player-side composition every part is needed for its children.
	if !s.opts.AffineTransformation {
		params = decoder.Remove(params, isInvisiblePart)
	}
	if len(params) > 0 {
		if err := c.w.DefineLabel(labels.partFrames(frame)); err != nil {
			return c, err
		}
		for i := range params {
			rec := encoder.NewRecord(&params[i], isInvisiblePart(&params[i]))
			flags.Add(rec.Encode(c.w))
		}
	}
	c.parts = len(params)

	logging.Logger().Debug("frame encoded", "frame", frame, "parts", c.parts, "userData", c.userData, "bytes", c.w.Len())
	return c, nil
}

func ssbaPartType(t motion.PartType) int16 {
	if t == motion.PartNormal {
		return ssbaPartNormal
	}
	return ssbaPartNull
}

func (s *ssbaSaver) writeParts(w *binwriter.Writer, labels ssbaLabels, tree *motion.Tree, flags *encoder.Accumulator) error {
	nodes := tree.Nodes()
	for i, n := range nodes {
		if err := w.DefineLabel(labels.partName(i)); err != nil {
			return err
		}
		name, err := s.enc.String(n.Part.Name)
		if err != nil {
			return err
		}
		w.WriteString(name)
	}

	w.Align(4)
	if err := w.DefineLabel(labels.partData()); err != nil {
		return err
	}
	for i, n := range nodes {
		parentID := -1
		if p := tree.Parent(n); p != nil {
			parentID = p.ID()
		}
		if n.Part.AlphaBlend != motion.AlphaMix {
			flags.Add(encoder.DataAlphaBlend)
		}

		w.WriteReference(labels.partName(i))
		w.WriteInt16(int16(n.ID() + 1))
		w.WriteInt16(int16(parentID + 1))
		w.WriteInt16(int16(n.Part.ImageID))
		w.WriteInt16(ssbaPartType(n.Type()))
		w.WriteInt16(int16(n.Part.AlphaBlend))
		w.WriteInt16(0)
	}
	return nil
}
