// Package decoder turns a motion into per-frame lists of fully resolved
// part states.
package decoder

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/ssconv/internal/logging"
	"github.com/ivlev/ssconv/internal/motion"
)

// Options control frame decoding.
type Options struct {
	// RootOrigin pins the top-level node to the origin.
	RootOrigin bool
	// SkipInheritance leaves every record in its local space, for players
	// that compose the hierarchy themselves.
	SkipInheritance bool
}

// Decoder resolves frames of one motion. The motion is only read, so a
// Decoder may be used from several goroutines.
type Decoder struct {
	motion *motion.Motion
	opts   Options
}

func New(m *motion.Motion, opts Options) *Decoder {
	return &Decoder{motion: m, opts: opts}
}

// Motion returns the decoded motion.
func (d *Decoder) Motion() *motion.Motion { return d.motion }

// DecodeFrame walks the tree depth first and returns a record for every
// node with data at frame, sorted by priority then part id.
func (d *Decoder) DecodeFrame(frame int) ([]FrameParam, error) {
	tree := d.motion.Tree
	out := make([]FrameParam, 0, tree.Len())

	neutral := NewFrameParam()
	out, err := d.walk(out, tree.Root(), frame, &neutral)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return Less(&out[i], &out[j]) })
	return out, nil
}

func (d *Decoder) walk(out []FrameParam, node *motion.Node, frame int, parent *FrameParam) ([]FrameParam, error) {
	tree := d.motion.Tree
	next := parent

	if tree.HasFrame(node, frame) {
		p, err := Resolve(node, frame)
		if err != nil {
			return out, err
		}
		if node.Depth == 0 && d.opts.RootOrigin {
			p.PosX.Value = 0
			p.PosY.Value = 0
		}
		if !d.opts.SkipInheritance {
			Cascade(&p, parent)
		}
		out = append(out, p)
		next = &p
	}

	for _, ci := range node.Children {
		var err error
		if out, err = d.walk(out, tree.Node(ci), frame, next); err != nil {
			return out, err
		}
	}
	return out, nil
}

// DecodeAll decodes frames 0 through the last frame of the motion with at
// most workers goroutines (GOMAXPROCS when workers <= 0). Frames are
// independent, so the first failure cancels the remaining ones.
func (d *Decoder) DecodeAll(ctx context.Context, workers int) ([][]FrameParam, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	total := d.motion.TotalFrames()
	frames := make([][]FrameParam, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for frame := 0; frame < total; frame++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			params, err := d.DecodeFrame(frame)
			if err != nil {
				return err
			}
			frames[frame] = params
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logging.Logger().Debug("frames decoded", "motion", d.motion.Name, "frames", total, "workers", workers)
	return frames, nil
}
