// Package binwriter is a seekable in-memory byte sink with named labels
// and 4-byte references that are patched once every label is known.
//
// A reference site holds label offset minus the writer base, so a zero
// offset is reserved for "absent" and a reference resolving to 0 is an
// error.
package binwriter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/ivlev/ssconv/internal/errkind"
	"github.com/ivlev/ssconv/internal/logging"
)

// RefSize is the width of a reference in bytes.
const RefSize = 4

type reference struct {
	site  int
	label string
}

// Writer accumulates bytes in a chosen byte order. It is not safe for
// concurrent use; parallel producers each fill their own Writer and merge
// them with Append.
type Writer struct {
	order    binary.ByteOrder
	buf      []byte
	pos      int
	base     int
	labels   map[string]int
	refs     []reference
	resolved bool
}

// New returns an empty writer using order for every multi-byte value.
func New(order binary.ByteOrder) *Writer {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Writer{order: order, labels: make(map[string]int)}
}

// Order returns the writer byte order.
func (w *Writer) Order() binary.ByteOrder { return w.order }

// Pos returns the cursor position.
func (w *Writer) Pos() int { return w.pos }

// Len returns the stream length, which may exceed Pos after a Seek.
func (w *Writer) Len() int { return len(w.buf) }

// SetBase sets the offset references are measured from. Default 0.
func (w *Writer) SetBase(base int) { w.base = base }

// Seek moves the cursor to an absolute position without truncating.
// Seeking past the end zero-fills on the next write.
func (w *Writer) Seek(pos int) error {
	if pos < 0 {
		return fmt.Errorf("seek to negative position %d", pos)
	}
	w.pos = pos
	return nil
}

// reserve makes room for n bytes at the cursor and returns the slice to fill.
func (w *Writer) reserve(n int) []byte {
	end := w.pos + n
	if end > len(w.buf) {
		if end > cap(w.buf) {
			grown := make([]byte, len(w.buf), max(end, 2*cap(w.buf)))
			copy(grown, w.buf)
			w.buf = grown
		}
		old := len(w.buf)
		w.buf = w.buf[:end]
		clear(w.buf[old:end])
	}
	b := w.buf[w.pos:end]
	w.pos = end
	return b
}

func (w *Writer) WriteUint8(v uint8) { w.reserve(1)[0] = v }
func (w *Writer) WriteInt8(v int8)   { w.WriteUint8(uint8(v)) }

func (w *Writer) WriteUint16(v uint16) { w.order.PutUint16(w.reserve(2), v) }
func (w *Writer) WriteInt16(v int16)   { w.WriteUint16(uint16(v)) }

func (w *Writer) WriteUint32(v uint32) { w.order.PutUint32(w.reserve(4), v) }
func (w *Writer) WriteInt32(v int32)   { w.WriteUint32(uint32(v)) }

func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }

// WriteBytes copies p verbatim.
func (w *Writer) WriteBytes(p []byte) { copy(w.reserve(len(p)), p) }

// WriteString writes s followed by a NUL byte.
func (w *Writer) WriteString(s string) {
	b := w.reserve(len(s) + 1)
	copy(b, s)
	b[len(s)] = 0
}

// Fill writes count copies of b.
func (w *Writer) Fill(b byte, count int) {
	if count <= 0 {
		return
	}
	p := w.reserve(count)
	for i := range p {
		p[i] = b
	}
}

// Align pads with zeros up to the next multiple of n.
func (w *Writer) Align(n int) {
	if n <= 1 {
		return
	}
	if r := w.pos % n; r != 0 {
		w.Fill(0, n-r)
	}
}

// DefineLabel records the cursor as the offset of name.
func (w *Writer) DefineLabel(name string) error {
	if _, ok := w.labels[name]; ok {
		return errkind.New(errkind.DuplicateLabel, "label %q defined twice", name)
	}
	w.labels[name] = w.pos
	return nil
}

// Label returns the offset recorded for name.
func (w *Writer) Label(name string) (int, bool) {
	off, ok := w.labels[name]
	return off, ok
}

// WriteReference writes a placeholder to be patched with the offset of name.
func (w *Writer) WriteReference(name string) {
	w.refs = append(w.refs, reference{site: w.pos, label: name})
	w.reserve(RefSize)
}

// Append copies other's bytes to the end of w and moves its labels and
// pending references along with them. other must not be resolved.
func (w *Writer) Append(other *Writer) error {
	if other.resolved {
		return fmt.Errorf("append of a resolved writer")
	}
	for name := range other.labels {
		if _, ok := w.labels[name]; ok {
			return errkind.New(errkind.DuplicateLabel, "label %q defined twice", name)
		}
	}
	shift := len(w.buf)
	for name, off := range other.labels {
		w.labels[name] = off + shift
	}
	for _, r := range other.refs {
		w.refs = append(w.refs, reference{site: r.site + shift, label: r.label})
	}
	w.pos = shift
	w.WriteBytes(other.buf)
	return nil
}

// Resolve patches every reference site. If any label is missing or any
// reference would encode 0, nothing is patched and all problems are
// returned joined.
func (w *Writer) Resolve() error {
	var errs []error
	for _, r := range w.refs {
		off, ok := w.labels[r.label]
		if !ok {
			errs = append(errs, errkind.New(errkind.UnresolvedReference, "label %q is referenced at %d but never defined", r.label, r.site))
			continue
		}
		if off-w.base == 0 {
			errs = append(errs, errkind.New(errkind.NullReference, "label %q resolves to the base offset", r.label))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, r := range w.refs {
		w.order.PutUint32(w.buf[r.site:r.site+RefSize], uint32(int32(w.labels[r.label]-w.base)))
	}
	logging.Logger().Debug("references resolved", "labels", len(w.labels), "references", len(w.refs), "bytes", len(w.buf))
	w.refs = nil
	w.resolved = true
	return nil
}

// Bytes returns the underlying stream. Before Resolve the reference sites
// still hold zeros.
func (w *Writer) Bytes() []byte { return w.buf }

// Finalize resolves references and returns the finished stream.
func (w *Writer) Finalize() ([]byte, error) {
	if err := w.Resolve(); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// WriteTo resolves references and writes the stream to dst. Nothing is
// written when resolution fails.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	b, err := w.Finalize()
	if err != nil {
		return 0, err
	}
	n, err := dst.Write(b)
	return int64(n), err
}

// LabelNames returns defined label names ordered by offset, for diagnostics.
func (w *Writer) LabelNames() []string {
	names := make([]string, 0, len(w.labels))
	for name := range w.labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if w.labels[names[i]] != w.labels[names[j]] {
			return w.labels[names[i]] < w.labels[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
