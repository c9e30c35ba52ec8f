// Package saver turns decoded frames into the files players load: the
// SSBA binary, canvas tables in JSON or JavaScript, and a YAML dump for
// inspection.
package saver

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/errkind"
	"github.com/ivlev/ssconv/internal/motion"
)

// Saver writes one motion in a target format.
type Saver interface {
	// Decoding returns the decoder options frames must be produced with.
	Decoding() decoder.Options
	// Save writes the whole artifact. frames[i] holds the sorted records
	// of frame i.
	Save(ctx context.Context, w io.Writer, m *motion.Motion, frames [][]decoder.FrameParam) error
}

// Options are shared by every format; each saver reads what applies.
type Options struct {
	// Prefix names labels and variables. Empty means the motion name.
	Prefix string
	// Creator is embedded as a comment or a header string.
	Creator string
	// Encoding of names and text output: utf8, utf8-bom or sjis.
	Encoding string
	BigEndian bool
	// AffineTransformation leaves composition to the player: frames are
	// decoded without the cascade and invisible parts are kept.
	AffineTransformation bool
	// KeepImagePaths writes image paths as given instead of the file name.
	KeepImagePaths bool
	// NoSuffix drops the _animation suffix of the JavaScript variable.
	NoSuffix   bool
	RootOrigin bool
	// Workers bounds parallel frame encoding. <= 0 means GOMAXPROCS.
	Workers int
}

func (o Options) prefix(m *motion.Motion) string {
	if o.Prefix != "" {
		return o.Prefix
	}
	return m.Name
}

type factory func(opts Options, enc Encoding) Saver

var formats = map[string]struct {
	ext   string
	about string
	new   factory
}{
	"ssba": {".ssba", "binary frame records for the native player", func(o Options, e Encoding) Saver { return newSSBASaver(o, e) }},
	"json": {".json", "canvas player data as a JSON document", func(o Options, e Encoding) Saver { return newCanvasSaver(o, e, true) }},
	"js":   {".js", "canvas player data as a JavaScript variable", func(o Options, e Encoding) Saver { return newCanvasSaver(o, e, false) }},
	"yaml": {".yaml", "decoded frames dumped for inspection", func(o Options, e Encoding) Saver { return newDumpSaver(o) }},
}

// New returns the saver for format.
func New(format string, opts Options) (Saver, error) {
	f, ok := formats[strings.ToLower(format)]
	if !ok {
		return nil, errkind.New(errkind.UnknownFormat, "unknown output format: %s", format)
	}
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return f.new(opts, enc), nil
}

// Extension returns the file extension of format, dot included.
func Extension(format string) string {
	return formats[strings.ToLower(format)].ext
}

// Describe returns a one-line summary of format, or "" if it is unknown.
func Describe(format string) string {
	return formats[strings.ToLower(format)].about
}

// Formats lists the known format names.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
