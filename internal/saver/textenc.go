package saver

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ivlev/ssconv/internal/encoder"
	"github.com/ivlev/ssconv/internal/errkind"
)

// Encoding converts document strings to the output character set.
type Encoding struct {
	Name string
	// names encodes single strings, file encodes a whole text stream and
	// may add a byte order mark.
	names encoding.Encoding
	file  encoding.Encoding
}

// LookupEncoding resolves an encoding name. Empty means utf8.
func LookupEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf8", "utf-8", "utf8n":
		return Encoding{Name: "utf8", names: unicode.UTF8, file: unicode.UTF8}, nil
	case "utf8-bom", "utf-8-bom":
		return Encoding{Name: "utf8-bom", names: unicode.UTF8, file: unicode.UTF8BOM}, nil
	case "sjis", "shift-jis", "shiftjis", "cp932":
		return Encoding{Name: "sjis", names: japanese.ShiftJIS, file: japanese.ShiftJIS}, nil
	}
	return Encoding{}, errkind.New(errkind.UnknownFormat, "unknown text encoding: %s", name)
}

// String encodes s.
func (e Encoding) String(s string) (string, error) {
	out, err := e.names.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("encode %q as %s: %w", s, e.Name, err)
	}
	return out, nil
}

// TextEncoder adapts the encoding for user-data strings.
func (e Encoding) TextEncoder() encoder.TextEncoder {
	return func(s string) ([]byte, error) {
		out, err := e.String(s)
		return []byte(out), err
	}
}

// Writer encodes everything written to w. Close flushes it but leaves w
// open.
func (e Encoding) Writer(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, e.file.NewEncoder())
}
