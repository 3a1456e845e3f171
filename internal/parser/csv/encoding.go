package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// encodings maps accepted names (lowercased, "_" folded to "-") to decoders.
var encodings = map[string]encoding.Encoding{
	"latin-1":      charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-15":  charmap.ISO8859_15,
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
}

// LookupEncoding resolves an encoding name. Empty means latin-1.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if key == "" {
		return charmap.ISO8859_1, nil
	}
	enc, ok := encodings[key]
	if !ok {
		return nil, fmt.Errorf("csv: unsupported encoding %q", name)
	}
	return enc, nil
}

// NewDecodingReader wraps r so that it yields UTF-8 text decoded from the
// named encoding.
func NewDecodingReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
