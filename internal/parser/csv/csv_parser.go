// Package csv parses a delimited export into a records.Table. The whole input
// is read into memory; exports are small enough that streaming buys nothing.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"anonymizer/internal/config"
	"anonymizer/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// Encoding names the source text encoding. Empty means latin-1.
	Encoding string

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// LazyQuotes relaxes quote handling for exports with stray quotes.
	LazyQuotes bool

	// HeaderMap renames source headers before they reach the table.
	HeaderMap map[string]string

	// NoDefaultNA stops DefaultNAValues from being read as missing. Empty
	// fields are always missing.
	NoDefaultNA bool

	// NAValues are extra tokens read as missing.
	NAValues []string

	// KeepText leaves every present value as a string instead of converting
	// numeric columns.
	KeepText bool
}

// OptionsFromConfig maps a pipeline's source and parser blocks onto Options.
func OptionsFromConfig(src config.SourceFile, p config.Parser) Options {
	hm := p.Options.StringMap("header_map")
	if len(hm) == 0 {
		hm = nil
	}
	return Options{
		Comma:      p.Options.Rune("comma", ','),
		Encoding:   src.Encoding,
		TrimSpace:  p.Options.Bool("trim_space", false),
		LazyQuotes: p.Options.Bool("lazy_quotes", false),
		HeaderMap:  hm,

		NoDefaultNA: !p.Options.Bool("keep_default_na", true),
		NAValues:    p.Options.StringSlice("na_values"),
		KeepText:    !p.Options.Bool("infer_numeric", true),
	}
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// ErrEmptyInput is returned when the input has no header row.
var ErrEmptyInput = errors.New("csv: input has no header row")

// Parse decodes r with the configured encoding and reads the header plus all
// rows. Empty fields and NA tokens become nil (missing). Rows shorter than the
// header are padded with nil. A row wider than the header, or one the CSV
// reader rejects, aborts the parse: a dropped row would silently lose a
// ticket. Unless KeepText is set, columns whose present values are all numeric
// are converted (see ConvertNumeric).
func (p *Parser) Parse(r io.Reader) (*records.Table, error) {
	dr, err := NewDecodingReader(r, p.opt.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dr)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt)
	na := p.naSet()

	t := &records.Table{Columns: headers}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if len(row) > len(headers) {
			return nil, fmt.Errorf("read csv line %d: %w", line, &FieldCountError{Line: line, Want: len(headers), Got: len(row)})
		}

		rec := make(records.Record, len(headers))
		for i, col := range headers {
			if i >= len(row) {
				rec[col] = nil
				continue
			}
			val := row[i]
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			if _, missing := na[val]; missing {
				rec[col] = nil
				continue
			}
			rec[col] = val
		}
		t.Rows = append(t.Rows, rec)
	}

	if !p.opt.KeepText {
		if conv := ConvertNumeric(t); len(conv) > 0 {
			log.Debug().Strs("columns", conv).Msg("csv: numeric columns")
		}
	}
	return t, nil
}

// FieldCountError reports a data row with more fields than the header.
type FieldCountError struct {
	Line, Want, Got int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("expected %d fields, saw %d", e.Want, e.Got)
}

func (p *Parser) naSet() map[string]struct{} {
	set := map[string]struct{}{"": {}}
	if !p.opt.NoDefaultNA {
		for _, v := range DefaultNAValues {
			set[v] = struct{}{}
		}
	}
	for _, v := range p.opt.NAValues {
		set[v] = struct{}{}
	}
	return set
}

// normalizeHeaders strips the BOM and surrounding spaces, applies HeaderMap,
// and disambiguates repeated names as "name.1", "name.2", ...
func normalizeHeaders(h []string, opt Options) []string {
	h = StripHeaderBOM(h)
	res := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if m, ok := opt.HeaderMap[c]; ok {
			c = m
		}
		if c == "" {
			c = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[c]; dup {
			seen[c] = n + 1
			c = c + "." + strconv.Itoa(n+1)
		} else {
			seen[c] = 0
		}
		res[i] = c
	}
	return res
}
