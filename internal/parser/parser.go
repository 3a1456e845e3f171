// Package parser turns raw source bytes into a records.Table.
package parser

import (
	"fmt"
	"io"

	"anonymizer/internal/config"
	"anonymizer/internal/parser/csv"
	"anonymizer/pkg/records"
)

// Parser turns raw source bytes into a table. A malformed row fails the
// whole parse.
type Parser interface {
	Parse(r io.Reader) (*records.Table, error)
}

// FromConfig returns the parser selected by p.Parser.Kind.
func FromConfig(p config.Pipeline) (Parser, error) {
	switch p.Parser.Kind {
	case "csv":
		return csv.NewParser(csv.OptionsFromConfig(p.Source.File, p.Parser)), nil
	default:
		return nil, fmt.Errorf("unsupported parser kind %q", p.Parser.Kind)
	}
}
