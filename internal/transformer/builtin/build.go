// Package builtin contains the transformation steps a pipeline can name:
// parse_dates, pseudonymize, overwrite and normalize.
package builtin

import (
	"fmt"

	"anonymizer/internal/config"
	"anonymizer/internal/transformer"
)

// FromConfig builds a single transformer from its pipeline entry.
func FromConfig(tc config.Transform) (transformer.Transformer, error) {
	switch tc.Kind {
	case "parse_dates":
		cols := tc.Options.StringSlice("columns")
		if len(cols) == 0 {
			return nil, fmt.Errorf("parse_dates: no columns")
		}
		return ParseDates{Columns: cols, Layouts: tc.Options.StringSlice("layouts")}, nil
	case "pseudonymize":
		col, prefix := tc.Options.String("column", ""), tc.Options.String("prefix", "")
		if col == "" || prefix == "" {
			return nil, fmt.Errorf("pseudonymize: column and prefix are required")
		}
		return Pseudonymize{Column: col, Prefix: prefix}, nil
	case "overwrite":
		col := tc.Options.String("column", "")
		if col == "" {
			return nil, fmt.Errorf("overwrite: column is required")
		}
		return Overwrite{Column: col, Value: tc.Options.String("value", "")}, nil
	case "normalize":
		return Normalize{Columns: tc.Options.StringSlice("columns")}, nil
	}
	return nil, fmt.Errorf("unknown transform kind %q", tc.Kind)
}

// BuildChain builds the ordered chain for a pipeline's transform list. Steps
// that report counts write them to sum, which may be nil.
func BuildChain(ts []config.Transform, sum *transformer.Summary) (transformer.Chain, error) {
	chain := make(transformer.Chain, 0, len(ts))
	for i, tc := range ts {
		tr, err := FromConfig(tc)
		if err != nil {
			return nil, fmt.Errorf("transform[%d]: %w", i, err)
		}
		switch step := tr.(type) {
		case ParseDates:
			step.Summary = sum
			tr = step
		case Pseudonymize:
			step.Summary = sum
			tr = step
		}
		chain = append(chain, tr)
	}
	return chain, nil
}
