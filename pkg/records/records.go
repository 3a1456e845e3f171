// Package records holds the in-memory table model shared by the parser, the
// transformers and the output sinks.
//
// A Table is an ordered header plus ordered rows. Each row is a Record keyed
// by column name. Missing values are represented by nil; an empty string is a
// real (present) value.
package records

import (
	"fmt"
	"math"
	"time"
)

// Record is a single row keyed by column name. Values are string, time.Time,
// numeric, or nil (missing).
type Record map[string]any

// Table is an ordered set of records sharing one header.
type Table struct {
	// Columns is the header in source order. Sinks write columns in this order.
	Columns []string

	// Rows are the records in source order.
	Rows []Record
}

// MissingColumnError reports that a column referenced by a transform or sink
// is not present in the table header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// HasColumn reports whether name is part of the header.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RequireColumns returns a *MissingColumnError for the first name that is not
// in the header, or nil when all are present.
func (t *Table) RequireColumns(names ...string) error {
	for _, n := range names {
		if !t.HasColumn(n) {
			return &MissingColumnError{Column: n}
		}
	}
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Values returns the column's values in row order. Rows that lack the key
// yield nil.
func (t *Table) Values(column string) ([]any, error) {
	if !t.HasColumn(column) {
		return nil, &MissingColumnError{Column: column}
	}
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[column]
	}
	return out, nil
}

// Matrix returns the rows projected onto columns, in row order. It is the
// shape bulk loaders consume.
func (t *Table) Matrix(columns []string) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = r[c]
		}
		out[i] = row
	}
	return out
}

// IsMissing reports whether v is the missing marker: nil, a NaN float, or a
// zero time.Time.
func IsMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	case time.Time:
		return t.IsZero()
	}
	return false
}
