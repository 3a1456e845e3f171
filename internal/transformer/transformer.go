// Package transformer defines the table transformation contract shared by the
// builtin steps.
package transformer

import "anonymizer/pkg/records"

// Transformer rewrites a table in place. A returned error aborts the run; the
// table may have been partially rewritten by then.
type Transformer interface {
	Apply(t *records.Table) error
}

// Func adapts a plain function to Transformer.
type Func func(t *records.Table) error

func (f Func) Apply(t *records.Table) error { return f(t) }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each step in order and stops at the first error.
func (c Chain) Apply(t *records.Table) error {
	for _, tr := range c {
		if err := tr.Apply(t); err != nil {
			return err
		}
	}
	return nil
}

// Summary collects per-column counts reported by steps during a run. A nil
// *Summary discards everything.
type Summary struct {
	// DatesUnparsed counts non-empty cells that could not be parsed, per column.
	DatesUnparsed map[string]int
	// Labels counts distinct labels assigned, per pseudonymized column.
	Labels map[string]int
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{DatesUnparsed: map[string]int{}, Labels: map[string]int{}}
}

// AddUnparsed adds n unparseable cells for column.
func (s *Summary) AddUnparsed(column string, n int) {
	if s == nil || n == 0 {
		return
	}
	s.DatesUnparsed[column] += n
}

// SetLabels records the number of distinct labels assigned to column.
func (s *Summary) SetLabels(column string, n int) {
	if s == nil {
		return
	}
	s.Labels[column] = n
}

// TotalUnparsed sums DatesUnparsed.
func (s *Summary) TotalUnparsed() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, n := range s.DatesUnparsed {
		total += n
	}
	return total
}
