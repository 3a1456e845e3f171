package builtin

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"anonymizer/internal/transformer"
	"anonymizer/pkg/records"
)

// Mapping maps original values of one column to their labels. Missing values
// map to themselves.
type Mapping map[any]any

// BuildMapping assigns "{prefix} {i+1}" to the value at position i of values.
// values is expected to be de-duplicated in first-seen order (see
// UniqueValues); if a value repeats, the later position wins.
func BuildMapping(values []any, prefix string) Mapping {
	m := make(Mapping, len(values))
	for i, v := range values {
		if records.IsMissing(v) {
			m[nil] = nil
			continue
		}
		m[v] = prefix + " " + strconv.Itoa(i+1)
	}
	return m
}

// Lookup returns the label for v. Missing values are returned unchanged;
// values absent from the mapping yield nil.
func (m Mapping) Lookup(v any) any {
	if records.IsMissing(v) {
		return v
	}
	if l, ok := m[v]; ok {
		return l
	}
	return nil
}

// UniqueValues returns the distinct values in first-occurrence order. All
// missing markers (nil, NaN) collapse into one entry at the position of the
// first one; NaN is never equal to itself and cannot key a map.
func UniqueValues(values []any) []any {
	seen := make(map[any]struct{}, len(values))
	out := make([]any, 0, len(values))
	for _, v := range values {
		k := v
		if records.IsMissing(v) {
			k = nil
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Pseudonymize replaces every value of Column with a stable label built from
// Prefix. Labels are numbered by first appearance in the column.
type Pseudonymize struct {
	Column string
	Prefix string
	// Summary receives the distinct label count.
	Summary *transformer.Summary
}

func (p Pseudonymize) Apply(t *records.Table) error {
	vals, err := t.Values(p.Column)
	if err != nil {
		return err
	}
	m := BuildMapping(UniqueValues(vals), p.Prefix)
	for _, r := range t.Rows {
		r[p.Column] = m.Lookup(r[p.Column])
	}
	labels := len(m)
	if _, ok := m[nil]; ok {
		labels--
	}
	p.Summary.SetLabels(p.Column, labels)
	log.Debug().Str("column", p.Column).Int("labels", labels).Msg("pseudonymize: column replaced")
	return nil
}
