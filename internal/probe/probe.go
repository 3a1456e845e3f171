// Package probe inspects a loaded export before anonymizing it. It infers a
// kind for every column, reports which columns the pipeline requires but the
// export lacks, and can suggest a pipeline whose parse_dates step matches the
// timestamp columns actually found.
package probe

import (
	"fmt"
	"strings"

	"anonymizer/internal/config"
	"anonymizer/internal/parser/csv"
	"anonymizer/internal/transformer/builtin"
	"anonymizer/pkg/records"
)

// Column kinds reported by Probe.
const (
	KindEmpty     = "empty"
	KindInteger   = "integer"
	KindReal      = "real"
	KindTimestamp = "timestamp"
	KindText      = "text"
)

// Column summarizes one header column.
type Column struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Missing  int    `json:"missing"`
	Distinct int    `json:"distinct"`
	// Sample is the first present value, as text.
	Sample string `json:"sample,omitempty"`
}

// Report is the result of probing a table against a pipeline.
type Report struct {
	Rows    int      `json:"rows"`
	Columns []Column `json:"columns"`

	// MissingColumns are required by a transform but absent from the header.
	MissingColumns []string `json:"missing_columns,omitempty"`

	// UnlistedTimestamps look like timestamps but no parse_dates step names them.
	UnlistedTimestamps []string `json:"unlisted_timestamps,omitempty"`
}

// Options controls sampling.
type Options struct {
	// SampleRows bounds how many rows are inspected for kind inference.
	// Zero inspects all rows.
	SampleRows int

	// Layouts are the timestamp layouts tried; empty means
	// builtin.DefaultDateLayouts.
	Layouts []string
}

// Probe inspects t against the transforms of p.
func Probe(t *records.Table, p config.Pipeline, opt Options) Report {
	layouts := opt.Layouts
	if len(layouts) == 0 {
		layouts = builtin.DefaultDateLayouts
	}
	rows := t.Rows
	if opt.SampleRows > 0 && len(rows) > opt.SampleRows {
		rows = rows[:opt.SampleRows]
	}

	rep := Report{Rows: t.Len()}
	for _, name := range t.Columns {
		rep.Columns = append(rep.Columns, inspectColumn(name, t.Rows, rows, layouts))
	}

	listed := map[string]bool{}
	for _, c := range RequiredColumns(p.Transform) {
		if !t.HasColumn(c) {
			rep.MissingColumns = append(rep.MissingColumns, c)
		}
	}
	for _, tr := range p.Transform {
		if tr.Kind == "parse_dates" {
			for _, c := range tr.Options.StringSlice("columns") {
				listed[c] = true
			}
		}
	}
	for _, c := range rep.Columns {
		if c.Kind == KindTimestamp && !listed[c.Name] {
			rep.UnlistedTimestamps = append(rep.UnlistedTimestamps, c.Name)
		}
	}
	return rep
}

// RequiredColumns returns the distinct columns ts fails without, in first
// reference order. Overwrite steps create their column, so they require
// nothing.
func RequiredColumns(ts []config.Transform) []string {
	var out []string
	seen := map[string]bool{}
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, tr := range ts {
		switch tr.Kind {
		case "parse_dates", "normalize":
			for _, c := range tr.Options.StringSlice("columns") {
				add(c)
			}
		case "pseudonymize":
			add(tr.Options.String("column", ""))
		}
	}
	return out
}

// Suggest returns a copy of p whose parse_dates steps name exactly the
// timestamp columns found in rep, and whose pseudonymize steps are limited to
// columns that exist.
func Suggest(p config.Pipeline, rep Report) config.Pipeline {
	present := map[string]bool{}
	var stamps []string
	for _, c := range rep.Columns {
		present[c.Name] = true
		if c.Kind == KindTimestamp {
			stamps = append(stamps, c.Name)
		}
	}

	out := p
	out.Transform = nil
	datesDone := false
	for _, tr := range p.Transform {
		switch tr.Kind {
		case "parse_dates":
			if datesDone || len(stamps) == 0 {
				continue
			}
			datesDone = true
			out.Transform = append(out.Transform, config.Transform{
				Kind:    tr.Kind,
				Options: config.Options{"columns": append([]string(nil), stamps...)},
			})
		case "pseudonymize":
			if !present[tr.Options.String("column", "")] {
				continue
			}
			out.Transform = append(out.Transform, tr)
		default:
			out.Transform = append(out.Transform, tr)
		}
	}
	if !datesDone && len(stamps) > 0 {
		out.Transform = append([]config.Transform{{
			Kind:    "parse_dates",
			Options: config.Options{"columns": stamps},
		}}, out.Transform...)
	}
	return out
}

func inspectColumn(name string, all, sample []records.Record, layouts []string) Column {
	col := Column{Name: name}
	distinct := map[string]struct{}{}
	for _, r := range all {
		v := r[name]
		if records.IsMissing(v) {
			col.Missing++
			continue
		}
		s := valueString(v)
		if col.Sample == "" {
			col.Sample = s
		}
		distinct[s] = struct{}{}
	}
	col.Distinct = len(distinct)

	var values []string
	for _, r := range sample {
		if v := r[name]; !records.IsMissing(v) {
			if s := strings.TrimSpace(valueString(v)); s != "" {
				values = append(values, s)
			}
		}
	}
	col.Kind = inferKind(values, layouts)
	return col
}

// inferKind requires every non-empty value to satisfy the narrower kind.
func inferKind(values []string, layouts []string) string {
	if len(values) == 0 {
		return KindEmpty
	}
	if allMatch(values, csv.IsInteger) {
		return KindInteger
	}
	if allMatch(values, csv.IsNumber) {
		return KindReal
	}
	if allMatch(values, func(s string) bool {
		_, ok := builtin.ParseDateString(s, layouts)
		return ok
	}) {
		return KindTimestamp
	}
	return KindText
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func valueString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
