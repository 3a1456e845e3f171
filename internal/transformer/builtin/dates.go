package builtin

import (
	"time"

	"github.com/rs/zerolog/log"

	"anonymizer/internal/transformer"
	"anonymizer/pkg/records"
)

// DefaultDateLayouts are tried in order; the first successful parse wins.
// Every numeric field except the year accepts one or two digits.
var DefaultDateLayouts = []string{
	"2/1/2006 15:4:5",
	"2/1/2006 15:4",
	"2006-1-2 15:4:5",
}

// ParseDate converts a date-like value to a time.Time using
// DefaultDateLayouts. Missing, empty, non-text and unparseable values yield
// nil. It never fails.
func ParseDate(v any) any {
	return ParseDateWith(v, DefaultDateLayouts)
}

// ParseDateWith is ParseDate with an explicit layout list.
func ParseDateWith(v any, layouts []string) any {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x
	case string:
		if t, ok := ParseDateString(x, layouts); ok {
			return t
		}
	}
	return nil
}

// ParseDateString tries layouts in order against s.
func ParseDateString(s string, layouts []string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDates replaces every value of Columns with its parsed timestamp, or nil
// when it cannot be parsed.
type ParseDates struct {
	Columns []string

	// Layouts overrides DefaultDateLayouts when non-empty.
	Layouts []string
	// Summary receives the unparsed cell count per column.
	Summary *transformer.Summary
}

func (p ParseDates) Apply(t *records.Table) error {
	if err := t.RequireColumns(p.Columns...); err != nil {
		return err
	}
	layouts := p.Layouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	for _, col := range p.Columns {
		unparsed := 0
		for _, r := range t.Rows {
			v := r[col]
			out := ParseDateWith(v, layouts)
			if out == nil && !isBlank(v) {
				unparsed++
			}
			r[col] = out
		}
		p.Summary.AddUnparsed(col, unparsed)
		if unparsed > 0 {
			log.Warn().Str("column", col).Int("cells", unparsed).Msg("dates: unparseable values set to missing")
		}
	}
	return nil
}

// isBlank reports whether v was already missing before parsing.
func isBlank(v any) bool {
	if s, ok := v.(string); ok {
		return s == ""
	}
	return records.IsMissing(v)
}
