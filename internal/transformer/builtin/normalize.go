package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"anonymizer/pkg/records"
)

// Normalize cleans text cells. It applies NFC, turns non-breaking spaces
// (including the "Â" + NBSP pair left by a UTF-8 NBSP read as latin-1) into
// plain spaces, trims, and turns cells that end up empty into nil. With no
// Columns it touches every column.
type Normalize struct {
	Columns []string
}

func (n Normalize) Apply(t *records.Table) error {
	cols := n.Columns
	if len(cols) == 0 {
		cols = t.Columns
	} else if err := t.RequireColumns(cols...); err != nil {
		return err
	}

	for _, r := range t.Rows {
		for _, c := range cols {
			s, ok := r[c].(string)
			if !ok {
				continue
			}
			s = norm.NFC.String(s)
			s = strings.ReplaceAll(s, "\u00c2\u00a0", " ")
			s = strings.ReplaceAll(s, "\u00a0", " ")
			s = strings.TrimSpace(s)
			r[c] = emptyToNil(s)
		}
	}
	return nil
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
