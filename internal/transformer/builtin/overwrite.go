package builtin

import "anonymizer/pkg/records"

// Overwrite sets Column to Value on every row. An absent column is appended
// to the header.
type Overwrite struct {
	Column string
	Value  any
}

func (o Overwrite) Apply(t *records.Table) error {
	if !t.HasColumn(o.Column) {
		t.Columns = append(t.Columns, o.Column)
	}
	for _, r := range t.Rows {
		r[o.Column] = o.Value
	}
	return nil
}
