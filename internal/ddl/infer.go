package ddl

import (
	"time"

	"anonymizer/pkg/records"
)

// InferKinds classifies each column of t by its present values: all
// time.Time is KindTimestamp, all int64 is KindInteger, any mix of int64 and
// float64 is KindReal. Columns with no present value, or any other value, are
// KindText.
func InferKinds(t *records.Table) map[string]Kind {
	kinds := make(map[string]Kind, len(t.Columns))
	for _, c := range t.Columns {
		kinds[c] = columnKind(t, c)
	}
	return kinds
}

func columnKind(t *records.Table, c string) Kind {
	var stamps, ints, floats, other int
	for _, r := range t.Rows {
		switch r[c].(type) {
		case nil:
		case time.Time:
			if records.IsMissing(r[c]) {
				continue
			}
			stamps++
		case int64:
			ints++
		case float64:
			if records.IsMissing(r[c]) {
				continue
			}
			floats++
		default:
			other++
		}
	}
	switch {
	case other > 0:
		return KindText
	case stamps > 0 && ints+floats == 0:
		return KindTimestamp
	case stamps > 0:
		return KindText
	case ints > 0 && floats == 0:
		return KindInteger
	case floats > 0:
		return KindReal
	}
	return KindText
}

// FromTable builds a nullable TableDef for t using the dialect's types.
func FromTable(fqn string, t *records.Table, types TypeMap) TableDef {
	kinds := InferKinds(t)
	td := TableDef{FQN: fqn, Columns: make([]ColumnDef, 0, len(t.Columns))}
	for _, c := range t.Columns {
		td.Columns = append(td.Columns, ColumnDef{
			Name:     c,
			SQLType:  types.sqlType(kinds[c]),
			Nullable: true,
		})
	}
	return td
}
