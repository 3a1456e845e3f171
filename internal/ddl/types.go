package ddl

// ColumnDef describes a single column in a table definition. Name is the
// logical (unquoted) name; quoting happens at render time.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the table name (optionally "schema.table") and an ordered
// list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Kind is the logical type of a column as seen in a loaded table.
type Kind int

const (
	// KindText covers labels, placeholders and any untouched source column.
	KindText Kind = iota
	// KindTimestamp marks columns whose present values are all time.Time.
	KindTimestamp
	// KindInteger marks columns whose present values are all int64.
	KindInteger
	// KindReal marks columns mixing int64 and float64, or all float64.
	KindReal
)

// TypeMap maps logical kinds to a dialect's SQL types.
// An empty entry falls back to Text.
type TypeMap struct {
	Text      string
	Timestamp string
	Integer   string
	Real      string
}

func (m TypeMap) sqlType(k Kind) string {
	var s string
	switch k {
	case KindTimestamp:
		s = m.Timestamp
	case KindInteger:
		s = m.Integer
	case KindReal:
		s = m.Real
	}
	if s == "" {
		return m.Text
	}
	return s
}
