package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:anonymized.db?cache=shared"
	//   ":memory:"
	DSN string

	// Table is the target table name, e.g. "tickets". Qualified names such as
	// "main.tickets" are quoted per segment.
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string
}
