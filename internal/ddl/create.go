// Package ddl defines a small, backend-agnostic model for CREATE TABLE
// statements and a renderer parameterized by the dialect's identifier quoting.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect carries the backend-specific rendering choices.
type Dialect struct {
	// Quote quotes a single identifier segment.
	Quote func(string) string

	// IfNotExists emits CREATE TABLE IF NOT EXISTS.
	IfNotExists bool
}

// QuoteFQN quotes each dot-separated segment of name with d.Quote.
func (d Dialect) QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.Quote(p))
	}
	return strings.Join(out, ".")
}

// BuildCreateTableSQL renders:
//
//	CREATE TABLE [IF NOT EXISTS] <fqn> (
//	  <col> <type> [NOT NULL],
//	  ...
//	)
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	if strings.TrimSpace(t.FQN) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", t.FQN)
		}
		if strings.TrimSpace(c.SQLType) == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", c.Name)
		}
		col := d.Quote(c.Name) + " " + c.SQLType
		if !c.Nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}

	head := "CREATE TABLE "
	if d.IfNotExists {
		head += "IF NOT EXISTS "
	}
	return fmt.Sprintf("%s%s (\n  %s\n)", head, d.QuoteFQN(t.FQN), strings.Join(cols, ",\n  ")), nil
}

// QuoteDouble is ANSI identifier quoting ("name").
func QuoteDouble(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// QuoteBracket is SQL Server identifier quoting ([name]).
func QuoteBracket(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// QuoteBacktick is MySQL identifier quoting (`name`).
func QuoteBacktick(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
