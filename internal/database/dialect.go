package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported databases
type Dialect struct {
	// Name is the schema flavor: postgres or mysql
	Name string
	// Driver is the database/sql driver name
	Driver string
	// Returning reports support for INSERT ... RETURNING
	Returning bool
	// MaxParams is the bind-parameter limit of one statement
	MaxParams int

	numbered bool
}

var (
	Postgres = Dialect{Name: "postgres", Driver: "pgx", Returning: true, MaxParams: 65535, numbered: true}
	MySQL    = Dialect{Name: "mysql", Driver: "mysql", Returning: false, MaxParams: 65535}
)

// DialectFor resolves a driver or dialect name. Empty means postgres.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "pgx", "postgres", "postgresql":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database dialect %q (want postgres or mysql)", name)
	}
}

// Placeholder returns the bind marker for the n-th (1-based) parameter
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// valuesClause writes "(p1, p2), (p3, p4)" for rows x cols parameters
// starting at parameter number first.
func (d Dialect) valuesClause(sb *strings.Builder, rows, cols, first int) {
	n := first
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
}

// InsertSQL builds a multi-row INSERT for table. With RETURNING support the
// statement returns the id and, when the table has one, the ref column.
func (d Dialect) InsertSQL(t Table, rows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(t.Name)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(t.Columns, ", "))
	sb.WriteString(") VALUES ")
	d.valuesClause(&sb, rows, len(t.Columns), 1)
	if d.Returning {
		sb.WriteString(" RETURNING id")
		if t.RefColumn != "" {
			sb.WriteString(", ")
			sb.WriteString(t.RefColumn)
		}
	}
	return sb.String()
}

// SelectByRefSQL builds the id lookup used after an insert when RETURNING
// is not available.
func (d Dialect) SelectByRefSQL(t Table, refs int) string {
	var sb strings.Builder
	sb.WriteString("SELECT id, ")
	sb.WriteString(t.RefColumn)
	sb.WriteString(" FROM ")
	sb.WriteString(t.Name)
	sb.WriteString(" WHERE ")
	sb.WriteString(t.RefColumn)
	sb.WriteString(" IN (")
	for i := 0; i < refs; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.Placeholder(i + 1))
	}
	sb.WriteByte(')')
	return sb.String()
}

// LookupSQL builds a single-column equality lookup returning one id
func (d Dialect) LookupSQL(table, column string) string {
	return fmt.Sprintf("SELECT id FROM %s WHERE %s = %s ORDER BY id LIMIT 1", table, column, d.Placeholder(1))
}

// RowsPerStatement returns how many rows of width cols fit under the
// parameter limit, capped at limit.
func (d Dialect) RowsPerStatement(cols, limit int) int {
	if cols <= 0 {
		return limit
	}
	n := d.MaxParams / cols
	if n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}
	return n
}
