package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schemas/*.sql
var schemaFS embed.FS

// Schema kinds accepted by Schema and ApplySchema
const (
	SchemaFull    = "full"
	SchemaTables  = "tables"
	SchemaIndexes = "indexes"
)

// Schema returns the DDL of one kind for a dialect name (postgres or mysql)
func Schema(dialect, kind string) (string, error) {
	d, err := DialectFor(dialect)
	if err != nil {
		return "", err
	}

	var files []string
	switch kind {
	case SchemaFull, "":
		files = []string{d.Name + ".sql", d.Name + "_indexes.sql"}
	case SchemaTables:
		files = []string{d.Name + ".sql"}
	case SchemaIndexes:
		files = []string{d.Name + "_indexes.sql"}
	default:
		return "", fmt.Errorf("unknown schema type %q (valid: full, tables, indexes)", kind)
	}

	var sb strings.Builder
	for i, f := range files {
		content, err := schemaFS.ReadFile("schemas/" + f)
		if err != nil {
			return "", fmt.Errorf("reading schema %s: %w", f, err)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.Write(content)
	}
	return sb.String(), nil
}

// Statements splits DDL into individual statements, dropping comments and
// blank lines. Statements end with a semicolon at end of line.
func Statements(ddl string) []string {
	var stmts []string
	var cur strings.Builder
	for _, line := range strings.Split(ddl, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			stmts = append(stmts, stmt)
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}

// ApplySchema executes the DDL of one kind against the pool, one statement
// at a time
func ApplySchema(ctx context.Context, pool *Pool, kind string) error {
	ddl, err := Schema(pool.Dialect().Name, kind)
	if err != nil {
		return err
	}
	for _, stmt := range Statements(ddl) {
		if _, err := pool.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w\n%s", err, stmt)
		}
	}
	return nil
}
