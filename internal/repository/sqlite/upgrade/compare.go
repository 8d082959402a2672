package upgrade

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// SchemaDiff structurally compares two open databases: every table, index,
// view, and trigger, keyed by name, with DDL text normalized for whitespace
// and identifier quoting. It returns an empty string when the schemas are
// identical, otherwise a human-readable description of the differences.
// Data is not compared.
func SchemaDiff(ctx context.Context, a, b *sql.DB) (string, error) {
	schemaA, err := readSchema(ctx, a)
	if err != nil {
		return "", fmt.Errorf("read first schema: %w", err)
	}
	schemaB, err := readSchema(ctx, b)
	if err != nil {
		return "", fmt.Errorf("read second schema: %w", err)
	}

	names := make(map[string]bool, len(schemaA)+len(schemaB))
	for name := range schemaA {
		names[name] = true
	}
	for name := range schemaB {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var diffs []string
	for _, name := range sorted {
		ddlA, inA := schemaA[name]
		ddlB, inB := schemaB[name]
		switch {
		case !inA:
			diffs = append(diffs, fmt.Sprintf("only in second: %s", name))
		case !inB:
			diffs = append(diffs, fmt.Sprintf("only in first: %s", name))
		case ddlA != ddlB:
			diffs = append(diffs, fmt.Sprintf("%s differs:\n  first:  %s\n  second: %s", name, ddlA, ddlB))
		}
	}
	return strings.Join(diffs, "\n"), nil
}

// readSchema maps "type/name" to normalized DDL for every user-defined
// schema object. SQLite's internal objects (auto-indexes, sequence tables)
// are skipped; they carry no DDL of their own.
func readSchema(ctx context.Context, sqlDB *sql.DB) (map[string]string, error) {
	rows, err := sqlDB.QueryContext(ctx, `
		SELECT type, name, sql FROM sqlite_master
		WHERE name NOT LIKE 'sqlite_%' AND sql IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schema := make(map[string]string)
	for rows.Next() {
		var objType, name, ddl string
		if err := rows.Scan(&objType, &name, &ddl); err != nil {
			return nil, err
		}
		schema[objType+"/"+name] = normalizeDDL(ddl)
	}
	return schema, rows.Err()
}

// normalizeDDL collapses whitespace runs and strips identifier quoting so
// that formatting differences between hand-written and engine-rewritten DDL
// do not register as structural changes.
func normalizeDDL(ddl string) string {
	ddl = strings.ReplaceAll(ddl, `"`, "")
	return strings.Join(strings.Fields(ddl), " ")
}
