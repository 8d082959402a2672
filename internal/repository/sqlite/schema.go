package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"
)

// ExpectedVersion is the schema version this build of the software expects.
// The upgrade chain must contain exactly this many steps.
const ExpectedVersion = 3

//go:embed schema.sql
var schemaSQL string

// Initialized reports whether the database contains a schema at all, keyed
// on the presence of the version table.
func (db *DB) Initialized(ctx context.Context) (bool, error) {
	var n int
	err := db.SqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'version'",
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check version table: %w", err)
	}
	return n > 0, nil
}

// Init creates a fresh schema directly at ExpectedVersion. It must only be
// called on an empty database; existing databases are carried forward by
// the upgrade chain instead.
func (db *DB) Init(ctx context.Context) error {
	tx, err := db.SqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin init transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO version (id, unix_time, notes) VALUES (?, ?, ?)",
		ExpectedVersion, time.Now().Unix(), "fresh install",
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// CurrentVersion returns the schema version recorded in the version log,
// the maximum id over all committed transitions.
func CurrentVersion(ctx context.Context, sqlDB *sql.DB) (int, error) {
	var v sql.NullInt64
	err := sqlDB.QueryRowContext(ctx, "SELECT MAX(id) FROM version").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if !v.Valid {
		return 0, fmt.Errorf("version table is empty")
	}
	return int(v.Int64), nil
}
