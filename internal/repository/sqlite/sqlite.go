package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nightowl-nvr/nightowl/internal/domain"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and exposes repositories over it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables foreign key enforcement and restricts the pool to a single
// connection; the recorder is the sole writer and the schema-upgrade engine
// depends on exclusive ownership of the handle. The journal mode is left as
// found on disk: the upgrade engine manages it around the migration window.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps session-scoped pragmas in force and keeps
	// transactions and pragma statements on the same underlying handle.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Close closes the underlying database handle.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Cameras returns the camera repository.
func (db *DB) Cameras() domain.CameraRepository {
	return &CameraRepository{db: db.SqlDB}
}

// Recordings returns the recording repository.
func (db *DB) Recordings() domain.RecordingRepository {
	return &RecordingRepository{db: db.SqlDB}
}

// Users returns the user repository.
func (db *DB) Users() domain.UserRepository {
	return &UserRepository{db: db.SqlDB}
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
