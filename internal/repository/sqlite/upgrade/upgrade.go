// Package upgrade carries a deployed recorder database forward to the
// schema version the running software expects.
//
// Each version transition is one step executed inside its own transaction;
// the version-log row for the new version commits atomically with the
// step's schema changes. The log's max id is the authoritative version, so
// a failed or interrupted run leaves the database at its last good version
// and a re-run resumes from there.
package upgrade

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/nightowl-nvr/nightowl/internal/repository/sqlite"
)

// A step moves the schema from one version to the next. It performs all of
// its changes through the supplied transaction and never commits; the
// orchestrator alone decides whether the transition lands.
type step func(ctx context.Context, cfg *Config, tx *sql.Tx) error

// steps is the fixed upgrade chain, indexed by the version each step
// upgrades from. Its length must equal sqlite.ExpectedVersion.
var steps = []step{
	v0ToV1,
	v1ToV2,
	v2ToV3,
}

// Run upgrades the database behind sqlDB to sqlite.ExpectedVersion.
//
// On success the schema is at the expected version, the journal is in WAL
// mode for steady-state operation, and (unless skipped) the file has been
// vacuumed at the configured page size. On failure the database remains at
// the last successfully committed version; the durability pragmas forced
// for the migration window are not restored.
func Run(ctx context.Context, cfg Config, sqlDB *sql.DB) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if len(steps) != sqlite.ExpectedVersion {
		return fmt.Errorf("upgrade chain has %d steps, expected %d", len(steps), sqlite.ExpectedVersion)
	}

	// Validate the version range before any pragma or transaction touches
	// the connection.
	oldVersion, err := sqlite.CurrentVersion(ctx, sqlDB)
	if err != nil {
		return err
	}
	if err := checkVersion(oldVersion); err != nil {
		return err
	}

	if err := forceDurability(ctx, sqlDB); err != nil {
		return err
	}
	if _, err := setJournalMode(ctx, sqlDB, cfg.PresetJournal); err != nil {
		return err
	}

	if err := apply(ctx, &cfg, sqlite.ExpectedVersion, sqlDB); err != nil {
		return err
	}

	// The vacuum must precede the switch to WAL: SQLite cannot change the
	// page size of a database once it is in WAL mode.
	if !cfg.SkipVacuum {
		slog.Info("vacuuming database after upgrade", "page_size", cfg.pageSize())
		if err := compact(ctx, sqlDB, cfg.pageSize()); err != nil {
			// The upgrade itself is committed; only the rebuild failed.
			return fmt.Errorf("compact after upgrade: %w", err)
		}
	}
	if _, err := setJournalMode(ctx, sqlDB, JournalWAL); err != nil {
		return err
	}

	slog.Info("database upgrade complete", "version", sqlite.ExpectedVersion)
	return nil
}

// apply runs every step in [current version, target), committing one
// version-log row per transition.
func apply(ctx context.Context, cfg *Config, target int, sqlDB *sql.DB) error {
	oldVersion, err := sqlite.CurrentVersion(ctx, sqlDB)
	if err != nil {
		return err
	}
	if err := checkVersion(oldVersion); err != nil {
		return err
	}
	if oldVersion >= target {
		slog.Info("database schema is up to date", "version", oldVersion)
		return nil
	}

	slog.Info("upgrading database", "from", oldVersion, "to", target)
	notes := buildNote()
	for v := oldVersion; v < target; v++ {
		slog.Info("running upgrade step", "from", v, "to", v+1)
		if err := applyOne(ctx, cfg, v, sqlDB, notes); err != nil {
			return &StepError{From: v, Err: err}
		}
	}
	return nil
}

func applyOne(ctx context.Context, cfg *Config, v int, sqlDB *sql.DB, notes string) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := steps[v](ctx, cfg, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO version (id, unix_time, notes) VALUES (?, ?, ?)",
		v+1, time.Now().Unix(), notes,
	); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	return tx.Commit()
}

func checkVersion(observed int) error {
	if observed > sqlite.ExpectedVersion {
		return fmt.Errorf("%w: database at version %d, software expects %d",
			ErrVersionTooNew, observed, sqlite.ExpectedVersion)
	}
	if observed < 0 {
		return fmt.Errorf("%w: version %d", ErrVersionCorrupt, observed)
	}
	return nil
}

// compact rebuilds the database file at the requested page size, reclaiming
// space freed by upgrade DDL. VACUUM cannot run inside a transaction, so it
// runs only after every version-log write has committed.
func compact(ctx context.Context, sqlDB *sql.DB, pageSize int) error {
	if _, err := sqlDB.ExecContext(ctx, fmt.Sprintf("PRAGMA page_size=%d", pageSize)); err != nil {
		return fmt.Errorf("set page_size: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// buildNote identifies the build that performed an upgrade in the version
// log's notes column.
func buildNote() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return "upgraded using nightowl-db " + info.Main.Version
	}
	return "upgraded using nightowl-db"
}
