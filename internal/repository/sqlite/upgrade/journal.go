package upgrade

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// forceDurability applies the conservative settings every upgrade runs
// under, regardless of how the database is configured for normal operation.
// Migration is rare and schema-mutating, so correctness wins over
// throughput here.
func forceDurability(ctx context.Context, sqlDB *sql.DB) error {
	for _, pragma := range []string{
		// Immediate foreign keys; steps are careful about operation order.
		"PRAGMA foreign_keys=ON",
		// Full fsync on every commit, and the platform-level variant on
		// systems that have one.
		"PRAGMA synchronous=FULL",
		"PRAGMA fullfsync=ON",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

// setJournalMode asks SQLite for the requested journal mode and returns the
// mode actually granted. Engine builds vary in which modes they support; a
// mismatch is logged and the granted mode is what the run relies on.
func setJournalMode(ctx context.Context, sqlDB *sql.DB, requested JournalMode) (string, error) {
	if !requested.Valid() {
		return "", fmt.Errorf("%w: journal mode %q", ErrBadConfig, requested)
	}
	var actual string
	err := sqlDB.QueryRowContext(ctx, "PRAGMA journal_mode="+string(requested)).Scan(&actual)
	if err != nil {
		return "", fmt.Errorf("set journal_mode %s: %w", requested, err)
	}
	if actual != string(requested) {
		slog.Warn("journal mode differs from requested", "requested", requested, "actual", actual)
	} else {
		slog.Info("journal mode set", "mode", actual)
	}
	return actual, nil
}
