package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nightowl-nvr/nightowl/internal/repository/sqlite"
	"github.com/nightowl-nvr/nightowl/internal/repository/sqlite/upgrade"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	// Verify the file was created.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}

	// Verify foreign keys are enabled.
	var fkEnabled int
	if err := db.SqlDB.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("check foreign_keys: %v", err)
	}
	if fkEnabled != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fkEnabled)
	}
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	initialized, err := db.Initialized(ctx)
	if err != nil {
		t.Fatalf("Initialized: %v", err)
	}
	if initialized {
		t.Fatal("empty database reported initialized")
	}

	if err := db.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	initialized, err = db.Initialized(ctx)
	if err != nil {
		t.Fatalf("Initialized: %v", err)
	}
	if !initialized {
		t.Fatal("database reported uninitialized after Init")
	}

	version, err := sqlite.CurrentVersion(ctx, db.SqlDB)
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version != sqlite.ExpectedVersion {
		t.Fatalf("fresh database at version %d, want %d", version, sqlite.ExpectedVersion)
	}
}

// A fresh install must be structurally identical to the version-3 schema
// the upgrade chain produces.
func TestInitMatchesVersion3Schema(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	if err := db.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	fixture := newTestDB(t)
	ddl, err := os.ReadFile(filepath.Join("upgrade", "testdata", "v3.sql"))
	if err != nil {
		t.Fatalf("read v3 fixture: %v", err)
	}
	if _, err := fixture.SqlDB.Exec(string(ddl)); err != nil {
		t.Fatalf("exec v3 fixture: %v", err)
	}

	diff, err := upgrade.SchemaDiff(ctx, db.SqlDB, fixture.SqlDB)
	if err != nil {
		t.Fatalf("SchemaDiff: %v", err)
	}
	if diff != "" {
		t.Fatalf("fresh install differs from v3 fixture:\n%s", diff)
	}
}
