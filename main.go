// Command nightowl-db initializes or upgrades a recorder database.
//
// It is a one-shot tool: it opens the database, creates a fresh schema or
// carries an existing one forward to the expected version, and exits. The
// recorder itself must not be running against the same database; the
// upgrade engine requires exclusive ownership of the file.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/nightowl-nvr/nightowl/internal/repository/sqlite"
	"github.com/nightowl-nvr/nightowl/internal/repository/sqlite/upgrade"
)

type config struct {
	DatabasePath  string `env:"DATABASE_PATH" envDefault:"nightowl.db"`
	SampleFileDir string `env:"SAMPLE_FILE_DIR"`
	PresetJournal string `env:"PRESET_JOURNAL" envDefault:"delete"`
	SkipVacuum    bool   `env:"SKIP_VACUUM"`
	PageSize      int    `env:"PAGE_SIZE"`
}

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, logOpts)))

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	initialized, err := db.Initialized(ctx)
	if err != nil {
		slog.Error("failed to inspect database", "error", err)
		os.Exit(1)
	}
	if !initialized {
		if err := db.Init(ctx); err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		slog.Info("created fresh database", "path", cfg.DatabasePath, "version", sqlite.ExpectedVersion)
		return
	}

	upgradeCfg := upgrade.Config{
		SampleFileDir: cfg.SampleFileDir,
		PresetJournal: upgrade.JournalMode(cfg.PresetJournal),
		SkipVacuum:    cfg.SkipVacuum,
		PageSize:      cfg.PageSize,
	}
	if err := upgrade.Run(ctx, upgradeCfg, db.SqlDB); err != nil {
		slog.Error("database upgrade failed", "error", err)
		os.Exit(1)
	}
}
