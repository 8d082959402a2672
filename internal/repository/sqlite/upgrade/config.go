package upgrade

import "fmt"

// JournalMode is one of SQLite's journaling modes. The set is closed: mode
// values are interpolated into pragma statements, which take no bind
// parameters, so only known members ever reach statement text.
type JournalMode string

const (
	JournalDelete   JournalMode = "delete"
	JournalTruncate JournalMode = "truncate"
	JournalPersist  JournalMode = "persist"
	JournalMemory   JournalMode = "memory"
	JournalWAL      JournalMode = "wal"
	JournalOff      JournalMode = "off"
)

// Valid reports whether m names a known journal mode.
func (m JournalMode) Valid() bool {
	switch m {
	case JournalDelete, JournalTruncate, JournalPersist, JournalMemory, JournalWAL, JournalOff:
		return true
	}
	return false
}

// DefaultPageSize is the page size requested by the post-upgrade vacuum
// unless configured otherwise. Large pages suit the recorder's mostly
// sequential, append-heavy access pattern.
const DefaultPageSize = 16384

// Config holds the read-only inputs of an upgrade run.
type Config struct {
	// SampleFileDir is the directory holding recordings' sample files.
	// Steps that reconcile database rows against files on disk read it;
	// it is never written.
	SampleFileDir string

	// PresetJournal is the journal mode used during the migration window.
	// Bulk schema rebuilds behave differently under WAL, so the preferred
	// steady-state mode is not forced until the run completes.
	PresetJournal JournalMode

	// SkipVacuum disables the post-upgrade vacuum.
	SkipVacuum bool

	// PageSize is the page size requested by the post-upgrade vacuum.
	// Zero means DefaultPageSize.
	PageSize int
}

// validate rejects configurations before any statement touches the database.
func (c *Config) validate() error {
	if !c.PresetJournal.Valid() {
		return fmt.Errorf("%w: journal mode %q", ErrBadConfig, c.PresetJournal)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("%w: page size %d", ErrBadConfig, c.PageSize)
	}
	return nil
}

func (c *Config) pageSize() int {
	if c.PageSize == 0 {
		return DefaultPageSize
	}
	return c.PageSize
}
