package upgrade

import (
	"errors"
	"fmt"
)

var (
	// ErrVersionTooNew means the database was written by a newer build
	// than this one. Running older tooling against it would be unsafe.
	ErrVersionTooNew = errors.New("database version is newer than this software expects")

	// ErrVersionCorrupt means the version log holds a negative version.
	ErrVersionCorrupt = errors.New("database version is negative")

	// ErrBadConfig means the upgrade configuration was rejected before
	// any statement touched the database.
	ErrBadConfig = errors.New("invalid upgrade configuration")
)

// StepError reports a failed version transition. The enclosing transaction
// has been rolled back: the database remains at version From, and re-running
// the upgrade resumes at the same step.
type StepError struct {
	From int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("upgrade from version %d to %d: %v", e.From, e.From+1, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
