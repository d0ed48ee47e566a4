package archive

import (
	"fmt"

	"github.com/entrhq/chronicle/pkg/archive/tier"
)

// OrderingError is returned by RecordTurn when the turn number is not exactly
// one greater than the last recorded turn. No state is mutated.
type OrderingError = tier.OrderingError

// CorruptArchiveError is returned when a portable form cannot be restored:
// unsupported version, missing required field, or bands that do not partition
// the recorded turn range. Restore yields no archive.
type CorruptArchiveError struct {
	// Reason describes what made the portable form unusable.
	Reason string

	// Err is the underlying cause, when one exists.
	Err error
}

func (e *CorruptArchiveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive: corrupt portable form: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("archive: corrupt portable form: %s", e.Reason)
}

func (e *CorruptArchiveError) Unwrap() error {
	return e.Err
}
