package atpg

import (
	"errors"
	"fmt"
)

// ErrArenaExhausted is returned when a pass's NodeInfo arena runs out of
// room mid-initialization. This is a normal, non-fatal outcome: the pass
// aborts cleanly and reports no change.
var ErrArenaExhausted = errors.New("atpg: node-info arena exhausted")

// ErrNoSubformula is returned when Driver.Run is given a nil or empty
// ChangedSubformula.
var ErrNoSubformula = errors.New("atpg: empty changed subformula")

// wrapf prefixes err with an operation label, preserving it for errors.Is.
func wrapf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
