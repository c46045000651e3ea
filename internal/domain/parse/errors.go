package parse

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMalformedLine = errors.New("malformed line")

	errNotAnInteger = errors.New("not an integer")
	errNotPositive  = errors.New("must be positive")
)

// TieConsistencyError rejects a whole file whose sorted positions do not
// form consistent tie groups: each group must start at the previous group's
// position plus its size, and the first group must start at 1.
type TieConsistencyError struct {
	// Position is the offending group's starting position.
	Position uint64
	// Expected is the position the group should have started at.
	Expected uint64
}

func (e *TieConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent tie groups: got position %d, expected %d", e.Position, e.Expected)
}
