package discovery

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownLevelDir = errors.New("directory does not match a tournament level")
	ErrUnreadableDir   = errors.New("directory could not be read")
)
