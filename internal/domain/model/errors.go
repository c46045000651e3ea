package model

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrRepeatedPlayer = errors.New("repeated player")
	ErrUnknownLevel   = errors.New("unknown tournament level")
)
