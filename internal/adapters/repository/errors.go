package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNotFound     = errors.New("player not ranked")
	ErrInvalidLimit = errors.New("invalid limit")
	ErrNoSnapshot   = errors.New("no snapshot published")
)
