package domain

import "errors"

// Sentinel errors classified at the command boundary. Both are expected
// user-facing outcomes, not operational failures.
var (
	ErrInvalidFormat = errors.New("wrong format")
	ErrNotFound      = errors.New("not found")
)
