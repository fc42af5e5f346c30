package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	ErrConfigRequired = errors.New("required configuration key missing")
	ErrInvalidPort    = errors.New("invalid TCP port")
)
