package domain

import "errors"

// ErrSessionNotFound is returned when a user id has no stored session.
var ErrSessionNotFound = errors.New("session not found")

// ErrResultNotFound is returned when a user id has no archived final result.
var ErrResultNotFound = errors.New("final result not found")
