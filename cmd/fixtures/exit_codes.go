package main

import (
	"errors"

	"fixtures/internal/fixtureid"
	"fixtures/internal/radix"
	"fixtures/internal/store"
	"fixtures/internal/version"
)

const (
	exitFailure  = 1
	exitUsage    = 2
	exitConflict = 3
	exitNotFound = 4
)

// usageError marks bad command-line input that is not an identifier problem.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func exitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usage),
		errors.Is(err, fixtureid.ErrParse),
		errors.Is(err, version.ErrInvalidVersion),
		errors.Is(err, radix.ErrEncoding),
		errors.Is(err, store.ErrInvalidCode):
		return exitUsage
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, version.ErrOrderViolation),
		errors.Is(err, store.ErrReferentialIntegrity),
		errors.Is(err, store.ErrLocked):
		return exitConflict
	case errors.Is(err, store.ErrNotFound):
		return exitNotFound
	default:
		return exitFailure
	}
}
