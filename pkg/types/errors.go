package types

import "errors"

// Store lifecycle errors.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDetached           = errors.New("store is detached")
	ErrAlreadyAttached    = errors.New("store is already attached")
	ErrDBPathEmpty        = errors.New("database path must not be empty")
)

// Operation errors. Callers test for these with errors.Is; the core wraps
// them with context but never replaces them.
var (
	// ErrStorage reports a failed statement against an open store.
	ErrStorage = errors.New("storage error")

	// ErrNotFound is returned when an id or name lookup yields no rows.
	ErrNotFound = errors.New("not found")

	// ErrNoMatch is returned when a predicate-based update matches no rows.
	ErrNoMatch = errors.New("no matching records")

	// ErrInvalidField is returned when an update targets a field outside the
	// allowed set, or the assignment is malformed.
	ErrInvalidField = errors.New("invalid field")

	// ErrIO reports a filesystem read or write failure.
	ErrIO = errors.New("i/o error")

	// ErrAmbiguousInput is returned when mutually exclusive identifying
	// parameters are missing or conflicting.
	ErrAmbiguousInput = errors.New("ambiguous input")
)

// IsUserError reports whether err stems from caller input rather than from
// the environment. The CLI uses it to pick an exit code.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNoMatch) ||
		errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrAmbiguousInput)
}
