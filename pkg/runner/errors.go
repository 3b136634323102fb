package runner

import "errors"

// Sentinel errors for runner failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidConfig indicates the runner cannot be built from the
	// given configuration (no resolver, no domain, concurrency < 1).
	ErrInvalidConfig = errors.New("runner: invalid configuration")

	// ErrAlreadyRunning indicates Run was called while a previous Run
	// on the same Runner had not returned.
	ErrAlreadyRunning = errors.New("runner: already running")
)
