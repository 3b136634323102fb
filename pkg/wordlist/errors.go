package wordlist

import "errors"

// Sentinel errors for wordlist loading.
// Callers should use errors.Is() to check for these.
var (
	// ErrNotFound indicates the wordlist file does not exist.
	ErrNotFound = errors.New("wordlist: file not found")

	// ErrEmpty indicates the wordlist produced no usable labels.
	ErrEmpty = errors.New("wordlist: no labels")
)
