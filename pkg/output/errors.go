package output

import "errors"

var (
	// ErrNoResults is returned by Save when the report holds no records.
	ErrNoResults = errors.New("output: no results to save")

	// ErrWrite wraps failures creating or writing the output file.
	ErrWrite = errors.New("output: write failed")
)
