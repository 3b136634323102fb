package results

import "errors"

// ErrUnknownName indicates HTTP info was attached to a name that was
// never inserted.
var ErrUnknownName = errors.New("results: name not inserted")
