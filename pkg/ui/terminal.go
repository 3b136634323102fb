package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal reports whether w is a terminal. Anything that is not an
// *os.File is treated as piped output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// colorDisabled honours the NO_COLOR convention (https://no-color.org).
func colorDisabled() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}
