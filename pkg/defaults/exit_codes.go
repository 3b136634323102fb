package defaults

// Exit codes for the CLI.
const (
	ExitSuccess       = 0 // Run finished, including interrupted runs
	ExitUserError     = 1 // Invalid arguments, domain or wordlist
	ExitInternalError = 2 // Unexpected internal error
)
