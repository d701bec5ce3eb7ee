package main

// Exit codes shared by all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid paths)
	ExitDataError   = 3 // Data error (duplicate paper, keyword collision, not found)
	ExitAuthError   = 4 // ADS token missing or rejected
	ExitConflict    = 5 // Reconciliation found bibcode conflicts needing user action
)
