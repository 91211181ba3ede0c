package cmd

import (
	"errors"

	"github.com/sofmeright/workspace-tools/src/manifest"
	"github.com/sofmeright/workspace-tools/src/npm"
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Exit codes.
const (
	exitOK    = 0
	exitUsage = 1 // invalid input, config or workspace contents
	exitIO    = 2 // reading or writing files
	exitExec  = 3 // package manager command failed
)

// ExitCode returns the process exit code for an error returned by Execute.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitUsage
}

// exitErr classifies err by its type.
func exitErr(err error) error {
	if err == nil {
		return nil
	}
	var (
		loadErr  *manifest.LoadError
		parseErr *manifest.ParseError
		saveErr  *manifest.SaveError
		execErr  *npm.CommandExecutionError
	)
	switch {
	case errors.As(err, &execErr):
		return &ExitError{Code: exitExec, Err: err}
	case errors.As(err, &loadErr), errors.As(err, &parseErr), errors.As(err, &saveErr):
		return &ExitError{Code: exitIO, Err: err}
	default:
		return &ExitError{Code: exitUsage, Err: err}
	}
}
