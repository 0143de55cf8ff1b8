package cmd

import (
	"errors"
)

// Exit codes of the command.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// usageError is an error in the command line. The usage is printed with it.
type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}

// ExitError carries the exit status of a run that has already reported its
// outcome.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode extracts the exit status from an error returned by a command.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}
