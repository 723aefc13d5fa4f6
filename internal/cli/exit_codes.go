package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

// Exit codes for the fraglog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a failed check: duplicates were found, the
	// changelog file is out of date, or an unexpected error occurred
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitConfigError indicates the config file could not be loaded
	ExitConfigError = 3

	// ExitMissingPrerequisite indicates the changelog directory or the
	// unreleased changes are missing
	ExitMissingPrerequisite = 4

	// ExitInvalidStructure indicates the changelog tree cannot be read
	ExitInvalidStructure = 5
)

// ExitError carries an exit code for a failure that has already been
// reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Configuration:
			return ExitConfigError
		case clierrors.Prerequisite:
			return ExitMissingPrerequisite
		case clierrors.Structure:
			return ExitInvalidStructure
		}
	}
	return ExitFailure
}
