package cli

import (
	"errors"
	"fmt"

	"github.com/modkit/modkit/internal/application"
	"github.com/modkit/modkit/internal/domain"
)

// ExitError carries the process exit status a command finished with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// runExit maps the outcome of a validate run onto an exit status. A defect
// counts as fatal. It returns nil only when every event passed.
func runExit(report *domain.Report, runErr error) error {
	switch {
	case errors.Is(runErr, application.ErrInterrupted):
		return &ExitError{Code: domain.ExitInterrupted, Err: runErr}
	case runErr != nil:
		return &ExitError{Code: domain.ExitFatal, Err: runErr}
	}
	if code := report.ExitCode(); code != domain.ExitPassed {
		return &ExitError{Code: code}
	}
	return nil
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return domain.ExitPassed
}
