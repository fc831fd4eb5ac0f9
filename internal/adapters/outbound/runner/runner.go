package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/modkit/modkit/internal/domain"
)

// waitDelay bounds how long a killed tool may keep its output pipes open.
const waitDelay = 5 * time.Second

// ExecRunner implements domain.CommandRunner with os/exec. Tools inherit the
// process environment.
type ExecRunner struct{}

func New() *ExecRunner {
	return &ExecRunner{}
}

// Run starts command in dir and waits for it. Stdout and stderr are captured
// into separate buffers. A non-zero exit status is returned in the result;
// an error means the binary could not be started or ctx was cancelled.
func (r *ExecRunner) Run(ctx context.Context, command string, args []string, dir string) (domain.CommandResult, error) {
	path, err := exec.LookPath(command)
	if err != nil {
		return domain.CommandResult{}, fmt.Errorf("%s not found: %w", command, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := domain.CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("running %s: %w", command, err)
	}
	return result, nil
}
