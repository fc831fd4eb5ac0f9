package runner_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modkit/modkit/internal/adapters/outbound/runner"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
}

func TestExecRunner_SeparatesStreams(t *testing.T) {
	skipOnWindows(t)

	result, err := runner.New().Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(result.Stdout))
	assert.Equal(t, "err\n", string(result.Stderr))
	assert.Zero(t, result.ExitCode)
}

func TestExecRunner_NonZeroExitIsData(t *testing.T) {
	skipOnWindows(t)

	result, err := runner.New().Run(context.Background(), "sh", []string{"-c", "echo 'error: bad' >&2; exit 3"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "error: bad\n", string(result.Stderr))
}

func TestExecRunner_RunsInDir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	result, err := runner.New().Run(context.Background(), "sh", []string{"-c", "ls"}, dir)
	require.NoError(t, err)
	assert.Empty(t, string(result.Stdout))
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := runner.New().Run(context.Background(), "modkit-no-such-tool", nil, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modkit-no-such-tool not found")
}

func TestExecRunner_Cancelled(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := runner.New().Run(ctx, "sh", []string{"-c", "sleep 10"}, t.TempDir())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 8*time.Second)
}

func TestExecRunner_InheritsEnvironment(t *testing.T) {
	skipOnWindows(t)
	t.Setenv("MODKIT_RUNNER_VAR", "yes")

	result, err := runner.New().Run(context.Background(), "/bin/sh", []string{"-c", "printf %s \"$MODKIT_RUNNER_VAR\""}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "yes", string(result.Stdout))
}
