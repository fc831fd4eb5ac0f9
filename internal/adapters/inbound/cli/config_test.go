package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigGet_Leaf(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".modkit.yaml"), []byte("validate:\n  workers: 6\n"), 0o644))

	res := run(t, context.Background(), "config", "get", "validate.workers", "--path", root)
	require.NoError(t, res.err)
	assert.Equal(t, "6\n", res.stdout)
}

func TestConfigGet_Prefix(t *testing.T) {
	res := run(t, context.Background(), "config", "get", "validate", "--path", t.TempDir())
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "validate.parallel=false\n")
	assert.Contains(t, res.stdout, "validate.validators=[\"all\"]\n")
}

func TestConfigGet_EnvOverride(t *testing.T) {
	t.Setenv("MODKIT_FEATURE_FLAGS", "controlrepo")

	res := run(t, context.Background(), "config", "get", "feature_flags.requested", "--path", t.TempDir())
	require.NoError(t, res.err)
	assert.Equal(t, "[\"controlrepo\"]\n", res.stdout)
}

func TestConfigGet_UnknownKey(t *testing.T) {
	res := run(t, context.Background(), "config", "get", "nope.missing", "--path", t.TempDir())
	assert.Equal(t, 1, exitCode(t, res.err))
}

func TestConfigGet_ExplicitUserFileMustExist(t *testing.T) {
	res := run(t, context.Background(), "--config", filepath.Join(t.TempDir(), "missing.yaml"), "config", "get")
	require.Error(t, res.err)
}
