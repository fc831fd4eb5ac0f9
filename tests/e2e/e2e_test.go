package e2e_test

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modkit/modkit/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "modkit-e2e")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "modkit")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/modkit")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// fixture copies a testdata tree into a temp dir so runs never write into it.
func fixture(t *testing.T, name string) string {
	t.Helper()
	src, err := filepath.Abs(filepath.Join("../../testdata", name))
	require.NoError(t, err)
	dst := t.TempDir()
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		if d.IsDir() {
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dst, rel), data, 0o644)
	})
	require.NoError(t, err)
	return dst
}

func run(t *testing.T, env []string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(append(os.Environ(), "XDG_CONFIG_HOME="+t.TempDir(), "NO_COLOR=1"), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// --- Validate Tests ---

func TestE2E_ValidateClean(t *testing.T) {
	stdout, stderr, code := run(t, nil, "validate", "metadata-syntax,yaml-syntax", "--path", fixture(t, "modules/clean"))
	assert.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)
}

func TestE2E_ValidateBrokenJUnit(t *testing.T) {
	stdout, _, code := run(t, nil, "validate", "metadata-syntax", "yaml-syntax", "--parallel",
		"--format", "junit", "--path", fixture(t, "modules/broken"))
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stdout, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, stdout, `<testsuite name="metadata-syntax"`)
	assert.Contains(t, stdout, `<failure type="Error"`)
}

func TestE2E_ValidateMissingTool(t *testing.T) {
	stdout, _, code := run(t, []string{"PATH=" + t.TempDir()}, "validate", "rubocop", "--format", "json", "--path", fixture(t, "modules/clean"))

	// No Ruby files means rubocop has no targets and never runs.
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, `"exit_code": 0`)

	stdout, _, code = run(t, []string{"PATH=" + t.TempDir()}, "validate", "puppet-lint", "--format", "json", "--path", fixture(t, "modules/clean"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stdout, `"state": "fatal"`)
}

func TestE2E_ControlRepoFeatureFlag(t *testing.T) {
	root := fixture(t, "controlrepo")
	env := []string{"PATH=" + t.TempDir()}

	// Without the flag the control repo is validated as a plain directory,
	// so manifests/site.pp is a target too.
	stdout, _, _ := run(t, env, "validate", "puppet-syntax", "--format", "json", "--path", root)
	assert.Contains(t, stdout, `"state": "fatal"`)

	stdout, _, code := run(t, append(env, "MODKIT_FEATURE_FLAGS=controlrepo"), "config", "get", "feature_flags.requested", "--path", root)
	assert.Equal(t, 0, code)
	assert.Equal(t, "[\"controlrepo\"]\n", stdout)
}

func TestE2E_RecordAndHistory(t *testing.T) {
	root := fixture(t, "modules/clean")

	_, _, code := run(t, nil, "validate", "yaml-syntax", "--record", "--path", root)
	require.Equal(t, 0, code)

	stdout, _, code := run(t, nil, "history", "--json", "--path", root)
	require.Equal(t, 0, code)
	var entries []domain.RunEntry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, domain.Summary{Total: 2, Passed: 2}, entries[0].Summary)
}

func TestE2E_ConfigGetUnknownKey(t *testing.T) {
	_, _, code := run(t, nil, "config", "get", "nope.missing", "--path", t.TempDir())
	assert.Equal(t, 1, code)
}

func TestE2E_Version(t *testing.T) {
	stdout, _, code := run(t, nil, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "modkit")
}
