package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modkit/modkit/internal/adapters/outbound/scanner"
	"github.com/modkit/modkit/internal/domain"
)

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func rels(targets []domain.Target) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.Rel
	}
	return out
}

func TestGlobResolver_MatchesAndSorts(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"manifests/init.pp",
		"manifests/config/file.pp",
		"examples/init.pp",
		"templates/motd.epp",
		"plans/deploy.pp",
		"metadata.json",
	)

	targets, err := scanner.New().Resolve(root, []string{"**/*.pp"}, []string{"plans/**/*.pp"})
	require.NoError(t, err)

	assert.Equal(t, []string{"examples/init.pp", "manifests/config/file.pp", "manifests/init.pp"}, rels(targets))
	for _, tg := range targets {
		assert.True(t, filepath.IsAbs(tg.Path))
		assert.FileExists(t, tg.Path)
	}
}

func TestGlobResolver_SkipsBuiltinDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"manifests/init.pp",
		"vendor/bundle/x.pp",
		"pkg/acme-ntp-1.0.0/manifests/init.pp",
		"spec/fixtures/modules/stdlib/manifests/init.pp",
		".git/hooks/x.pp",
		".modkit/cache.pp",
		"node_modules/x/y.pp",
	)

	targets, err := scanner.New().Resolve(root, []string{"**/*.pp"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"manifests/init.pp"}, rels(targets))
}

func TestGlobResolver_MultipleIncludesNoDuplicates(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "data/common.yaml", "data/os/Debian.yml", "hiera.yaml")

	targets, err := scanner.New().Resolve(root, []string{"**/*.yaml", "**/*.yml", "data/**"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"data/common.yaml", "data/os/Debian.yml", "hiera.yaml"}, rels(targets))
}

func TestGlobResolver_ExcludeDirectoryPattern(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "lib/facter/a.rb", "lib/generated/b.rb")

	targets, err := scanner.New().Resolve(root, []string{"**/*.rb"}, []string{"lib/generated/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/facter/a.rb"}, rels(targets))
}

func TestGlobResolver_ControlRepoPatterns(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"site/profile/manifests/base.pp",
		"modules/ntp/manifests/init.pp",
		"manifests/site.pp",
	)
	rc := domain.RunContext{Kind: domain.ContextControlRepo, ModulePaths: []string{"site", "modules"}}

	targets, err := scanner.New().Resolve(root, rc.ContextualPatterns("**/*.pp"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"modules/ntp/manifests/init.pp", "site/profile/manifests/base.pp"}, rels(targets))
}

func TestGlobResolver_MissingRoot(t *testing.T) {
	targets, err := scanner.New().Resolve(filepath.Join(t.TempDir(), "nope"), []string{"**/*.pp"}, nil)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestGlobResolver_EmptyIncludeMatchesNothing(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "manifests/init.pp")

	targets, err := scanner.New().Resolve(root, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestGlobResolver_InvalidPattern(t *testing.T) {
	_, err := scanner.New().Resolve(t.TempDir(), []string{"[unclosed"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestGlobResolver_Fixture(t *testing.T) {
	targets, err := scanner.New().Resolve("../../../../testdata/modules/broken", []string{"**/*.pp"}, []string{"plans/**/*.pp"})
	require.NoError(t, err)
	assert.NotEmpty(t, targets)
	assert.NotContains(t, rels(targets), "plans/deploy.pp")
}
