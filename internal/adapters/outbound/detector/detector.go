package detector

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/modkit/modkit/internal/domain"
)

// defaultModulePaths are used for a control repo whose environment.conf does
// not set modulepath.
var defaultModulePaths = []string{"site", "modules"}

// ContextDetector implements domain.ContextDetector by looking for the marker
// files of a module (metadata.json) or a control repo (environment.conf,
// Puppetfile) at the root.
type ContextDetector struct{}

func New() *ContextDetector {
	return &ContextDetector{}
}

func (d *ContextDetector) Detect(root string, flags domain.FeatureFlags) (domain.RunContext, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return domain.RunContext{}, err
	}
	rc := domain.RunContext{Kind: domain.ContextNone, Root: absRoot}

	if exists(filepath.Join(absRoot, "metadata.json")) {
		rc.Kind = domain.ContextModule
		return rc, nil
	}

	if !flags.Enabled(domain.FeatureControlRepo) {
		return rc, nil
	}

	envConf := filepath.Join(absRoot, "environment.conf")
	if !exists(envConf) && !exists(filepath.Join(absRoot, "Puppetfile")) {
		return rc, nil
	}

	paths, err := modulePaths(envConf)
	if err != nil {
		return domain.RunContext{}, err
	}
	rc.Kind = domain.ContextControlRepo
	rc.ModulePaths = paths
	return rc, nil
}

// modulePaths reads the modulepath setting of environment.conf. Entries that
// refer to settings ($basemodulepath) or point outside the repo are dropped.
func modulePaths(envConf string) ([]string, error) {
	f, err := os.Open(envConf)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultModulePaths, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var setting string
	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(key) == "modulepath" {
			setting = strings.TrimSpace(value)
			found = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !found {
		return defaultModulePaths, nil
	}

	var paths []string
	for _, p := range strings.Split(setting, ":") {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "$") || filepath.IsAbs(p) {
			continue
		}
		paths = append(paths, filepath.ToSlash(filepath.Clean(p)))
	}
	return paths, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
