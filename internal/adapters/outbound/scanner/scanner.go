package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/modkit/modkit/internal/domain"
)

// skipNames are directory names never descended into, wherever they appear.
var skipNames = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
}

// skipPaths are root-relative directories never descended into. They are
// also skipped when nested, so modules inside a control repo behave the same.
var skipPaths = []string{
	"pkg",
	".modkit",
	"spec/fixtures",
}

// GlobResolver implements domain.TargetResolver by walking the filesystem and
// matching slash-separated relative paths with doublestar globs.
type GlobResolver struct{}

func New() *GlobResolver {
	return &GlobResolver{}
}

// Resolve returns the files under root matching any include pattern and no
// exclude pattern, sorted by relative path. A missing root yields no targets.
func (r *GlobResolver) Resolve(root string, include, exclude []string) ([]domain.Target, error) {
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}
	if len(include) == 0 {
		return nil, nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var targets []domain.Target
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDir(d.Name(), rel) || matchAny(exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchAny(include, rel) && !matchAny(exclude, rel) {
			targets = append(targets, domain.Target{Path: path, Rel: rel})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", absRoot, err)
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].Rel < targets[j].Rel })
	return targets, nil
}

func skipDir(name, rel string) bool {
	if skipNames[name] {
		return true
	}
	for _, p := range skipPaths {
		if rel == p || strings.HasSuffix(rel, "/"+p) {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
