package domain

import "path"

// ContextKind discriminates what kind of tree a run is validating.
type ContextKind string

const (
	ContextModule      ContextKind = "module"
	ContextControlRepo ContextKind = "control-repo"
	ContextNone        ContextKind = "none"
)

// RunContext is supplied by the detector and consumed by validators when
// computing their effective patterns.
type RunContext struct {
	Kind ContextKind `json:"kind"`
	Root string      `json:"root"`
	// ModulePaths are the root-relative directories that hold modules in a
	// control repo (e.g. "site", "modules").
	ModulePaths []string `json:"module_paths,omitempty"`
}

// ContextualPatterns is the single place a validator's pattern is adapted to
// the run context. In a control repo each module path contributes one
// "<path>/*/<pattern>" pattern; anywhere else the pattern is used as-is.
// An empty pattern matches nothing.
func (c RunContext) ContextualPatterns(patterns ...string) []string {
	var out []string
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if c.Kind != ContextControlRepo {
			out = append(out, p)
			continue
		}
		for _, mp := range c.ModulePaths {
			out = append(out, path.Join(mp, "*", p))
		}
	}
	return out
}
