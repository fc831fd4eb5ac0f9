package domain

import (
	"fmt"
	"slices"
)

// RunQuery selects recorded runs. Zero fields match every entry.
type RunQuery struct {
	Context   ContextKind
	Validator string
	// Limit keeps only the newest Limit matches when positive.
	Limit int
}

// Validate rejects contexts no run can be recorded under and negative limits.
func (q RunQuery) Validate() error {
	switch q.Context {
	case "", ContextModule, ContextControlRepo, ContextNone:
	default:
		return fmt.Errorf("unknown context %q (valid: %s, %s, %s)", q.Context, ContextModule, ContextControlRepo, ContextNone)
	}
	if q.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", q.Limit)
	}
	return nil
}

func (q RunQuery) Matches(e RunEntry) bool {
	if q.Context != "" && e.Context != string(q.Context) {
		return false
	}
	return q.Validator == "" || slices.Contains(e.Validators, q.Validator)
}

// Apply filters entries, which are oldest first, and keeps that order.
func (q RunQuery) Apply(entries []RunEntry) []RunEntry {
	var out []RunEntry
	for _, e := range entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out
}
