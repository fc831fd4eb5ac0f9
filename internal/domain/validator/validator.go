// Package validator defines the contract every checking tool integration
// implements and the concrete integrations shipped with modkit.
package validator

import (
	"context"

	"github.com/modkit/modkit/internal/domain"
)

// Validator wraps one checking tool: which files it wants, how to invoke it
// and how to turn what it printed into report events.
type Validator interface {
	Name() string
	// Command is the external tool to run; empty for in-process validators.
	Command() string
	SpinnerText() string
	Pattern(rc domain.RunContext) []string
	PatternIgnore(rc domain.RunContext) []string
	// BuildArgs shapes the tool's arguments for a non-empty target list.
	BuildArgs(targets []string) []string
	// ParseOutput appends the events for targets to report. An error means the
	// validator itself is broken, not that the content failed a check.
	ParseOutput(report *domain.Report, result domain.CommandResult, targets []string) error
	// Prepare acquires per-run resources. Cleanup releases them and is
	// called exactly once after a successful Prepare, on every exit path.
	Prepare() error
	Cleanup() error
}

// InProcess is implemented by validators that check content without
// spawning an external tool.
type InProcess interface {
	CheckTargets(ctx context.Context, report *domain.Report, root string, targets []string) error
}

// PerTarget is implemented by validators whose tool accepts only one file
// per invocation; the tool is then run once for each target.
type PerTarget interface {
	PerTarget() bool
}

// Group is a batch of validators scheduled together.
type Group struct {
	Name       string
	Validators []Validator
}

// noResources provides the no-op lifecycle for validators that hold nothing.
type noResources struct{}

func (noResources) Prepare() error { return nil }
func (noResources) Cleanup() error { return nil }

// inProcessBase fills in the external-command half of the contract for
// in-process validators.
type inProcessBase struct {
	noResources
}

func (inProcessBase) Command() string               { return "" }
func (inProcessBase) BuildArgs(_ []string) []string { return nil }
func (inProcessBase) ParseOutput(_ *domain.Report, _ domain.CommandResult, _ []string) error {
	return nil
}
