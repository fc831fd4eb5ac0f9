package validator

import (
	"github.com/modkit/modkit/internal/domain"
)

// puppetLintLogFormat fixes puppet-lint's output to a shape the grammar knows.
const puppetLintLogFormat = "%{path}:%{line}:%{column}:%{KIND}:%{check}:%{message}"

var puppetLintGrammar = Grammar{
	Patterns: []Pattern{
		pattern("file-line-column", `^(?P<file>.+?):(?P<line>\d+):(?P<column>\d+):(?P<severity>[A-Z]+):(?P<test>[a-z0-9_]+):(?P<message>.*)$`),
		pattern("file-line", `^(?P<file>.+?):(?P<line>\d+):(?P<severity>[A-Z]+):(?P<test>[a-z0-9_]+):(?P<message>.*)$`),
	},
	Continuation: rubyBacktrace,
}

// PuppetLint checks manifests against the Puppet style guide.
type PuppetLint struct {
	noResources
}

func NewPuppetLint() *PuppetLint { return &PuppetLint{} }

func (v *PuppetLint) Name() string    { return "puppet-lint" }
func (v *PuppetLint) Command() string { return "puppet-lint" }

func (v *PuppetLint) SpinnerText() string {
	return "Checking Puppet manifest style (**/*.pp)."
}

func (v *PuppetLint) Pattern(rc domain.RunContext) []string {
	return rc.ContextualPatterns("**/*.pp")
}

func (v *PuppetLint) PatternIgnore(rc domain.RunContext) []string {
	return rc.ContextualPatterns("plans/**/*.pp")
}

func (v *PuppetLint) BuildArgs(targets []string) []string {
	args := []string{"--relative", "--no-colour", "--log-format", puppetLintLogFormat}
	return append(args, targets...)
}

func (v *PuppetLint) ParseOutput(report *domain.Report, result domain.CommandResult, targets []string) error {
	diags := puppetLintGrammar.Parse(string(result.Stdout))
	report.Add(puppetLintGrammar.Events(v.Name(), diags, targets)...)
	return nil
}
