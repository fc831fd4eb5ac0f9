package validator

import (
	"fmt"
	"os"

	"github.com/modkit/modkit/internal/domain"
	"github.com/modkit/modkit/internal/platform"
)

const puppetSeverity = `(?i)^(?P<severity>error|warning|notice|info|err|warn): `

// puppetGrammar covers both location styles Puppet has used: up to 5.3.3 it
// printed "at file:line:column", from 5.3.4 on "(file: f, line: l, column: c)".
var puppetGrammar = Grammar{
	Patterns: []Pattern{
		pattern("paren-file-line-column", puppetSeverity+`(?P<message>.+?) \(file: (?P<file>.+?), line: (?P<line>[^,]+), column: (?P<column>[^)]+)\)$`),
		pattern("paren-file-line", puppetSeverity+`(?P<message>.+?) \(file: (?P<file>.+?), line: (?P<line>[^,)]+)\)$`),
		pattern("paren-line-column", puppetSeverity+`(?P<message>.+?) \(line: (?P<line>[^,]+), column: (?P<column>[^)]+)\)$`),
		pattern("paren-line", puppetSeverity+`(?P<message>.+?) \(line: (?P<line>[^,)]+)\)$`),
		pattern("paren-file", puppetSeverity+`(?P<message>.+?) \(file: (?P<file>[^,)]+)\)$`),
		pattern("at-file-line-column", puppetSeverity+`(?P<message>.+) at (?P<file>.+):(?P<line>[^:\s]+):(?P<column>[^:\s]+)$`),
		pattern("at-line-column", puppetSeverity+`(?P<message>.+) at line (?P<line>[^:\s]+):(?P<column>[^:\s]+)$`),
		pattern("at-file-line", puppetSeverity+`(?P<message>.+) at (?P<file>.+):(?P<line>[^:\s]+)$`),
		pattern("at-line", puppetSeverity+`(?P<message>.+) at line (?P<line>\S+)$`),
		pattern("in-file", puppetSeverity+`(?P<message>.+) in (?P<file>\S+\.\w+)$`),
		pattern("message", puppetSeverity+`(?P<message>.+)$`),
	},
	Continuation: rubyBacktrace,
}

// PuppetSyntax runs "puppet parser validate" over manifests.
type PuppetSyntax struct {
	tmpdir string
}

func NewPuppetSyntax() *PuppetSyntax { return &PuppetSyntax{} }

func (v *PuppetSyntax) Name() string    { return "puppet-syntax" }
func (v *PuppetSyntax) Command() string { return "puppet" }

func (v *PuppetSyntax) SpinnerText() string {
	return "Checking Puppet manifest syntax (**/*.pp)."
}

func (v *PuppetSyntax) Pattern(rc domain.RunContext) []string {
	return rc.ContextualPatterns("**/*.pp")
}

func (v *PuppetSyntax) PatternIgnore(rc domain.RunContext) []string {
	return rc.ContextualPatterns("plans/**/*.pp")
}

// BuildArgs points --config at the null device so the user's puppet.conf
// cannot leak settings in, and --modulepath at a private empty directory.
func (v *PuppetSyntax) BuildArgs(targets []string) []string {
	args := []string{"parser", "validate", "--config", platform.NullDevice(), "--modulepath", v.tmpdir}
	return append(args, targets...)
}

func (v *PuppetSyntax) ParseOutput(report *domain.Report, result domain.CommandResult, targets []string) error {
	diags := puppetGrammar.Parse(string(result.Stderr))
	report.Add(puppetGrammar.Events(v.Name(), diags, targets)...)
	return nil
}

// Prepare creates the private module path directory.
func (v *PuppetSyntax) Prepare() error {
	dir, err := os.MkdirTemp("", "puppet-parser-validate")
	if err != nil {
		return fmt.Errorf("creating module path directory: %w", err)
	}
	v.tmpdir = dir
	return nil
}

// Cleanup removes the module path directory if one was created and it is
// still a directory.
func (v *PuppetSyntax) Cleanup() error {
	dir := v.tmpdir
	if dir == "" {
		return nil
	}
	v.tmpdir = ""
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	return nil
}

// TempDir is the directory acquired by Prepare, empty when none is held.
func (v *PuppetSyntax) TempDir() string { return v.tmpdir }

// PuppetEPP runs "puppet epp validate" over embedded Puppet templates. Puppet
// reports EPP problems with the same grammar as manifest problems.
type PuppetEPP struct {
	noResources
}

func NewPuppetEPP() *PuppetEPP { return &PuppetEPP{} }

func (v *PuppetEPP) Name() string    { return "puppet-epp" }
func (v *PuppetEPP) Command() string { return "puppet" }

func (v *PuppetEPP) SpinnerText() string {
	return "Checking Puppet EPP syntax (**/*.epp)."
}

func (v *PuppetEPP) Pattern(rc domain.RunContext) []string {
	return rc.ContextualPatterns("**/*.epp")
}

func (v *PuppetEPP) PatternIgnore(_ domain.RunContext) []string { return nil }

func (v *PuppetEPP) BuildArgs(targets []string) []string {
	args := []string{"epp", "validate", "--config", platform.NullDevice()}
	return append(args, targets...)
}

func (v *PuppetEPP) ParseOutput(report *domain.Report, result domain.CommandResult, targets []string) error {
	diags := puppetGrammar.Parse(string(result.Stderr))
	report.Add(puppetGrammar.Events(v.Name(), diags, targets)...)
	return nil
}
