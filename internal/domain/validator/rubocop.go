package validator

import (
	"github.com/modkit/modkit/internal/domain"
)

var rubocopGrammar = Grammar{
	Patterns: []Pattern{
		pattern("emacs-cop", `^(?P<file>.+?):(?P<line>\d+):(?P<column>\d+): (?P<severity>[CRWEF]): (?:\[Corrected\] )?(?P<test>[A-Z][A-Za-z]*/[A-Za-z0-9]+): (?P<message>.*)$`),
		pattern("emacs", `^(?P<file>.+?):(?P<line>\d+):(?P<column>\d+): (?P<severity>[CRWEF]): (?:\[Corrected\] )?(?P<message>.*)$`),
	},
	Severity: rubocopSeverity,
}

// rubocopSeverity maps RuboCop's one-letter offense levels. Convention,
// refactor and warning offenses are warnings; error and fatal are errors.
func rubocopSeverity(letter string) domain.Severity {
	switch letter {
	case "E", "F":
		return domain.SeverityError
	default:
		return domain.SeverityWarning
	}
}

// Rubocop checks Ruby sources such as custom facts and functions.
type Rubocop struct {
	noResources
}

func NewRubocop() *Rubocop { return &Rubocop{} }

func (v *Rubocop) Name() string    { return "rubocop" }
func (v *Rubocop) Command() string { return "rubocop" }

func (v *Rubocop) SpinnerText() string {
	return "Checking Ruby code style (**/*.rb)."
}

func (v *Rubocop) Pattern(rc domain.RunContext) []string {
	return rc.ContextualPatterns("**/*.rb")
}

func (v *Rubocop) PatternIgnore(rc domain.RunContext) []string {
	return rc.ContextualPatterns("vendor/**/*.rb")
}

func (v *Rubocop) BuildArgs(targets []string) []string {
	args := []string{"--format", "emacs", "--no-color", "--force-exclusion"}
	return append(args, targets...)
}

func (v *Rubocop) ParseOutput(report *domain.Report, result domain.CommandResult, targets []string) error {
	diags := rubocopGrammar.Parse(string(result.Stdout))
	report.Add(rubocopGrammar.Events(v.Name(), diags, targets)...)
	return nil
}
