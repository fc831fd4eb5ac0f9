package validator

import (
	"path"
	"regexp"
	"strings"

	"github.com/modkit/modkit/internal/domain"
)

// Pattern is one named diagnostic line shape. Recognised capture groups are
// file, line, column, severity, test and message; any may be absent.
type Pattern struct {
	Name string
	Expr *regexp.Regexp
}

func pattern(name, expr string) Pattern {
	return Pattern{Name: name, Expr: regexp.MustCompile(expr)}
}

// Grammar is an ordered list of patterns, most specific first. A line is
// attributed to the first pattern that matches it.
type Grammar struct {
	Patterns []Pattern
	// Continuation matches lines that belong to the previous line, such as
	// backtrace frames after an interpreter crash. They are dropped.
	Continuation *regexp.Regexp
	// Severity maps the captured severity word; domain.ParseSeverity if nil.
	Severity func(string) domain.Severity
}

// Diagnostic is one parsed line. Raw is set when no pattern matched, in which
// case Message holds the whole line.
type Diagnostic struct {
	Pattern  string
	File     string
	Line     string
	Column   string
	Severity string
	Test     string
	Message  string
	Raw      bool
}

var (
	ansiEscape    = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)
	lineBreak     = regexp.MustCompile(`\r?\n`)
	rubyBacktrace = regexp.MustCompile(`^\s+from\s`)
)

// Match returns the diagnostic produced by the first matching pattern.
func (g Grammar) Match(line string) (Diagnostic, bool) {
	for _, p := range g.Patterns {
		m := p.Expr.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d := Diagnostic{Pattern: p.Name}
		for i, name := range p.Expr.SubexpNames() {
			val := strings.TrimSpace(m[i])
			switch name {
			case "file":
				d.File = val
			case "line":
				d.Line = val
			case "column":
				d.Column = val
			case "severity":
				d.Severity = val
			case "test":
				d.Test = val
			case "message":
				d.Message = val
			}
		}
		return d, true
	}
	return Diagnostic{}, false
}

// Parse splits captured output into lines and matches each one. Blank lines
// are skipped; lines no pattern recognises are kept as raw diagnostics so no
// output is silently dropped.
func (g Grammar) Parse(output string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range lineBreak.Split(ansiEscape.ReplaceAllString(output, ""), -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if g.Continuation != nil && len(diags) > 0 && g.Continuation.MatchString(line) {
			continue
		}
		if d, ok := g.Match(line); ok {
			diags = append(diags, d)
			continue
		}
		diags = append(diags, Diagnostic{Raw: true, Message: strings.TrimRight(line, " \t")})
	}
	return diags
}

func (g Grammar) severity(word string) domain.Severity {
	if g.Severity != nil {
		return g.Severity(word)
	}
	return domain.ParseSeverity(word)
}

// Events converts diagnostics into report events for source. Every target
// that no located diagnostic refers to gets one passed event first, in target
// order; the diagnostics follow in output order. File-less diagnostics do not
// suppress passed events.
func (g Grammar) Events(source string, diags []Diagnostic, targets []string) []domain.Event {
	events := make([]domain.Event, 0, len(targets)+len(diags))
	referenced := make(map[string]bool, len(targets))
	resolved := make([]string, len(diags))

	for i, d := range diags {
		if d.Raw || d.File == "" {
			continue
		}
		resolved[i] = d.File
		if t, ok := resolveTarget(d.File, targets); ok {
			referenced[t] = true
			resolved[i] = t
		}
	}

	for _, t := range targets {
		if !referenced[t] {
			events = append(events, domain.PassedEvent(source, t))
		}
	}

	for i, d := range diags {
		if d.Raw {
			events = append(events, domain.Event{
				Source:   source,
				Severity: domain.SeverityError,
				State:    domain.StateFailure,
				Message:  d.Message,
			})
			continue
		}
		events = append(events, domain.Event{
			Source:   source,
			File:     resolved[i],
			Line:     d.Line,
			Column:   d.Column,
			Test:     d.Test,
			Severity: g.severity(d.Severity),
			State:    domain.StateFailure,
			Message:  d.Message,
		})
	}
	return events
}

// resolveTarget picks the target a printed path denotes. An exact match wins;
// otherwise the longest target the path ends with, so "manifests/init.pp"
// never resolves to a shorter "init.pp".
func resolveTarget(file string, targets []string) (string, bool) {
	f := normalizePath(file)
	best, found := "", false
	for _, t := range targets {
		if normalizePath(t) == f {
			return t, true
		}
		if referencesTarget(file, t) && (!found || len(normalizePath(t)) > len(normalizePath(best))) {
			best, found = t, true
		}
	}
	return best, found
}

func normalizePath(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

// referencesTarget reports whether a file path printed by a tool denotes
// target. Tools print targets relative, absolute or with a "./" prefix.
func referencesTarget(file, target string) bool {
	f, t := normalizePath(file), normalizePath(target)
	return f == t || strings.HasSuffix(f, "/"+t)
}
