package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modkit/modkit/internal/domain"
)

func TestGrammar_FirstMatchWins(t *testing.T) {
	g := Grammar{Patterns: []Pattern{
		pattern("specific", `^(?P<file>\S+):(?P<line>\d+): (?P<message>.+)$`),
		pattern("general", `^(?P<message>.+)$`),
	}}

	d, ok := g.Match("a.pp:3: boom")
	require.True(t, ok)
	assert.Equal(t, "specific", d.Pattern)
	assert.Equal(t, "a.pp", d.File)
	assert.Equal(t, "3", d.Line)
	assert.Equal(t, "boom", d.Message)

	d, ok = g.Match("no location here")
	require.True(t, ok)
	assert.Equal(t, "general", d.Pattern)
	assert.Empty(t, d.File)
}

func TestGrammar_ParseKeepsUnmatchedLines(t *testing.T) {
	g := Grammar{Patterns: []Pattern{
		pattern("only", `^(?P<file>\S+):(?P<line>\d+): (?P<message>.+)$`),
	}}

	diags := g.Parse("\x1b[31ma.pp:1: red\x1b[0m\r\n\n   \nsomething unexpected  \n")
	require.Len(t, diags, 2)
	assert.Equal(t, "a.pp", diags[0].File)
	assert.Equal(t, "red", diags[0].Message)
	assert.True(t, diags[1].Raw)
	assert.Equal(t, "something unexpected", diags[1].Message)
}

func TestGrammar_ContinuationFoldedOnlyAfterALine(t *testing.T) {
	g := Grammar{Continuation: rubyBacktrace}

	diags := g.Parse("\tfrom leading.rb:1\ncrash\n\tfrom a.rb:1\n  from b.rb:2\n")
	require.Len(t, diags, 2)
	assert.Equal(t, "\tfrom leading.rb:1", diags[0].Message)
	assert.Equal(t, "crash", diags[1].Message)
}

func TestGrammar_EventsPassedFirstThenDiagnostics(t *testing.T) {
	g := Grammar{}
	diags := []Diagnostic{
		{File: "./b.pp", Line: "2", Severity: "warning", Message: "w"},
		{Raw: true, Message: "raw"},
	}

	events := g.Events("src", diags, []string{"a.pp", "b.pp"})
	require.Len(t, events, 3)
	assert.Equal(t, domain.PassedEvent("src", "a.pp"), events[0])
	assert.Equal(t, domain.Event{
		Source: "src", File: "b.pp", Line: "2",
		Severity: domain.SeverityWarning, State: domain.StateFailure, Message: "w",
	}, events[1])
	assert.Equal(t, domain.Event{
		Source: "src", Severity: domain.SeverityError, State: domain.StateFailure, Message: "raw",
	}, events[2])
}

func TestGrammar_CustomSeverity(t *testing.T) {
	g := Grammar{Severity: func(string) domain.Severity { return domain.SeverityWarning }}
	events := g.Events("src", []Diagnostic{{File: "x", Severity: "error", Message: "m"}}, nil)
	require.Len(t, events, 1)
	assert.Equal(t, domain.SeverityWarning, events[0].Severity)
}

func TestReferencesTarget(t *testing.T) {
	tests := []struct {
		file, target string
		want         bool
	}{
		{"a.pp", "a.pp", true},
		{"./a.pp", "a.pp", true},
		{"/abs/module/manifests/a.pp", "manifests/a.pp", true},
		{`C:\mod\manifests\a.pp`, "manifests/a.pp", true},
		{"manifests/ba.pp", "a.pp", false},
		{"b.pp", "a.pp", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, referencesTarget(tt.file, tt.target), "%s vs %s", tt.file, tt.target)
	}
}

func TestGrammar_EventsPreferExactThenLongestTarget(t *testing.T) {
	g := Grammar{}
	targets := []string{"init.pp", "manifests/init.pp"}

	events := g.Events("src", []Diagnostic{{File: "manifests/init.pp", Line: "3", Message: "boom"}}, targets)
	require.Len(t, events, 2)
	assert.Equal(t, domain.PassedEvent("src", "init.pp"), events[0])
	assert.Equal(t, "manifests/init.pp", events[1].File)
	assert.Equal(t, domain.StateFailure, events[1].State)

	events = g.Events("src", []Diagnostic{{File: "/abs/module/manifests/init.pp", Message: "boom"}}, targets)
	require.Len(t, events, 2)
	assert.Equal(t, domain.PassedEvent("src", "init.pp"), events[0])
	assert.Equal(t, "manifests/init.pp", events[1].File)

	events = g.Events("src", []Diagnostic{{File: "./init.pp", Message: "boom"}}, targets)
	require.Len(t, events, 2)
	assert.Equal(t, domain.PassedEvent("src", "manifests/init.pp"), events[0])
	assert.Equal(t, "init.pp", events[1].File)
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		file    string
		targets []string
		want    string
		ok      bool
	}{
		{"init.pp", []string{"init.pp", "manifests/init.pp"}, "init.pp", true},
		{"manifests/init.pp", []string{"init.pp", "manifests/init.pp"}, "manifests/init.pp", true},
		{"/m/site/manifests/init.pp", []string{"init.pp", "manifests/init.pp"}, "manifests/init.pp", true},
		{"a", []string{"a"}, "a", true},
		{"x/a", []string{"a"}, "a", true},
		{"other.pp", []string{"init.pp"}, "", false},
	}
	for _, tt := range tests {
		got, ok := resolveTarget(tt.file, tt.targets)
		assert.Equal(t, tt.ok, ok, tt.file)
		assert.Equal(t, tt.want, got, tt.file)
	}
}

func TestGrammar_ParsingIsIdempotent(t *testing.T) {
	g := Grammar{Patterns: []Pattern{
		pattern("located", `^(?P<severity>\w+): (?P<message>.+) at (?P<file>[^:\s]+):(?P<line>\d+):(?P<column>\d+)$`),
	}}
	output := "error: msg at a.pp:3:5\nerror: oops\n"
	targets := []string{"a.pp", "b.pp"}

	first := g.Events("src", g.Parse(output), targets)
	second := g.Events("src", g.Parse(output), targets)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, domain.PassedEvent("src", "b.pp"), first[0])
	assert.Equal(t, "a.pp", first[1].File)
	assert.Equal(t, "5", first[1].Column)
	assert.Empty(t, first[2].File)
	assert.Equal(t, "error: oops", first[2].Message)
}
