package domain

import (
	"strings"
)

// Severity is the diagnostic level of an Event.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity maps the severity words emitted by checking tools onto the
// three levels the report knows about. Unknown words are treated as errors.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok", "passed":
		return SeverityOK
	case "warning", "warn", "notice", "info":
		return SeverityWarning
	default:
		return SeverityError
	}
}

// State is the outcome an Event records.
type State string

const (
	StatePassed  State = "passed"
	StateFailure State = "failure"
	// StateFatal marks an infrastructure failure (tool missing, setup failed)
	// rather than a finding about the checked content.
	StateFatal State = "fatal"
)

// Target is a single file selected for checking.
type Target struct {
	Path string `json:"path"`
	Rel  string `json:"rel"`
}

// Event is one finding, or the explicit pass of a target, produced by a validator.
// Line and Column are kept verbatim as the tool printed them.
type Event struct {
	Source   string   `json:"source"`
	File     string   `json:"file,omitempty"`
	Line     string   `json:"line,omitempty"`
	Column   string   `json:"column,omitempty"`
	Test     string   `json:"test,omitempty"`
	Severity Severity `json:"severity"`
	State    State    `json:"state"`
	Message  string   `json:"message,omitempty"`
}

// PassedEvent records that target was checked by source and had no findings.
func PassedEvent(source, target string) Event {
	return Event{
		Source:   source,
		File:     target,
		Severity: SeverityOK,
		State:    StatePassed,
	}
}

// FatalEvent records an infrastructure failure for source.
func FatalEvent(source, message string) Event {
	return Event{
		Source:   source,
		Severity: SeverityError,
		State:    StateFatal,
		Message:  message,
	}
}

func (e Event) Passed() bool { return e.State == StatePassed }

// Location renders the position suffix used by the text report, omitting
// absent fields: "at f:l:c", "at f:l", "at line l[:c]", "in f".
func (e Event) Location() string {
	switch {
	case e.File != "" && e.Line != "" && e.Column != "":
		return "at " + e.File + ":" + e.Line + ":" + e.Column
	case e.File != "" && e.Line != "":
		return "at " + e.File + ":" + e.Line
	case e.Line != "" && e.Column != "":
		return "at line " + e.Line + ":" + e.Column
	case e.Line != "":
		return "at line " + e.Line
	case e.File != "":
		return "in " + e.File
	default:
		return ""
	}
}

// Text renders the event as a single "severity: message [location]" line.
func (e Event) Text() string {
	line := string(e.Severity) + ": " + e.Message
	if loc := e.Location(); loc != "" {
		line += " " + loc
	}
	return line
}

// CaseName is the JUnit test-case name: the non-empty location parts joined
// by ":", or the source name for events that carry no location at all.
func (e Event) CaseName() string {
	var parts []string
	for _, p := range []string{e.File, e.Line, e.Column} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return e.Source
	}
	return strings.Join(parts, ":")
}

// ClassName is the JUnit classname: source, qualified by test when present.
func (e Event) ClassName() string {
	if e.Test == "" {
		return e.Source
	}
	return e.Source + "." + e.Test
}
