package validator

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/modkit/modkit/internal/domain"
)

// MetadataJSONLint checks metadata.json against the module metadata style rules.
type MetadataJSONLint struct {
	noResources
}

func NewMetadataJSONLint() *MetadataJSONLint { return &MetadataJSONLint{} }

func (v *MetadataJSONLint) Name() string    { return "metadata-json-lint" }
func (v *MetadataJSONLint) Command() string { return "metadata-json-lint" }

func (v *MetadataJSONLint) SpinnerText() string {
	return "Checking module metadata style (metadata.json)."
}

func (v *MetadataJSONLint) Pattern(rc domain.RunContext) []string {
	return rc.ContextualPatterns("metadata.json")
}

func (v *MetadataJSONLint) PatternIgnore(_ domain.RunContext) []string { return nil }

func (v *MetadataJSONLint) PerTarget() bool { return true }

func (v *MetadataJSONLint) BuildArgs(targets []string) []string {
	args := []string{"--format", "json", "--strict-dependencies"}
	return append(args, targets...)
}

type metadataLintOffense struct {
	Check string `json:"check"`
	Msg   string `json:"msg"`
}

type metadataLintOutput struct {
	Errors   []metadataLintOffense `json:"errors"`
	Warnings []metadataLintOffense `json:"warnings"`
}

// ParseOutput reads the tool's JSON document. The tool checks one file per
// invocation, so every offense belongs to the single target. Output that is
// not JSON means the tool itself failed; its first line becomes a file-less
// failure.
func (v *MetadataJSONLint) ParseOutput(report *domain.Report, result domain.CommandResult, targets []string) error {
	var out metadataLintOutput
	if err := json.Unmarshal(bytes.TrimSpace(result.Stdout), &out); err != nil {
		report.Add(domain.Event{
			Source:   v.Name(),
			Severity: domain.SeverityError,
			State:    domain.StateFailure,
			Message:  firstLine(result.Stderr, result.Stdout),
		})
		return nil
	}

	var file string
	if len(targets) > 0 {
		file = targets[0]
	}

	var events []domain.Event
	add := func(offenses []metadataLintOffense, sev domain.Severity) {
		for _, o := range offenses {
			events = append(events, domain.Event{
				Source:   v.Name(),
				File:     file,
				Test:     o.Check,
				Severity: sev,
				State:    domain.StateFailure,
				Message:  o.Msg,
			})
		}
	}
	add(out.Errors, domain.SeverityError)
	add(out.Warnings, domain.SeverityWarning)

	if len(events) == 0 {
		for _, t := range targets {
			events = append(events, domain.PassedEvent(v.Name(), t))
		}
	}
	report.Add(events...)
	return nil
}

// firstLine returns the first non-blank line across streams, in order.
func firstLine(streams ...[]byte) string {
	for _, s := range streams {
		for _, line := range lineBreak.Split(string(s), -1) {
			if l := strings.TrimSpace(line); l != "" {
				return l
			}
		}
	}
	return "no output"
}
