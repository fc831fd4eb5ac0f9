package validator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/modkit/modkit/internal/domain"
)

var yamlErrorGrammar = Grammar{
	Patterns: []Pattern{
		pattern("line", `^yaml: line (?P<line>\d+): (?P<message>.+)$`),
		pattern("message", `^yaml: (?P<message>.+)$`),
	},
}

// YAMLSyntax checks that Hiera data and other YAML files parse. Every document
// in a multi-document stream is decoded.
type YAMLSyntax struct {
	inProcessBase
}

func NewYAMLSyntax() *YAMLSyntax { return &YAMLSyntax{} }

func (v *YAMLSyntax) Name() string { return "yaml-syntax" }

func (v *YAMLSyntax) SpinnerText() string {
	return "Checking YAML syntax (**/*.yaml **/*.yml)."
}

func (v *YAMLSyntax) Pattern(rc domain.RunContext) []string {
	return rc.ContextualPatterns("**/*.yaml", "**/*.yml")
}

func (v *YAMLSyntax) PatternIgnore(rc domain.RunContext) []string {
	return rc.ContextualPatterns("vendor/**/*.yaml", "vendor/**/*.yml")
}

func (v *YAMLSyntax) CheckTargets(ctx context.Context, report *domain.Report, root string, targets []string) error {
	var events []domain.Event
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			break
		}
		events = append(events, v.checkFile(root, target))
	}
	report.Add(events...)
	return nil
}

func (v *YAMLSyntax) checkFile(root, target string) domain.Event {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(target)))
	if err != nil {
		return v.failure(target, "", fmt.Sprintf("unable to read file: %v", err))
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return domain.PassedEvent(v.Name(), target)
		}
		if err != nil {
			if d, ok := yamlErrorGrammar.Match(err.Error()); ok {
				return v.failure(target, d.Line, d.Message)
			}
			return v.failure(target, "", err.Error())
		}
	}
}

func (v *YAMLSyntax) failure(file, line, msg string) domain.Event {
	return domain.Event{
		Source:   v.Name(),
		File:     file,
		Line:     line,
		Severity: domain.SeverityError,
		State:    domain.StateFailure,
		Message:  msg,
	}
}
