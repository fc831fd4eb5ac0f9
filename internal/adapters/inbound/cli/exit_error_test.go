package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modkit/modkit/internal/application"
	"github.com/modkit/modkit/internal/domain"
)

func TestRunExit(t *testing.T) {
	passed := domain.NewReport()
	passed.Add(domain.PassedEvent("yaml-syntax", "a.yaml"))
	failed := domain.NewReport()
	failed.Add(domain.Event{Source: "yaml-syntax", Severity: domain.SeverityError, State: domain.StateFailure})

	tests := []struct {
		name   string
		report *domain.Report
		err    error
		want   int
	}{
		{"passed", passed, nil, domain.ExitPassed},
		{"failed", failed, nil, domain.ExitFailure},
		{"interrupted", failed, fmt.Errorf("run: %w", application.ErrInterrupted), domain.ExitInterrupted},
		{"defect", passed, &application.DefectError{Group: "syntax", Defects: []error{errors.New("boom")}}, domain.ExitFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(runExit(tt.report, tt.err)))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "exit status 1", (&ExitError{Code: 1}).Error())
	inner := errors.New("boom")
	err := &ExitError{Code: 2, Err: inner}
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, inner)
}
