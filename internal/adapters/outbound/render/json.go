package render

import (
	"encoding/json"
	"io"

	"github.com/modkit/modkit/internal/domain"
)

type jsonReport struct {
	Summary  domain.Summary `json:"summary"`
	ExitCode int            `json:"exit_code"`
	Sources  []jsonSource   `json:"sources"`
}

type jsonSource struct {
	Name   string         `json:"name"`
	Events []domain.Event `json:"events"`
}

// JSON writes the grouped events with the run summary.
func JSON(w io.Writer, report *domain.Report) error {
	out := jsonReport{
		Summary:  report.Summary(),
		ExitCode: report.ExitCode(),
		Sources:  []jsonSource{},
	}
	for _, g := range report.Grouped() {
		out.Sources = append(out.Sources, jsonSource{Name: g.Source, Events: g.Events})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
