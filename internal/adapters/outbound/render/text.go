package render

import (
	"bufio"
	"io"

	"github.com/modkit/modkit/internal/domain"
)

// Text writes one "severity: message location" line per event that did not
// pass, grouped by source.
func Text(w io.Writer, report *domain.Report) error {
	bw := bufio.NewWriter(w)
	for _, g := range report.Grouped() {
		for _, e := range g.Events {
			if e.Passed() {
				continue
			}
			if _, err := bw.WriteString(e.Text() + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
