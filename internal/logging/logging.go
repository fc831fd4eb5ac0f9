// Package logging builds the diagnostic logger shared by one CLI invocation.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at info level, or debug when verbose.
// Report output never goes through it.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "modkit",
		Level:  level,
	})
}
