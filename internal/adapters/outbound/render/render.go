// Package render writes a finished report in the requested output formats.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/modkit/modkit/internal/domain"
)

// Renderer writes one report format.
type Renderer func(w io.Writer, report *domain.Report) error

var renderers = map[string]Renderer{
	domain.FormatText:  Text,
	domain.FormatJUnit: JUnit,
	domain.FormatJSON:  JSON,
}

// Streams are the process streams a "stdout" or "stderr" target refers to.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Write renders report once per spec. File targets are created or truncated;
// relative paths are resolved against dir.
func Write(specs []domain.FormatSpec, report *domain.Report, streams Streams, dir string) error {
	for _, spec := range specs {
		r, ok := renderers[spec.Format]
		if !ok {
			return fmt.Errorf("unknown format %q", spec.Format)
		}
		if err := writeOne(r, spec.Target, report, streams, dir); err != nil {
			return fmt.Errorf("writing %s report to %s: %w", spec.Format, spec.Target, err)
		}
	}
	return nil
}

func writeOne(r Renderer, target string, report *domain.Report, streams Streams, dir string) error {
	switch target {
	case "", "stdout":
		return r(streams.Stdout, report)
	case "stderr":
		return r(streams.Stderr, report)
	}

	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
