package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/modkit/modkit/internal/domain"
)

// ProgressPrinter writes one line when a validator starts and one when it
// finishes. Lines from parallel validators are never interleaved.
type ProgressPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{w: w}
}

// Banner writes a heading line ahead of the per-validator lines.
func (p *ProgressPrinter) Banner(text string) {
	p.println(titleStyle.Render(text))
}

func (p *ProgressPrinter) Started(name, text string) {
	p.println(fmt.Sprintf("  %s %s", accentStyle.Render("›"), text))
}

func (p *ProgressPrinter) Finished(name string, s domain.Summary) {
	var icon string
	switch {
	case s.Fatal > 0:
		icon = errorTagStyle.Render("✖")
	case s.Failures > 0:
		icon = warnStyle.Render("✖")
	default:
		icon = passStyle.Render("✔")
	}
	p.println(fmt.Sprintf("  %s %s  %s", icon, nameStyle.Render(name), summaryCounts(s)))
}

func (p *ProgressPrinter) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, line)
}
