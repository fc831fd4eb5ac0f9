package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modkit/modkit/internal/domain"
	"github.com/modkit/modkit/internal/domain/validator"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	accentStyle   = lipgloss.NewStyle().Foreground(accent)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
)

// RenderSummary formats the closing line of a run.
func RenderSummary(s domain.Summary, exitCode int) string {
	var b strings.Builder
	b.WriteString("\n  ")
	switch exitCode {
	case domain.ExitPassed:
		b.WriteString(passStyle.Render("✔ all checks passed"))
	case domain.ExitFailure:
		b.WriteString(warnStyle.Render("✖ checks failed"))
	case domain.ExitInterrupted:
		b.WriteString(errorTagStyle.Render("✖ interrupted"))
	default:
		b.WriteString(errorTagStyle.Render("✖ validation could not complete"))
	}
	b.WriteString("  ")
	b.WriteString(summaryCounts(s))
	b.WriteString("\n")
	return b.String()
}

func summaryCounts(s domain.Summary) string {
	parts := []string{passStyle.Render(fmt.Sprintf("%d passed", s.Passed))}
	if s.Failures > 0 {
		parts = append(parts, warnStyle.Render(plural(s.Failures, "failure", "failures")))
	}
	if s.Fatal > 0 {
		parts = append(parts, failStyle.Render(fmt.Sprintf("%d fatal", s.Fatal)))
	}
	return strings.Join(parts, dimStyle.Render(" · "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// RenderValidators lists the registered validators by group.
func RenderValidators(descs []validator.Description) string {
	var b strings.Builder
	group := ""
	for _, d := range descs {
		if d.Group != group {
			if group != "" {
				b.WriteString("\n")
			}
			group = d.Group
			b.WriteString(titleStyle.Render(group) + "\n")
		}
		fmt.Fprintf(&b, "  %s %s\n", nameStyle.Render(padRight(d.Name, 20)), dimStyle.Render(d.Description))
	}
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats recorded runs for terminal output, oldest first.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 56)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04")),
			faintStyle.Render(hash),
			exitStyle(e.ExitCode).Render(fmt.Sprintf("exit %d", e.ExitCode)),
			summaryCounts(e.Summary),
		)

		if i > 0 {
			diff := e.Summary.Failures + e.Summary.Fatal - entries[i-1].Summary.Failures - entries[i-1].Summary.Fatal
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func exitStyle(code int) lipgloss.Style {
	switch code {
	case domain.ExitPassed:
		return passStyle
	case domain.ExitFailure:
		return warnStyle
	default:
		return failStyle
	}
}
