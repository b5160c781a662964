package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// ConsolePrinter renders a short styled summary to a terminal. The
// diffable report file stays plain; styling is console-only.
type ConsolePrinter struct {
	out io.Writer
}

// NewConsolePrinter creates a printer writing to out.
func NewConsolePrinter(out io.Writer) *ConsolePrinter {
	return &ConsolePrinter{out: out}
}

// Print writes the styled run summary.
func (p *ConsolePrinter) Print(r *Report) {
	fmt.Fprintln(p.out, headerStyle.Render("skillcheck results"))
	fmt.Fprintln(p.out)

	for _, res := range r.Suites {
		mark := passStyle.Render("✓")
		if !res.Passed {
			mark = failStyle.Render("✗")
		}
		line := fmt.Sprintf("%s %s %s", mark, res.Name,
			mutedStyle.Render(fmt.Sprintf("(%d/%d tests, %s)",
				res.Stats.Passed, res.Stats.Total, res.Duration.Round(time.Millisecond))))
		fmt.Fprintln(p.out, line)
		if res.Err != nil {
			fmt.Fprintln(p.out, mutedStyle.Render("  "+res.Err.Error()))
		}
	}

	fmt.Fprintln(p.out)
	if r.OverallPassed {
		fmt.Fprintln(p.out, passStyle.Render(fmt.Sprintf("PASSED: %d/%d suites, %.1f%% tests",
			r.Totals.SuitesPassed, r.Totals.Suites, r.Totals.SuccessRate)))
	} else {
		fmt.Fprintln(p.out, failStyle.Render(fmt.Sprintf("FAILED: %d/%d suites passed",
			r.Totals.SuitesPassed, r.Totals.Suites)))
	}
}
