package report

import (
	"fmt"
	"strings"
	"time"
)

// checklist is the static set of manual-verification items appended to
// every report. Automated suites cannot cover these.
var checklist = []string{
	"Navigate to a real site and confirm the page renders",
	"Take a screenshot and verify it is written to the output directory",
	"Run a selector query against a dynamic page",
	"Confirm the browser profile directory is reused between runs",
	"Check that instruction-file commands match the current script names",
}

// Render produces the fixed-structure textual report. Identical input
// yields identical output, so consecutive reports can be diffed.
func Render(r *Report) string {
	var b strings.Builder

	b.WriteString("# Skill Validation Report\n\n")
	if r.OverallPassed {
		b.WriteString("**Status:** ✅ PASSED\n\n")
	} else {
		b.WriteString("**Status:** ❌ FAILED\n\n")
	}
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", r.Timestamp.Format(time.RFC3339)))
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("**Run:** %s\n\n", r.RunID))
	}
	if r.Mode != "" {
		b.WriteString(fmt.Sprintf("**Mode:** %s\n\n", r.Mode))
	}
	if r.Root != "" {
		b.WriteString(fmt.Sprintf("**Installation:** %s\n\n", r.Root))
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Suites | %d |\n", r.Totals.Suites))
	b.WriteString(fmt.Sprintf("| Suites passed | %d |\n", r.Totals.SuitesPassed))
	b.WriteString(fmt.Sprintf("| Tests | %d |\n", r.Totals.Tests))
	b.WriteString(fmt.Sprintf("| Tests passed | %d |\n", r.Totals.TestsPassed))
	b.WriteString(fmt.Sprintf("| Tests failed | %d |\n", r.Totals.TestsFailed))
	b.WriteString(fmt.Sprintf("| Success rate | %.1f%% |\n\n", r.Totals.SuccessRate))

	b.WriteString("## Suites\n\n")
	for _, res := range r.Suites {
		status := "✅"
		if !res.Passed {
			status = "❌"
		}
		b.WriteString(fmt.Sprintf("### %s %s\n\n", status, res.Name))
		if res.Description != "" {
			b.WriteString(res.Description + "\n\n")
		}
		b.WriteString(fmt.Sprintf("- Tests: %d total, %d passed, %d failed\n",
			res.Stats.Total, res.Stats.Passed, res.Stats.Failed))
		b.WriteString(fmt.Sprintf("- Duration: %s\n", res.Duration.Round(time.Millisecond)))
		b.WriteString(fmt.Sprintf("- Exit code: %d\n", res.ExitCode))
		if res.Err != nil {
			b.WriteString(fmt.Sprintf("- Error: %s\n", res.Err))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Manual verification checklist\n\n")
	for _, item := range checklist {
		b.WriteString(fmt.Sprintf("- [ ] %s\n", item))
	}
	b.WriteString("\n## Next steps\n\n")
	if r.OverallPassed {
		b.WriteString("All automated suites passed. Work through the manual checklist above\n")
		b.WriteString("to confirm behavior the suites cannot observe.\n")
	} else {
		b.WriteString("One or more suites failed. Inspect the failed suites listed above,\n")
		b.WriteString("fix the underlying issue, and re-run the harness before any manual\n")
		b.WriteString("verification.\n")
	}

	return b.String()
}
