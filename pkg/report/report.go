// Package report aggregates suite results into a single deterministic
// report and decides the harness exit code.
//
// The rendered text is for humans and is stable enough to diff between
// runs; the exit code is the only contract external tooling should
// depend on.
package report

import (
	"time"

	"github.com/entrhq/skillcheck/pkg/suite"
)

// Totals are the aggregate counters across all suites.
type Totals struct {
	Suites       int
	SuitesPassed int
	Tests        int
	TestsPassed  int
	TestsFailed  int
	SuccessRate  float64
}

// Report is the complete outcome of one harness run. Built once from
// the full set of suite results and never mutated afterwards.
type Report struct {
	Timestamp     time.Time
	RunID         string
	Mode          string
	Root          string
	OverallPassed bool
	Totals        Totals
	Suites        []suite.Result
}

// Aggregate combines per-suite results into a report. Overall success
// is the conjunction of every suite's exit-code-derived verdict.
func Aggregate(results []suite.Result) *Report {
	report := &Report{
		Timestamp:     time.Now().UTC(),
		OverallPassed: true,
		Suites:        results,
	}

	for _, res := range results {
		report.Totals.Suites++
		if res.Passed {
			report.Totals.SuitesPassed++
		} else {
			report.OverallPassed = false
		}
		report.Totals.Tests += res.Stats.Total
		report.Totals.TestsPassed += res.Stats.Passed
		report.Totals.TestsFailed += res.Stats.Failed
	}

	if report.Totals.Tests > 0 {
		report.Totals.SuccessRate = 100 * float64(report.Totals.TestsPassed) / float64(report.Totals.Tests)
	}

	return report
}

// ExitCode maps the overall verdict to the process exit code CI keys
// off: 0 when every suite passed, 1 otherwise.
func (r *Report) ExitCode() int {
	if r.OverallPassed {
		return 0
	}
	return 1
}
