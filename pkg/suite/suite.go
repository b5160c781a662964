// Package suite runs the skill's test suites as subprocesses and turns
// their output into structured results.
//
// Each suite is an external script whose only contract with the harness
// is its process exit code, plus optional "Total:"/"Passed:"/"Failed:"
// counters parsed for reporting. The exit code is authoritative for the
// pass/fail verdict; counters never override it.
package suite

import (
	"time"
)

// Spec is the static configuration for one test suite.
type Spec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Script      string `yaml:"script"`
}

// Stats are the textual counters a suite may print.
type Stats struct {
	Total  int
	Passed int
	Failed int
}

// Result is the outcome of one suite run. Immutable once produced;
// owned by the report aggregator afterwards.
type Result struct {
	Name        string
	Description string
	Passed      bool
	Stats       Stats
	Duration    time.Duration
	ExitCode    int
	Output      string
	Err         error
}
