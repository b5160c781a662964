package suite

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultOutputLimit caps the combined stdout/stderr captured from
	// one suite. A suite that exceeds it is treated as failed.
	DefaultOutputLimit = 1 << 20 // 1 MiB

	// DefaultTimeout bounds the wall-clock time of one suite.
	DefaultTimeout = 5 * time.Minute
)

// ErrOutputLimit indicates a suite produced more output than the
// runner is willing to buffer.
var ErrOutputLimit = errors.New("suite output exceeded buffer limit")

// SpawnError wraps a failure to start a suite process at all, as
// opposed to a suite that ran and failed.
type SpawnError struct {
	Suite  string
	Script string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn suite %q (%s): %v", e.Suite, e.Script, e.Err)
}

// Unwrap returns the underlying error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Config controls how suites are executed.
type Config struct {
	// OutputLimit is the combined output ceiling in bytes.
	OutputLimit int `yaml:"output_limit"`
	// Timeout bounds each suite's wall-clock runtime.
	Timeout time.Duration `yaml:"timeout"`
	// Interpreter runs the suite scripts. Defaults to bash.
	Interpreter string `yaml:"interpreter"`
}

// DefaultConfig returns runner defaults matching real invocations of
// the skill's test scripts.
func DefaultConfig() Config {
	return Config{
		OutputLimit: DefaultOutputLimit,
		Timeout:     DefaultTimeout,
		Interpreter: "bash",
	}
}

// Runner executes test suites sequentially as subprocesses.
type Runner struct {
	config Config
}

// NewRunner creates a runner. Zero config fields fall back to defaults.
func NewRunner(config Config) *Runner {
	defaults := DefaultConfig()
	if config.OutputLimit <= 0 {
		config.OutputLimit = defaults.OutputLimit
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Interpreter == "" {
		config.Interpreter = defaults.Interpreter
	}
	return &Runner{config: config}
}

// Run executes a single suite with the installation root as working
// directory, so suites resolve their own relative paths the way real
// invocations would.
func (r *Runner) Run(ctx context.Context, spec Spec, root string) Result {
	result := Result{Name: spec.Name, Description: spec.Description}

	execCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	buf := newCappedBuffer(r.config.OutputLimit)
	cmd := exec.CommandContext(execCtx, r.config.Interpreter, spec.Script)
	cmd.Dir = root
	cmd.Stdout = buf
	cmd.Stderr = buf

	start := time.Now()
	err := cmd.Start()
	if err != nil {
		// The process never started: missing interpreter or script.
		result.Passed = false
		result.Stats = Stats{Total: 0, Passed: 0, Failed: 1}
		result.ExitCode = -1
		result.Err = &SpawnError{Suite: spec.Name, Script: spec.Script, Err: err}
		result.Duration = time.Since(start)
		return result
	}

	waitErr := cmd.Wait()
	result.Duration = time.Since(start)
	result.Output = buf.String()
	result.ExitCode = cmd.ProcessState.ExitCode()

	switch {
	case buf.Overflowed():
		result.Passed = false
		result.Err = ErrOutputLimit
	case execCtx.Err() == context.DeadlineExceeded:
		result.Passed = false
		result.Err = fmt.Errorf("suite %q timed out after %s", spec.Name, r.config.Timeout)
	default:
		// The exit code is the authoritative verdict. Printed counters
		// feed statistics only and never flip pass/fail.
		result.Passed = waitErr == nil && result.ExitCode == 0
		if waitErr != nil && result.ExitCode < 0 {
			result.Err = waitErr
		}
	}

	result.Stats = parseStats(result.Output, result.Passed)
	if result.Err == ErrOutputLimit || result.ExitCode < 0 {
		result.Stats = Stats{Total: 0, Passed: 0, Failed: 1}
	}

	return result
}

// RunAll executes every suite exactly once, in the configured order,
// one at a time. A suite's failure never prevents later suites from
// running; only caller cancellation stops the sequence early.
func (r *Runner) RunAll(ctx context.Context, specs []Spec, root string) []Result {
	results := make([]Result, 0, len(specs))
	for _, spec := range specs {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.Run(ctx, spec, root))
	}
	return results
}

var (
	totalRe  = regexp.MustCompile(`(?mi)^\s*Total:\s*(\d+)`)
	passedRe = regexp.MustCompile(`(?mi)^\s*Passed:\s*(\d+)`)
	failedRe = regexp.MustCompile(`(?mi)^\s*Failed:\s*(\d+)`)
)

// parseStats extracts the optional textual counters. A suite that
// prints none contributes a single synthetic test so the summary never
// shows a suite with zero coverage.
func parseStats(output string, passed bool) Stats {
	total, okTotal := matchCounter(totalRe, output)
	pass, okPass := matchCounter(passedRe, output)
	fail, okFail := matchCounter(failedRe, output)

	if !okTotal && !okPass && !okFail {
		if passed {
			return Stats{Total: 1, Passed: 1, Failed: 0}
		}
		return Stats{Total: 0, Passed: 0, Failed: 1}
	}

	if !okTotal {
		total = pass + fail
	}
	return Stats{Total: total, Passed: pass, Failed: fail}
}

func matchCounter(re *regexp.Regexp, output string) (int, bool) {
	m := re.FindStringSubmatch(output)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// cappedBuffer accumulates output up to a fixed ceiling. Writes past
// the ceiling mark the buffer overflowed and fail, which terminates
// the child's output copy.
type cappedBuffer struct {
	mu       sync.Mutex
	data     []byte
	limit    int
	overflow bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.overflow {
		return 0, ErrOutputLimit
	}
	remaining := b.limit - len(b.data)
	if len(p) > remaining {
		b.data = append(b.data, p[:remaining]...)
		b.overflow = true
		return remaining, ErrOutputLimit
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *cappedBuffer) Overflowed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflow
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}
