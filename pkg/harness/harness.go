// Package harness wires the locator, validator, suite runner and
// report aggregator into one run: resolve the installation under test,
// optionally prepare its dependencies, execute every suite once, and
// leave a single report plus an exit code behind.
package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/entrhq/skillcheck/pkg/install"
	"github.com/entrhq/skillcheck/pkg/logging"
	"github.com/entrhq/skillcheck/pkg/report"
	"github.com/entrhq/skillcheck/pkg/setup"
	"github.com/entrhq/skillcheck/pkg/suite"
	"github.com/entrhq/skillcheck/pkg/validate"
)

// Exit codes the CLI surfaces. CI should depend on nothing else.
const (
	ExitPassed = 0
	ExitFailed = 1
	// ExitFatal covers failures before any suite could run: no
	// installation found, or dependency setup failed.
	ExitFatal = 2
)

// tempFilePattern matches stale execution scratch files the skill's
// executor leaves behind after a crash.
const tempFilePattern = ".temp-execution-*"

// Harness is the top-level orchestrator.
type Harness struct {
	config    *Config
	locator   *install.Locator
	validator *validate.Validator
	runner    *suite.Runner
	installer *setup.Installer
	logger    *logging.Logger
	out       io.Writer
}

// Option configures a Harness.
type Option func(*options)

type options struct {
	workDir string
	homeDir string
	out     io.Writer
}

// WithWorkDir overrides the working directory used for detection.
func WithWorkDir(dir string) Option {
	return func(o *options) { o.workDir = dir }
}

// WithHomeDir overrides the home directory used for production paths.
func WithHomeDir(dir string) Option {
	return func(o *options) { o.homeDir = dir }
}

// WithOutput redirects the console summary.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// New creates a harness from a validated configuration.
func New(config *Config, opts ...Option) (*Harness, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	locatorOpts := []install.Option{
		install.WithMarketplacePattern(config.MarketplacePattern),
	}
	if o.workDir != "" {
		locatorOpts = append(locatorOpts, install.WithWorkDir(o.workDir))
	}
	if o.homeDir != "" {
		locatorOpts = append(locatorOpts, install.WithHomeDir(o.homeDir))
	}

	locator, err := install.NewLocator(config.SkillName, config.Manifest, locatorOpts...)
	if err != nil {
		return nil, err
	}

	level := logging.LevelInfo
	if config.Verbose {
		level = logging.LevelDebug
	}
	logger, logErr := logging.New("harness", level)
	if logErr != nil {
		// Fallback logger already reports to stderr; keep going.
		logger.Warnf("continuing with stderr logging")
	}

	validator := validate.NewValidator(nil)

	return &Harness{
		config:    config,
		locator:   locator,
		validator: validator,
		runner:    suite.NewRunner(config.Runner),
		installer: setup.NewInstaller(validator, config.Setup),
		logger:    logger,
		out:       o.out,
	}, nil
}

// Run performs one full harness invocation and returns the process
// exit code. The returned error carries detail for fatal outcomes;
// ordinary suite failures are data in the report, not errors.
func (h *Harness) Run(ctx context.Context, withSetup bool) (int, error) {
	defer h.logger.Close()

	target, detection, err := h.locator.Resolve()
	if err != nil {
		h.logger.Errorf("installation not found: %v", err)
		return ExitFatal, err
	}
	h.logger.Infof("testing %s installation at %s (mode: %s)", target.Name, target.Path, detection.Mode)

	h.cleanupTempFiles(target.Path)

	if withSetup {
		h.logger.Infof("running dependency setup")
		if err := h.installer.Run(ctx, target.Path); err != nil {
			h.logger.Errorf("dependency setup failed: %v", err)
			return ExitFatal, fmt.Errorf("dependency setup failed: %w", err)
		}
	}

	results := h.runner.RunAll(ctx, h.config.Suites, target.Path)
	for _, res := range results {
		h.logger.Debugf("suite %s: passed=%v exit=%d duration=%s", res.Name, res.Passed, res.ExitCode, res.Duration)
	}

	rep := report.Aggregate(results)
	rep.RunID = logging.RunID()
	rep.Mode = string(detection.Mode)
	rep.Root = target.Path

	writer := report.NewWriter(target.Path, h.config.ReportFile, h.config.ManualDoc)
	path, err := writer.Write(rep)
	if err != nil {
		// The run itself is still meaningful; report the verdict and
		// surface the write problem in the log.
		h.logger.Warnf("failed to persist report: %v", err)
	} else {
		h.logger.Infof("report written to %s", path)
	}

	report.NewConsolePrinter(h.out).Print(rep)

	return rep.ExitCode(), nil
}

// cleanupTempFiles removes stale scratch files a crashed previous run
// may have left in the installation root.
func (h *Harness) cleanupTempFiles(root string) {
	matches, err := filepath.Glob(filepath.Join(root, tempFilePattern))
	if err != nil {
		return
	}
	for _, match := range matches {
		if err := os.Remove(match); err == nil {
			h.logger.Debugf("removed stale temp file %s", match)
		}
	}
}
