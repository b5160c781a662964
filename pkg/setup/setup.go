// Package setup prepares a skill installation for testing: it runs the
// skill's dependency-install commands and makes sure the Playwright
// driver and browser are available.
//
// Every command executed here is first classified by the command
// validator; a command that does not pass the allowlist is refused, not
// run. Setup failures are fatal to the harness run, before any suite
// executes.
package setup

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/skillcheck/pkg/validate"
)

// Config controls dependency setup.
type Config struct {
	// Commands are run in order against the installation root. The
	// placeholder token is substituted before validation and execution.
	Commands []string `yaml:"commands"`

	// InstallBrowsers also installs the Playwright driver and Chromium.
	InstallBrowsers bool `yaml:"install_browsers"`

	// Timeout bounds each individual command.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig installs the skill's npm dependencies and the browser.
func DefaultConfig() Config {
	return Config{
		Commands:        []string{"cd $SKILL_DIR && npm install"},
		InstallBrowsers: true,
		Timeout:         5 * time.Minute,
	}
}

// RefusedError reports a setup command the validator rejected.
type RefusedError struct {
	Command validate.Command
}

func (e *RefusedError) Error() string {
	return fmt.Sprintf("refusing to run setup command %q: %s", e.Command.Resolved, e.Command.Reason)
}

// Installer runs validated setup commands in the installation root.
type Installer struct {
	validator *validate.Validator
	config    Config
}

// NewInstaller creates an installer. A nil validator gets the default
// ruleset; zero config fields fall back to defaults.
func NewInstaller(validator *validate.Validator, config Config) *Installer {
	if validator == nil {
		validator = validate.NewValidator(nil)
	}
	if len(config.Commands) == 0 {
		config.Commands = DefaultConfig().Commands
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Installer{validator: validator, config: config}
}

// Run executes the configured setup commands against root, then the
// browser install when enabled. The first failure aborts setup; there
// is nothing to test against a half-prepared installation.
func (i *Installer) Run(ctx context.Context, root string) error {
	for _, raw := range i.config.Commands {
		cmd := i.validator.Sanitize(raw, root)
		if !cmd.Valid {
			return &RefusedError{Command: cmd}
		}
		if err := i.execute(ctx, cmd.Resolved, root); err != nil {
			return fmt.Errorf("setup command %q failed: %w", cmd.Resolved, err)
		}
	}

	if i.config.InstallBrowsers {
		if err := i.installBrowsers(); err != nil {
			return err
		}
	}
	return nil
}

// execute runs one validated command without a shell. Leading cd
// clauses move the working directory; remaining clauses are spawned
// directly, so shell metacharacters never reach an interpreter.
func (i *Installer) execute(ctx context.Context, resolved, root string) error {
	execCtx, cancel := context.WithTimeout(ctx, i.config.Timeout)
	defer cancel()

	dir := root
	for _, clause := range strings.Split(resolved, "&&") {
		fields := strings.Fields(clause)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "cd" && len(fields) == 2 {
			dir = fields[1]
			continue
		}

		cmd := exec.CommandContext(execCtx, fields[0], fields[1:]...)
		cmd.Dir = dir
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%w\noutput:\n%s", err, strings.TrimSpace(string(output)))
		}
	}
	return nil
}

// installBrowsers installs the Playwright driver plus Chromium and
// verifies the driver actually starts. Output is discarded so driver
// noise does not pollute the report.
func (i *Installer) installBrowsers() error {
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright driver: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("playwright driver installed but failed to start: %w", err)
	}
	if err := pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright driver: %w", err)
	}
	return nil
}
