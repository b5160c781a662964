package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/skillcheck/pkg/setup"
	"github.com/entrhq/skillcheck/pkg/suite"
)

// Config is the full harness configuration: which skill to locate,
// which suites to run, and where the report goes. Loaded from YAML
// over defaults, the same way real invocations configure it.
type Config struct {
	// SkillName is the directory name the skill installs under.
	SkillName string `yaml:"skill_name"`

	// Manifest is the well-known file marking a valid installation.
	Manifest string `yaml:"manifest"`

	// MarketplacePattern restricts which plugin marketplaces are
	// probed. Glob syntax; "*" probes all of them.
	MarketplacePattern string `yaml:"marketplace_pattern"`

	// Suites run in this exact order.
	Suites []suite.Spec `yaml:"suites"`

	// Runner holds subprocess execution limits.
	Runner suite.Config `yaml:"runner"`

	// Setup configures dependency installation for --setup runs.
	Setup setup.Config `yaml:"setup"`

	// ReportFile and ManualDoc name the files written into the
	// installation root. Empty selects the conventional defaults.
	ReportFile string `yaml:"report_file"`
	ManualDoc  string `yaml:"manual_doc"`

	// Verbose lowers the log level to debug.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the fixed suite set and conventions the skill
// ships with.
func DefaultConfig() *Config {
	return &Config{
		SkillName:          "playwright-skill",
		Manifest:           "SKILL.md",
		MarketplacePattern: "*",
		Suites: []suite.Spec{
			{
				Name:        "installation",
				Description: "Verifies skill files and node dependencies are present",
				Script:      "scripts/test_installation.sh",
			},
			{
				Name:        "validation",
				Description: "Checks instruction-file commands against the allowlist",
				Script:      "scripts/test_validation.sh",
			},
			{
				Name:        "basic",
				Description: "Drives a minimal browser session through run.js",
				Script:      "scripts/test_basic.sh",
			},
			{
				Name:        "error-handling",
				Description: "Exercises failure paths and temp-file cleanup",
				Script:      "scripts/test_error_handling.sh",
			},
		},
		Runner: suite.DefaultConfig(),
		Setup:  setup.DefaultConfig(),
	}
}

// Validate checks the configuration before a run.
func (c *Config) Validate() error {
	if c.SkillName == "" {
		return fmt.Errorf("skill_name is required")
	}
	if c.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if len(c.Suites) == 0 {
		return fmt.Errorf("at least one suite is required")
	}
	seen := make(map[string]bool, len(c.Suites))
	for i, spec := range c.Suites {
		if spec.Name == "" {
			return fmt.Errorf("suite at index %d has no name", i)
		}
		if spec.Script == "" {
			return fmt.Errorf("suite %q has no script", spec.Name)
		}
		if seen[spec.Name] {
			return fmt.Errorf("duplicate suite name %q", spec.Name)
		}
		seen[spec.Name] = true
	}
	if c.Runner.OutputLimit < 0 {
		return fmt.Errorf("runner output_limit cannot be negative")
	}
	if c.Runner.Timeout < 0 {
		return fmt.Errorf("runner timeout cannot be negative")
	}
	return nil
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}
