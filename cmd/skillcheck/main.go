// Package main provides the skillcheck CLI: it locates the installed
// browser-automation skill, optionally prepares its dependencies, runs
// the skill's test suites and writes a single validation report.
//
// Exit codes: 0 all suites passed, 1 one or more suites failed,
// 2 fatal (no installation found or dependency setup failed).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/skillcheck/pkg/harness"
)

const version = "0.1.0"

// cliConfig holds command-line configuration.
type cliConfig struct {
	configFile  string
	setup       bool
	verbose     bool
	showVersion bool
}

func main() {
	cli := parseFlags()

	if cli.showVersion {
		fmt.Printf("skillcheck v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		cancel()
	}()

	code, err := run(ctx, cli)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "skillcheck: %v\n", err)
	}
	os.Exit(code)
}

func parseFlags() *cliConfig {
	cli := &cliConfig{}

	flag.StringVar(&cli.configFile, "config", "", "Path to configuration file (YAML)")
	flag.BoolVar(&cli.setup, "setup", false, "Install skill dependencies before running suites")
	flag.BoolVar(&cli.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&cli.showVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "skillcheck - validation harness for the browser-automation skill\n\n")
		fmt.Fprintf(os.Stderr, "Usage: skillcheck [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Run all suites against the detected installation\n")
		fmt.Fprintf(os.Stderr, "  skillcheck\n\n")
		fmt.Fprintf(os.Stderr, "  # Install dependencies first, then run\n")
		fmt.Fprintf(os.Stderr, "  skillcheck -setup\n\n")
		fmt.Fprintf(os.Stderr, "  # Run with a custom suite configuration\n")
		fmt.Fprintf(os.Stderr, "  skillcheck -config skillcheck.yaml\n\n")
	}

	flag.Parse()
	return cli
}

func run(ctx context.Context, cli *cliConfig) (int, error) {
	config, err := loadConfig(cli)
	if err != nil {
		return harness.ExitFatal, err
	}

	h, err := harness.New(config)
	if err != nil {
		return harness.ExitFatal, err
	}

	return h.Run(ctx, cli.setup)
}

func loadConfig(cli *cliConfig) (*harness.Config, error) {
	config := harness.DefaultConfig()
	if cli.configFile != "" {
		loaded, err := harness.LoadConfig(cli.configFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if cli.verbose {
		config.Verbose = true
	}
	return config, nil
}
