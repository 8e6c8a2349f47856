// Package commands implements the jsmonitor CLI subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jsmonitor/jsmonitor/internal/config"
	"github.com/jsmonitor/jsmonitor/internal/registry"
	"github.com/jsmonitor/jsmonitor/internal/scan"
)

// ErrFindings marks a run that completed but reported findings
// (missing assets, unsorted files, failed installs). main maps it to
// exit code 1, distinct from setup failures.
var ErrFindings = errors.New("findings reported")

// loadConfig reads the persistent --config flag and loads the
// configuration stack (file, environment, defaults).
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// newLogger builds the diagnostics logger from the persistent
// --verbose/--quiet flags. Diagnostics go to stderr so report output
// stays pipeable.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := slog.LevelWarn

	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// applyColorFlag honors the persistent --no-color flag process-wide.
func applyColorFlag(cmd *cobra.Command) {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}
}

// isQuiet reports the persistent --quiet flag.
func isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool("quiet")

	return quiet
}

// scanOptions converts the scan configuration section into scan
// options, compiling the ignore patterns. Invalid patterns are logged
// and skipped rather than aborting the run.
func scanOptions(cfg *config.Config, logger *slog.Logger) scan.Options {
	regexps, errs := scan.CompileIgnoreRegexps(cfg.Scan.IgnorePatterns)
	for _, err := range errs {
		logger.Warn("ignoring invalid pattern", "error", err)
	}

	return scan.Options{
		Extensions:       cfg.Scan.Extensions,
		IgnoreDirs:       cfg.Scan.IgnoreDirs,
		IgnoreSubstrings: cfg.Scan.IgnoreSubstrings,
		IgnoreRegexps:    regexps,
		SkipVendored:     cfg.Scan.SkipVendored,
	}
}

// newRegistryClient builds the npm registry client from configuration,
// with an optional per-command URL override.
func newRegistryClient(cfg *config.Config, urlOverride string) *registry.Client {
	baseURL := cfg.Registry.URL
	if urlOverride != "" {
		baseURL = urlOverride
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.Registry.TimeoutSeconds) * time.Second}

	return registry.NewClient(baseURL, httpClient)
}

// targetDir resolves the optional positional directory argument,
// defaulting to the current directory.
func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}
