// Package main provides the entry point for the jsmonitor CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsmonitor/jsmonitor/cmd/jsmonitor/commands"
	"github.com/jsmonitor/jsmonitor/pkg/version"
)

// Exit codes: findings (missing assets, unsorted files, failed
// installs) exit 1; setup failures (bad directory, bad config) exit 2,
// so callers can tell "nothing to do" from "could not even start".
const (
	exitFindings = 1
	exitSetup    = 2
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jsmonitor",
		Short: "jsmonitor - JavaScript/TypeScript project import tooling",
		Long: `jsmonitor scans JavaScript and TypeScript project trees and keeps
their imports honest.

Commands:
  install   Detect and install packages imported but not in node_modules
  update    Bump package.json dependencies to their latest versions
  assets    Verify that imported image/style assets exist on disk
  rewrite   Rewrite relative imports to tsconfig path aliases
  sort      Sort and normalize import statements`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("config", "", "config file (default: .jsmonitor.yaml in CWD or $HOME)")

	rootCmd.AddCommand(commands.NewInstallCommand())
	rootCmd.AddCommand(commands.NewUpdateCommand())
	rootCmd.AddCommand(commands.NewAssetsCommand())
	rootCmd.AddCommand(commands.NewRewriteCommand())
	rootCmd.AddCommand(commands.NewSortCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, commands.ErrFindings) {
			os.Exit(exitFindings)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitSetup)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "jsmonitor %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
