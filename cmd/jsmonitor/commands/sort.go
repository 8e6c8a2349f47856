package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jsmonitor/jsmonitor/internal/scan"
	"github.com/jsmonitor/jsmonitor/internal/sortimports"
)

// SortCommand holds the flags for the sort command.
type SortCommand struct {
	check bool
}

// NewSortCommand creates and configures the sort command.
func NewSortCommand() *cobra.Command {
	cmd := &SortCommand{}

	cobraCmd := &cobra.Command{
		Use:   "sort [directory]",
		Short: "Sort and normalize import statements",
		Long: `Sort the leading import block of every source file: package imports
first, then relative imports by directory distance, alphabetical
within each group. Files are rewritten in place unless --check is
given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVar(&cmd.check, "check", false, "Report files with unsorted imports instead of rewriting them")

	return cobraCmd
}

// Run executes the sort command.
func (c *SortCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	applyColorFlag(cmd)

	logger := newLogger(cmd)
	dir := targetDir(args)
	out := cmd.OutOrStdout()

	result, err := scan.Find(dir, scanOptions(cfg, logger))
	if err != nil {
		return err
	}

	changed := 0

	for _, file := range result.Files {
		original, readErr := os.ReadFile(file)
		if readErr != nil {
			logger.Warn("skipped file", "error", readErr)

			continue
		}

		formatted := sortimports.Format(string(original))
		if formatted == string(original) {
			continue
		}

		changed++

		if c.check {
			fmt.Fprintf(out, "%s %s\n", color.YellowString("~"), file)

			continue
		}

		info, statErr := os.Stat(file)
		mode := os.FileMode(0o644)

		if statErr == nil {
			mode = info.Mode()
		}

		if writeErr := os.WriteFile(file, []byte(formatted), mode); writeErr != nil {
			return fmt.Errorf("write %s: %w", file, writeErr)
		}

		fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), file)
	}

	if !isQuiet(cmd) {
		verb := "sorted"
		if c.check {
			verb = "need sorting"
		}

		fmt.Fprintf(out, "%d of %d files %s\n", changed, len(result.Files), verb)
	}

	if c.check && changed > 0 {
		return fmt.Errorf("%w: %d files need sorting", ErrFindings, changed)
	}

	return nil
}
