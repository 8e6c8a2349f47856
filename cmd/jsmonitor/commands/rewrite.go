package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/jsmonitor/jsmonitor/internal/scan"
	"github.com/jsmonitor/jsmonitor/internal/tsconfig"
)

// RewriteCommand holds the flags for the rewrite command.
type RewriteCommand struct {
	check    bool
	showDiff bool
}

// NewRewriteCommand creates and configures the rewrite command.
func NewRewriteCommand() *cobra.Command {
	cmd := &RewriteCommand{}

	cobraCmd := &cobra.Command{
		Use:   "rewrite [directory]",
		Short: "Rewrite relative imports to tsconfig path aliases",
		Long: `Load the path aliases from tsconfig.json (or jsconfig.json) and
rewrite relative import specifiers to their alias-qualified form.
Files are rewritten in place; with --check, files that would change
are listed instead and the command exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVar(&cmd.check, "check", false, "Report files that would change instead of rewriting them")
	cobraCmd.Flags().BoolVar(&cmd.showDiff, "diff", false, "Show a diff of the rewrites")

	return cobraCmd
}

// Run executes the rewrite command.
func (c *RewriteCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	applyColorFlag(cmd)

	logger := newLogger(cmd)
	dir := targetDir(args)
	out := cmd.OutOrStdout()

	project, err := tsconfig.Load(dir)
	if err != nil {
		return err
	}

	if len(project.Aliases) == 0 {
		fmt.Fprintf(out, "No wildcard path aliases in %s, nothing to rewrite\n", project.ConfigPath)

		return nil
	}

	result, err := scan.Find(dir, scanOptions(cfg, logger))
	if err != nil {
		return err
	}

	changed := 0

	for _, file := range result.Files {
		rewritten, didChange, fileErr := c.rewriteFile(project, file)
		if fileErr != nil {
			logger.Warn("skipped file", "error", fileErr)

			continue
		}

		if !didChange {
			continue
		}

		changed++

		glyph := color.GreenString("✓")
		if c.check {
			glyph = color.YellowString("~")
		}

		fmt.Fprintf(out, "%s %s\n", glyph, file)

		if c.showDiff {
			printDiff(cmd, rewritten)
		}
	}

	if !isQuiet(cmd) {
		verb := "rewritten"
		if c.check {
			verb = "need rewriting"
		}

		fmt.Fprintf(out, "%d of %d files %s\n", changed, len(result.Files), verb)
	}

	if c.check && changed > 0 {
		return fmt.Errorf("%w: %d files need rewriting", ErrFindings, changed)
	}

	return nil
}

// rewriteFile applies the alias rewrite to one file, writing it back
// unless --check is set. The original content is returned alongside
// the rewritten text for diff rendering.
func (c *RewriteCommand) rewriteFile(project *tsconfig.Project, file string) (rewrite, bool, error) {
	original, err := os.ReadFile(file)
	if err != nil {
		return rewrite{}, false, fmt.Errorf("read %s: %w", file, err)
	}

	updated, didChange := project.RewriteContent(string(original), filepath.Dir(file))
	if !didChange {
		return rewrite{}, false, nil
	}

	if !c.check {
		info, statErr := os.Stat(file)
		mode := os.FileMode(0o644)

		if statErr == nil {
			mode = info.Mode()
		}

		if writeErr := os.WriteFile(file, []byte(updated), mode); writeErr != nil {
			return rewrite{}, false, fmt.Errorf("write %s: %w", file, writeErr)
		}
	}

	return rewrite{before: string(original), after: updated}, true, nil
}

// rewrite pairs the before/after content of one rewritten file.
type rewrite struct {
	before string
	after  string
}

// printDiff renders a colored character diff of the rewrite.
func printDiff(cmd *cobra.Command, r rewrite) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(r.before, r.after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	fmt.Fprintln(cmd.OutOrStdout(), dmp.DiffPrettyText(diffs))
}
