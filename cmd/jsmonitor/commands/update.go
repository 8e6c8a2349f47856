package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jsmonitor/jsmonitor/internal/manifest"
	"github.com/jsmonitor/jsmonitor/internal/reconcile"
)

// UpdateCommand holds the flags for the update command.
type UpdateCommand struct {
	dryRun   bool
	registry string
}

// NewUpdateCommand creates and configures the update command.
func NewUpdateCommand() *cobra.Command {
	cmd := &UpdateCommand{}

	cobraCmd := &cobra.Command{
		Use:   "update [directory]",
		Short: "Bump package.json dependencies to their latest versions",
		Long: `Look up the latest published version for every dependency and
devDependency in package.json and rewrite the manifest with caret
ranges of those versions. Run npm install afterwards to apply them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVar(&cmd.dryRun, "dry-run", false, "Show the update plan without writing package.json")
	cobraCmd.Flags().StringVar(&cmd.registry, "registry", "", "Registry base URL (overrides config)")

	return cobraCmd
}

// Run executes the update command.
func (c *UpdateCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	applyColorFlag(cmd)

	dir := targetDir(args)
	out := cmd.OutOrStdout()

	m, err := manifest.Load(dir)
	if err != nil {
		return err
	}

	client := newRegistryClient(cfg, c.registry)
	ctx := cmd.Context()

	deps := reconcile.PlanUpdates(ctx, client, m.Dependencies())
	devDeps := reconcile.PlanUpdates(ctx, client, m.DevDependencies())

	renderUpdatePlan(out, "dependencies", deps)
	renderUpdatePlan(out, "devDependencies", devDeps)

	failed := countFailures(deps) + countFailures(devDeps)

	if c.dryRun {
		if failed > 0 {
			return fmt.Errorf("%w: %d lookups failed", ErrFindings, failed)
		}

		return nil
	}

	m.MergeDependencies(outOfDateVersions(deps))
	m.MergeDevDependencies(outOfDateVersions(devDeps))

	if err := m.Save(); err != nil {
		return err
	}

	if !isQuiet(cmd) {
		fmt.Fprintf(out, "Updated %s\n", m.Path())
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d lookups failed", ErrFindings, failed)
	}

	return nil
}

// renderUpdatePlan prints one manifest section as a table. Empty
// sections are skipped.
func renderUpdatePlan(out io.Writer, title string, results []reconcile.UpdateResult) {
	if len(results) == 0 {
		return
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(out)
	writer.SetTitle(title)
	writer.AppendHeader(table.Row{"Package", "Current", "Latest", "Status"})

	for _, result := range results {
		writer.AppendRow(table.Row{result.Name, result.Current, latestCell(result), statusCell(result)})
	}

	writer.SetStyle(table.StyleLight)
	writer.Render()
}

func latestCell(result reconcile.UpdateResult) string {
	if result.Err != nil {
		return "-"
	}

	return result.Latest
}

func statusCell(result reconcile.UpdateResult) string {
	switch {
	case result.Err != nil:
		return color.RedString("error")
	case result.OutOfDate():
		return color.YellowString("outdated")
	default:
		return color.GreenString("current")
	}
}

func countFailures(results []reconcile.UpdateResult) int {
	count := 0

	for _, result := range results {
		if result.Err != nil {
			count++
		}
	}

	return count
}

// outOfDateVersions filters the plan down to entries that actually
// change, so up-to-date ranges keep their existing spelling.
func outOfDateVersions(results []reconcile.UpdateResult) map[string]string {
	versions := make(map[string]string)

	for _, result := range results {
		if result.OutOfDate() {
			versions[result.Name] = result.Latest
		}
	}

	return versions
}
