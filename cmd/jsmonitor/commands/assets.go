package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"

	"github.com/jsmonitor/jsmonitor/internal/assets"
	"github.com/jsmonitor/jsmonitor/internal/imports"
	"github.com/jsmonitor/jsmonitor/internal/scan"
)

// progressRenderInterval is how often the assets progress bar redraws.
const progressRenderInterval = 100 * time.Millisecond

// AssetsCommand holds the flags for the assets command.
type AssetsCommand struct {
	workers       int
	noProgress    bool
	ignore        []string
	ignoreRegexes []string
}

// NewAssetsCommand creates and configures the assets command.
func NewAssetsCommand() *cobra.Command {
	cmd := &AssetsCommand{}

	cobraCmd := &cobra.Command{
		Use:   "assets [directory]",
		Short: "Verify that imported image/style assets exist on disk",
		Long: `Scan source files for asset imports (images, stylesheets) and report
every import whose target file does not exist. Exits non-zero when
missing assets are found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().IntVar(&cmd.workers, "workers", 0, "Worker pool size (0 = auto)")
	cobraCmd.Flags().BoolVar(&cmd.noProgress, "no-progress", false, "Disable the progress bar")
	cobraCmd.Flags().StringSliceVar(&cmd.ignore, "ignore", nil, "Skip paths containing any of these substrings")
	cobraCmd.Flags().StringSliceVar(&cmd.ignoreRegexes, "ignore-regex", nil, "Skip paths matching any of these patterns")

	return cobraCmd
}

// Run executes the assets command.
func (c *AssetsCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	applyColorFlag(cmd)

	logger := newLogger(cmd)
	dir := targetDir(args)
	out := cmd.OutOrStdout()

	opts := scanOptions(cfg, logger)
	opts.IgnoreSubstrings = append(opts.IgnoreSubstrings, c.ignore...)

	// Flag-supplied patterns are a setup error when invalid, unlike the
	// config-supplied ones.
	extraRegexps, compileErrs := scan.CompileIgnoreRegexps(c.ignoreRegexes)
	if len(compileErrs) > 0 {
		return compileErrs[0]
	}

	opts.IgnoreRegexps = append(opts.IgnoreRegexps, extraRegexps...)

	result, err := scan.Find(dir, opts)
	if err != nil {
		return err
	}

	workers := c.workers
	if workers == 0 {
		workers = cfg.Assets.Workers
	}

	checker := &assets.Checker{
		Matcher: imports.NewAssetMatcher(cfg.Assets.Extensions),
		Workers: workers,
	}

	stopProgress := c.startProgress(cmd, checker, len(result.Files))

	report := checker.Check(cmd.Context(), result.Files)

	stopProgress()

	for _, checkErr := range report.Errors {
		logger.Warn("check failed", "error", checkErr)
	}

	for _, finding := range report.Findings {
		fmt.Fprintf(out, "%s %s:%d: missing asset %q\n", color.RedString("✗"), finding.File, finding.Line, finding.Specifier)
	}

	if !isQuiet(cmd) {
		fmt.Fprintf(out, "Checked %d files, %d missing assets\n", report.Checked, len(report.Findings))
	}

	if len(report.Findings) > 0 {
		return fmt.Errorf("%w: %d missing assets", ErrFindings, len(report.Findings))
	}

	return nil
}

// startProgress wires a progress bar into the checker's per-file
// callback and returns a stop function. Disabled under --no-progress
// and --quiet.
func (c *AssetsCommand) startProgress(cmd *cobra.Command, checker *assets.Checker, total int) func() {
	if c.noProgress || isQuiet(cmd) || total == 0 {
		return func() {}
	}

	writer := progress.NewWriter()
	writer.SetOutputWriter(cmd.ErrOrStderr())
	writer.SetUpdateFrequency(progressRenderInterval)
	writer.SetTrackerLength(40)

	tracker := &progress.Tracker{Message: "Checking assets", Total: int64(total)}
	writer.AppendTracker(tracker)

	checker.OnFileChecked = func(done int) {
		tracker.SetValue(int64(done))
	}

	go writer.Render()

	return func() {
		tracker.MarkAsDone()
		writer.Stop()
	}
}
