package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jsmonitor/jsmonitor/internal/imports"
	"github.com/jsmonitor/jsmonitor/internal/installer"
	"github.com/jsmonitor/jsmonitor/internal/manifest"
	"github.com/jsmonitor/jsmonitor/internal/nodemodules"
	"github.com/jsmonitor/jsmonitor/internal/reconcile"
	"github.com/jsmonitor/jsmonitor/internal/scan"
)

// InstallCommand holds the flags for the install command.
type InstallCommand struct {
	dryRun   bool
	dev      bool
	noTypes  bool
	registry string
}

// NewInstallCommand creates and configures the install command.
func NewInstallCommand() *cobra.Command {
	cmd := &InstallCommand{}

	cobraCmd := &cobra.Command{
		Use:   "install [directory]",
		Short: "Detect and install packages imported but not in node_modules",
		Long: `Scan the project tree for import statements, compare the referenced
packages against node_modules, install what is missing and record the
installed versions in package.json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVar(&cmd.dryRun, "dry-run", false, "Resolve versions but do not install or write package.json")
	cobraCmd.Flags().BoolVar(&cmd.dev, "dev", false, "Install missing packages as devDependencies")
	cobraCmd.Flags().BoolVar(&cmd.noTypes, "no-types", false, "Skip the @types companion pass for TypeScript projects")
	cobraCmd.Flags().StringVar(&cmd.registry, "registry", "", "Registry base URL (overrides config)")

	return cobraCmd
}

// Run executes the install command.
func (c *InstallCommand) Run(cmd *cobra.Command, args []string) error {
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

	classifier := imports.NewClassifier(cfg.Packages.KnownScopes, logger)
	scanned := reconcile.CollectPackages(result.Files, classifier)

	for _, readErr := range scanned.Errors {
		logger.Warn("skipped file", "error", readErr)
	}

	installed, err := nodemodules.Snapshot(dir)
	if err != nil {
		return err
	}

	missing := reconcile.Missing(scanned.Packages, installed)

	if !isQuiet(cmd) {
		fmt.Fprintf(out, "Scanned %d files (%s), %d packages referenced, %d missing\n",
			scanned.FileCount, humanize.Bytes(uint64(result.TotalBytes)), len(scanned.Packages), len(missing))
	}

	if len(missing) == 0 && (c.noTypes || !scanned.HasTypeScript) {
		fmt.Fprintln(out, "Nothing to install.")

		return nil
	}

	reconciler := &reconcile.Reconciler{
		Registry: newRegistryClient(cfg, c.registry),
		Runner:   &installer.NPM{Stdout: io.Discard, Stderr: os.Stderr},
		Observer: installObserver(out, c.dryRun),
		DryRun:   c.dryRun,
	}

	ctx := cmd.Context()

	versions, failures := reconciler.InstallMissing(ctx, dir, missing, c.dev)

	typesVersions := map[string]string{}

	if scanned.HasTypeScript && !c.noTypes {
		// The companion pass considers everything referenced, not just
		// what was missing: a hand-installed package can still lack its
		// @types entry.
		companions, probeErrs := reconciler.TypesCompanions(ctx, scanned.Packages, installed)
		failures = append(failures, probeErrs...)

		var typesFailures []error

		typesVersions, typesFailures = reconciler.InstallMissing(ctx, dir, reconcile.Missing(sliceToSet(companions), installed), true)
		failures = append(failures, typesFailures...)
	}

	if !c.dryRun && (len(versions) > 0 || len(typesVersions) > 0) {
		m, loadErr := manifest.LoadOrInit(dir)
		if loadErr != nil {
			return loadErr
		}

		if c.dev {
			m.MergeDevDependencies(versions)
		} else {
			m.MergeDependencies(versions)
		}

		m.MergeDevDependencies(typesVersions)

		if saveErr := m.Save(); saveErr != nil {
			return saveErr
		}

		if !isQuiet(cmd) {
			fmt.Fprintf(out, "Updated %s\n", m.Path())
		}
	}

	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", color.RedString("✗"), failure)
		}

		return fmt.Errorf("%w: %d packages failed", ErrFindings, len(failures))
	}

	return nil
}

// installObserver prints one line per processed package as results
// arrive.
func installObserver(out io.Writer, dryRun bool) reconcile.Observer {
	verb := "installed"
	if dryRun {
		verb = "would install"
	}

	return func(result reconcile.PackageResult) {
		if result.Err != nil {
			return
		}

		suffix := ""
		if result.Dev {
			suffix = " (dev)"
		}

		fmt.Fprintf(out, "%s %s %s@%s%s\n", color.GreenString("✓"), verb, result.Name, result.Version, suffix)
	}
}

func sliceToSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return set
}
