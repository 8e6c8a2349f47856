package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jsmonitor/jsmonitor/internal/installer"
	"github.com/jsmonitor/jsmonitor/internal/registry"
)

// VersionLookup is the package-registry capability the reconciler
// consumes.
type VersionLookup interface {
	LatestVersion(ctx context.Context, name string) (string, error)
	HasTypesPackage(ctx context.Context, name string) (bool, error)
}

// PackageResult describes the outcome for one processed package. It is
// delivered to the Observer as each package completes.
type PackageResult struct {
	Name    string
	Version string
	Dev     bool
	Err     error
}

// Observer receives per-package outcomes during an install run.
type Observer func(PackageResult)

// Reconciler drives registry lookups and installs for missing
// packages. Installs run sequentially; a failure for one package never
// aborts the rest.
type Reconciler struct {
	Registry VersionLookup
	Runner   installer.Runner
	// Observer, when set, is called once per processed package.
	Observer Observer
	// DryRun resolves versions but skips the install subprocess.
	DryRun bool
}

// InstallMissing resolves the latest version of each missing package
// and installs it into dir. It returns the successfully installed
// name -> version map and the per-package failures.
func (r *Reconciler) InstallMissing(ctx context.Context, dir string, missing []string, dev bool) (map[string]string, []error) {
	installed := make(map[string]string)

	var failures []error

	for _, name := range missing {
		version, err := r.installOne(ctx, dir, name, dev)
		if err != nil {
			failures = append(failures, err)
			r.observe(PackageResult{Name: name, Dev: dev, Err: err})

			continue
		}

		installed[name] = version

		r.observe(PackageResult{Name: name, Version: version, Dev: dev})
	}

	return installed, failures
}

func (r *Reconciler) installOne(ctx context.Context, dir, name string, dev bool) (string, error) {
	version, err := r.Registry.LatestVersion(ctx, name)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", name, err)
	}

	if r.DryRun {
		return version, nil
	}

	if err := r.Runner.Install(ctx, name, version, dir, dev); err != nil {
		return "", err
	}

	return version, nil
}

// TypesCompanions probes the registry for @types/<name> companions of
// plain (unscoped) packages. Already-installed companions and packages
// that are themselves scoped are skipped. Probe failures are collected
// per package.
func (r *Reconciler) TypesCompanions(ctx context.Context, referenced map[string]struct{}, installed map[string]struct{}) ([]string, []error) {
	var (
		companions []string
		failures   []error
	)

	for name := range referenced {
		if name == "" || strings.HasPrefix(name, "@") {
			continue
		}

		typesName := registry.TypesPackageName(name)
		if _, ok := installed[typesName]; ok {
			continue
		}

		has, err := r.Registry.HasTypesPackage(ctx, name)
		if err != nil {
			failures = append(failures, fmt.Errorf("probe %s: %w", typesName, err))

			continue
		}

		if has {
			companions = append(companions, typesName)
		}
	}

	sort.Strings(companions)

	return companions, failures
}

func (r *Reconciler) observe(result PackageResult) {
	if r.Observer != nil {
		r.Observer(result)
	}
}
