package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsmonitor/jsmonitor/internal/imports"
	"github.com/jsmonitor/jsmonitor/internal/registry"
)

var errBoom = errors.New("boom")

type fakeRegistry struct {
	versions map[string]string
	types    map[string]bool
	failing  map[string]error
}

func (f *fakeRegistry) LatestVersion(_ context.Context, name string) (string, error) {
	if err, ok := f.failing[name]; ok {
		return "", err
	}

	v, ok := f.versions[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, registry.ErrPackageNotFound)
	}

	return v, nil
}

func (f *fakeRegistry) HasTypesPackage(_ context.Context, name string) (bool, error) {
	if err, ok := f.failing[registry.TypesPackageName(name)]; ok {
		return false, err
	}

	return f.types[name], nil
}

type fakeRunner struct {
	installs []string
	fail     map[string]error
}

func (f *fakeRunner) Install(_ context.Context, name, version, _ string, dev bool) error {
	if err, ok := f.fail[name]; ok {
		return err
	}

	suffix := ""
	if dev {
		suffix = " (dev)"
	}

	f.installs = append(f.installs, name+"@"+version+suffix)

	return nil
}

func testClassifier() *imports.Classifier {
	return imports.NewClassifier(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCollectPackages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app := filepath.Join(dir, "app.tsx")
	require.NoError(t, os.WriteFile(app, []byte(
		"import react from \"react\";\n"+
			"import fs from \"@types/node/fs\";\n"+
			"import local from \"./local\";\n"+
			"import aliased from \"@/components/button\";\n"), 0o644))

	util := filepath.Join(dir, "util.js")
	require.NoError(t, os.WriteFile(util, []byte("const _ = require('lodash/debounce');\n"), 0o644))

	result := CollectPackages([]string{app, util}, testClassifier())

	assert.Equal(t, 2, result.FileCount)
	assert.True(t, result.HasTypeScript)
	assert.Empty(t, result.Errors)

	assert.Contains(t, result.Packages, "react")
	assert.Contains(t, result.Packages, "@types/node")
	assert.Contains(t, result.Packages, "lodash")
	assert.Len(t, result.Packages, 3)
}

func TestCollectPackages_UnreadableFileReported(t *testing.T) {
	t.Parallel()

	result := CollectPackages([]string{filepath.Join(t.TempDir(), "gone.ts")}, testClassifier())
	assert.Equal(t, 0, result.FileCount)
	require.Len(t, result.Errors, 1)
}

func TestMissing(t *testing.T) {
	t.Parallel()

	referenced := map[string]struct{}{"react": {}, "lodash": {}}
	installed := map[string]struct{}{"react": {}}

	assert.Equal(t, []string{"lodash"}, Missing(referenced, installed))
}

func TestInstallMissing_PartialSuccess(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{
		versions: map[string]string{"lodash": "4.17.21", "axios": "1.7.0"},
	}
	runner := &fakeRunner{fail: map[string]error{"axios": errBoom}}

	var observed []PackageResult

	r := &Reconciler{
		Registry: reg,
		Runner:   runner,
		Observer: func(pr PackageResult) { observed = append(observed, pr) },
	}

	installed, failures := r.InstallMissing(context.Background(), t.TempDir(), []string{"axios", "lodash", "no-such"}, false)

	assert.Equal(t, map[string]string{"lodash": "4.17.21"}, installed)
	assert.Len(t, failures, 2)
	assert.Equal(t, []string{"lodash@4.17.21"}, runner.installs)

	require.Len(t, observed, 3)
	assert.Error(t, observed[0].Err)
	assert.Equal(t, "lodash", observed[1].Name)
	assert.NoError(t, observed[1].Err)
	assert.Error(t, observed[2].Err)
}

func TestInstallMissing_DryRunSkipsRunner(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{versions: map[string]string{"lodash": "4.17.21"}}
	runner := &fakeRunner{}

	r := &Reconciler{Registry: reg, Runner: runner, DryRun: true}

	installed, failures := r.InstallMissing(context.Background(), t.TempDir(), []string{"lodash"}, false)
	assert.Equal(t, map[string]string{"lodash": "4.17.21"}, installed)
	assert.Empty(t, failures)
	assert.Empty(t, runner.installs)
}

func TestTypesCompanions(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{
		types:   map[string]bool{"lodash": true, "react": true},
		failing: map[string]error{"@types/broken": errBoom},
	}

	r := &Reconciler{Registry: reg}

	referenced := map[string]struct{}{
		"lodash":      {},
		"react":       {},
		"left-pad":    {},
		"broken":      {},
		"@babel/core": {}, // scoped, skipped
	}
	installed := map[string]struct{}{"@types/react": {}}

	companions, failures := r.TypesCompanions(context.Background(), referenced, installed)
	assert.Equal(t, []string{"@types/lodash"}, companions)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], errBoom)
}

func TestPlanUpdates(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{
		versions: map[string]string{"react": "19.0.0", "lodash": "4.17.21"},
	}

	section := map[string]string{
		"react":  "^18.2.0",
		"lodash": "^4.17.21",
		"gone":   "^1.0.0",
	}

	results := PlanUpdates(context.Background(), reg, section)
	require.Len(t, results, 3)

	// Sorted by name.
	assert.Equal(t, "gone", results[0].Name)
	assert.Error(t, results[0].Err)
	assert.False(t, results[0].OutOfDate())

	assert.Equal(t, "lodash", results[1].Name)
	assert.False(t, results[1].OutOfDate())

	assert.Equal(t, "react", results[2].Name)
	assert.True(t, results[2].OutOfDate())

	applied := Applied(results)
	assert.Equal(t, map[string]string{"react": "19.0.0", "lodash": "4.17.21"}, applied)
}
