package assets

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestCheck_MissingAssetReported(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := writeFile(t, root, "src/app.ts", "import React from \"react\";\nimport \"./missing.svg\";\n")

	checker := &Checker{}
	report := checker.Check(context.Background(), []string{src})

	require.Len(t, report.Findings, 1)
	assert.Equal(t, src, report.Findings[0].File)
	assert.Equal(t, 2, report.Findings[0].Line)
	assert.Equal(t, "./missing.svg", report.Findings[0].Specifier)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 1, report.Checked)
}

func TestCheck_ExistingAssetNotReported(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/logo.svg", "<svg/>")
	src := writeFile(t, root, "src/app.ts", "import logo from './logo.svg';\n")

	report := (&Checker{}).Check(context.Background(), []string{src})
	assert.Empty(t, report.Findings)
}

func TestCheck_RemoteURLSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := writeFile(t, root, "src/app.ts", "import \"https://cdn.example.com/x.png\";\n")

	report := (&Checker{}).Check(context.Background(), []string{src})
	assert.Empty(t, report.Findings)
	assert.Empty(t, report.Errors)
}

func TestCheck_QueryStringStripped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/sprite.svg", "<svg/>")
	src := writeFile(t, root, "src/app.ts", "import sprite from './sprite.svg?v=3';\n")

	report := (&Checker{}).Check(context.Background(), []string{src})
	assert.Empty(t, report.Findings)
}

func TestCheck_UnreadableFileReportedNotFatal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	good := writeFile(t, root, "src/app.ts", "import \"./missing.css\";\n")
	gone := filepath.Join(root, "src", "gone.ts")

	report := (&Checker{}).Check(context.Background(), []string{good, gone})

	require.Len(t, report.Findings, 1)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Error(), "gone.ts")
	assert.Equal(t, 2, report.Checked)
}

func TestCheck_DeterministicOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	var files []string

	for _, name := range []string{"c.ts", "a.ts", "b.ts"} {
		files = append(files, writeFile(t, root, "src/"+name, "import './"+name+".png';\n"))
	}

	report := (&Checker{Workers: 3}).Check(context.Background(), files)
	require.Len(t, report.Findings, 3)
	assert.Contains(t, report.Findings[0].File, "a.ts")
	assert.Contains(t, report.Findings[1].File, "b.ts")
	assert.Contains(t, report.Findings[2].File, "c.ts")
}

func TestCheck_ProgressCallback(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := writeFile(t, root, "src/app.ts", "const x = 1;\n")

	var calls atomic.Int64

	checker := &Checker{OnFileChecked: func(done int) { calls.Add(1) }}
	checker.Check(context.Background(), []string{src, src})
	assert.Equal(t, int64(2), calls.Load())
}
