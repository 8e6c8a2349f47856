package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsCommand_ReportsMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "logo.png"), "png")
	writeFile(t, filepath.Join(dir, "app.js"),
		"import logo from './logo.png';\nimport hero from './hero.png';\n")
	configPath := writeTestConfig(t, t.TempDir(), "")

	root, out, _ := newTestRoot(NewAssetsCommand())
	root.SetArgs([]string{"assets", "--no-progress", "--config", configPath, "--no-color", dir})

	err := root.Execute()
	require.ErrorIs(t, err, ErrFindings)
	assert.Contains(t, out.String(), "./hero.png")
	assert.NotContains(t, out.String(), "missing asset \"./logo.png\"")
	assert.Contains(t, out.String(), "1 missing assets")
}

func TestAssetsCommand_IgnoreSubstring(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "generated", "icons.js"), "import i from './gone.png';\n")
	writeFile(t, filepath.Join(dir, "app.js"), "const x = 1;\n")
	configPath := writeTestConfig(t, t.TempDir(), "")

	root, out, _ := newTestRoot(NewAssetsCommand())
	root.SetArgs([]string{
		"assets", "--no-progress", "--ignore", "generated",
		"--config", configPath, "--no-color", dir,
	})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Checked 1 files")
}

func TestAssetsCommand_CleanTree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "logo.png"), "png")
	writeFile(t, filepath.Join(dir, "app.js"), "import logo from './logo.png';\n")
	configPath := writeTestConfig(t, t.TempDir(), "")

	root, out, _ := newTestRoot(NewAssetsCommand())
	root.SetArgs([]string{"assets", "--no-progress", "--config", configPath, "--no-color", dir})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "0 missing assets")
}
