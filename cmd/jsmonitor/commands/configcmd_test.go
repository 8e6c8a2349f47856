package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit_WritesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	root, out, _ := newTestRoot(NewConfigCommand())
	root.SetArgs([]string{"config", "init", dir})
	require.NoError(t, root.Execute())

	path := filepath.Join(dir, configFileName)
	assert.Contains(t, out.String(), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "registry.npmjs.org")
	assert.Contains(t, string(raw), "node_modules")
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, configFileName), "registry:\n  url: https://example.com\n")

	root, _, _ := newTestRoot(NewConfigCommand())
	root.SetArgs([]string{"config", "init", dir})
	require.Error(t, root.Execute())

	// --force overwrites.
	forced, _, _ := newTestRoot(NewConfigCommand())
	forced.SetArgs([]string{"config", "init", "--force", dir})
	require.NoError(t, forced.Execute())

	raw, err := os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "registry.npmjs.org")
}

func TestConfigShow_PrintsEffectiveConfig(t *testing.T) {
	t.Parallel()

	configPath := writeTestConfig(t, t.TempDir(), "registry:\n  concurrency: 4\n")

	root, out, _ := newTestRoot(NewConfigCommand())
	root.SetArgs([]string{"config", "show", "--config", configPath})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "concurrency: 4")
	assert.Contains(t, out.String(), "registry.npmjs.org")
}
