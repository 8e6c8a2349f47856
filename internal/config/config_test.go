package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	// An explicit path that does not exist is a real error, unlike the
	// search-path case.
	require.Error(t, err)

	cfg, err = LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultRegistryURL, cfg.Registry.URL)
	assert.Equal(t, DefaultRegistryTimeoutSeconds, cfg.Registry.TimeoutSeconds)
	assert.Equal(t, DefaultRegistryConcurrency, cfg.Registry.Concurrency)
	assert.Contains(t, cfg.Scan.Extensions, ".tsx")
	assert.Contains(t, cfg.Scan.IgnoreDirs, "node_modules")
	assert.Contains(t, cfg.Assets.Extensions, "svg")
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".jsmonitor.yaml")
	content := `
registry:
  url: https://registry.internal.example.com
  concurrency: 4
packages:
  known_scopes: ["@acme"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://registry.internal.example.com", cfg.Registry.URL)
	assert.Equal(t, 4, cfg.Registry.Concurrency)
	assert.Equal(t, []string{"@acme"}, cfg.Packages.KnownScopes)

	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultRegistryTimeoutSeconds, cfg.Registry.TimeoutSeconds)
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".jsmonitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registry:\n  concurrency: -1\n"), 0o644))

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidConcurrency)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"empty url", func(c *Config) { c.Registry.URL = "" }, ErrInvalidRegistryURL},
		{"zero timeout", func(c *Config) { c.Registry.TimeoutSeconds = 0 }, ErrInvalidTimeout},
		{"negative concurrency", func(c *Config) { c.Registry.Concurrency = -2 }, ErrInvalidConcurrency},
		{"negative workers", func(c *Config) { c.Assets.Workers = -1 }, ErrInvalidWorkers},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Packages.KnownScopes = []string{"@acme"}

	out, err := cfg.YAML()
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, cfg.Registry.URL, decoded.Registry.URL)
	assert.Equal(t, []string{"@acme"}, decoded.Packages.KnownScopes)
}
