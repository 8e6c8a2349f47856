// Package config loads jsmonitor settings from file, environment and
// defaults.
package config

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration struct for jsmonitor.
// Field tags use mapstructure for viper unmarshalling and yaml for
// `config init`/`config show` round trips.
type Config struct {
	Scan     ScanConfig     `mapstructure:"scan"     yaml:"scan"`
	Registry RegistryConfig `mapstructure:"registry" yaml:"registry"`
	Assets   AssetsConfig   `mapstructure:"assets"   yaml:"assets"`
	Packages PackagesConfig `mapstructure:"packages" yaml:"packages"`
}

// ScanConfig holds file discovery settings.
type ScanConfig struct {
	Extensions []string `mapstructure:"extensions"  yaml:"extensions"`
	IgnoreDirs []string `mapstructure:"ignore_dirs" yaml:"ignore_dirs"`
	// IgnoreSubstrings skip any path containing one of these substrings.
	IgnoreSubstrings []string `mapstructure:"ignore_substrings" yaml:"ignore_substrings"`
	// IgnorePatterns are regular expressions matched against
	// slash-separated paths relative to the scan root.
	IgnorePatterns []string `mapstructure:"ignore_patterns" yaml:"ignore_patterns"`
	SkipVendored   bool     `mapstructure:"skip_vendored"   yaml:"skip_vendored"`
}

// RegistryConfig holds npm registry client settings.
type RegistryConfig struct {
	URL            string `mapstructure:"url"             yaml:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Concurrency    int    `mapstructure:"concurrency"     yaml:"concurrency"`
}

// AssetsConfig holds asset-existence checker settings.
type AssetsConfig struct {
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	Workers    int      `mapstructure:"workers"    yaml:"workers"`
}

// PackagesConfig holds package classification settings.
type PackagesConfig struct {
	// KnownScopes extends the built-in npm scope allow-list used to
	// tell scoped packages apart from path aliases.
	KnownScopes []string `mapstructure:"known_scopes" yaml:"known_scopes"`
}

// Defaults applied when neither file nor environment provides a value.
const (
	DefaultRegistryURL            = "https://registry.npmjs.org"
	DefaultRegistryTimeoutSeconds = 15
	DefaultRegistryConcurrency    = 10
	// DefaultAssetsWorkers of zero auto-sizes the pool from CPU count.
	DefaultAssetsWorkers    = 0
	DefaultScanSkipVendored = false
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidRegistryURL indicates the registry URL is empty.
	ErrInvalidRegistryURL = errors.New("registry.url must not be empty")
	// ErrInvalidTimeout indicates the registry timeout is not positive.
	ErrInvalidTimeout = errors.New("registry.timeout_seconds must be positive")
	// ErrInvalidConcurrency indicates the lookup concurrency is not positive.
	ErrInvalidConcurrency = errors.New("registry.concurrency must be positive")
	// ErrInvalidWorkers indicates the assets worker count is negative.
	ErrInvalidWorkers = errors.New("assets.workers must be non-negative")
)

// Validate checks value ranges. Empty slices are valid: they select
// the package-level defaults at the point of use.
func (c *Config) Validate() error {
	if c.Registry.URL == "" {
		return ErrInvalidRegistryURL
	}

	if c.Registry.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}

	if c.Registry.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Assets.Workers < 0 {
		return ErrInvalidWorkers
	}

	return nil
}

// YAML renders the configuration as YAML, for `config show` and
// `config init`.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
