package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/jsmonitor/jsmonitor/internal/imports"
	"github.com/jsmonitor/jsmonitor/internal/scan"
)

// configName is the config file name without extension.
const configName = ".jsmonitor"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for jsmonitor settings.
const envPrefix = "JSMONITOR"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("scan.extensions", scan.DefaultExtensions)
	viperCfg.SetDefault("scan.ignore_dirs", scan.DefaultIgnoreDirs)
	viperCfg.SetDefault("scan.ignore_substrings", []string{})
	viperCfg.SetDefault("scan.ignore_patterns", []string{})
	viperCfg.SetDefault("scan.skip_vendored", DefaultScanSkipVendored)

	viperCfg.SetDefault("registry.url", DefaultRegistryURL)
	viperCfg.SetDefault("registry.timeout_seconds", DefaultRegistryTimeoutSeconds)
	viperCfg.SetDefault("registry.concurrency", DefaultRegistryConcurrency)

	viperCfg.SetDefault("assets.extensions", imports.DefaultAssetExtensions)
	viperCfg.SetDefault("assets.workers", DefaultAssetsWorkers)

	viperCfg.SetDefault("packages.known_scopes", []string{})
}

// Default returns the configuration produced by defaults alone,
// without consulting file or environment. Used by `config init`.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions:       scan.DefaultExtensions,
			IgnoreDirs:       scan.DefaultIgnoreDirs,
			IgnoreSubstrings: []string{},
			IgnorePatterns:   []string{},
			SkipVendored:     DefaultScanSkipVendored,
		},
		Registry: RegistryConfig{
			URL:            DefaultRegistryURL,
			TimeoutSeconds: DefaultRegistryTimeoutSeconds,
			Concurrency:    DefaultRegistryConcurrency,
		},
		Assets: AssetsConfig{
			Extensions: imports.DefaultAssetExtensions,
			Workers:    DefaultAssetsWorkers,
		},
		Packages: PackagesConfig{KnownScopes: []string{}},
	}
}
