// Package tsconfig loads path-alias configuration from a project's
// tsconfig.json or jsconfig.json and rewrites relative import
// specifiers to their alias-qualified form.
package tsconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoConfig is returned when neither tsconfig.json nor jsconfig.json
// exists at the scan root.
var ErrNoConfig = errors.New("no tsconfig.json or jsconfig.json found")

// wildcard is the suffix an alias pattern and its targets must carry.
// Other shapes (exact mappings, embedded wildcards) are unsupported
// and skipped during loading.
const wildcard = "/*"

// Alias maps a specifier prefix such as "@/" to one or more absolute
// target directories.
type Alias struct {
	Prefix  string
	Targets []string
}

// Project holds the alias configuration loaded for one scan root. It
// is immutable for the duration of a scan.
type Project struct {
	ConfigPath string
	BaseURL    string
	Aliases    []Alias
}

// compilerOptions mirrors the JSON shape of the config file; only the
// fields the resolver consumes are decoded.
type configFile struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// Load locates the project config at root, preferring tsconfig.json
// over jsconfig.json, and extracts baseUrl and the wildcard alias
// table. A malformed config is a load failure, not a crash.
func Load(root string) (*Project, error) {
	configPath, err := locate(root)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	var cfg configFile

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	baseRel := cfg.CompilerOptions.BaseURL
	if baseRel == "" {
		baseRel = "."
	}

	baseURL, err := filepath.Abs(filepath.Join(filepath.Dir(configPath), baseRel))
	if err != nil {
		return nil, fmt.Errorf("resolve baseUrl: %w", err)
	}

	return &Project{
		ConfigPath: configPath,
		BaseURL:    baseURL,
		Aliases:    loadAliases(cfg.CompilerOptions.Paths, baseURL),
	}, nil
}

func locate(root string) (string, error) {
	for _, name := range []string{"tsconfig.json", "jsconfig.json"} {
		candidate := filepath.Join(root, name)

		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w in %s", ErrNoConfig, root)
}

// loadAliases converts the raw paths table into absolute alias
// entries. Only "prefix/*" patterns whose targets all end in "/*" are
// honored. The result is sorted by prefix so downstream behavior does
// not depend on map iteration order.
func loadAliases(paths map[string][]string, baseURL string) []Alias {
	aliases := make([]Alias, 0, len(paths))

	for pattern, targets := range paths {
		if !strings.HasSuffix(pattern, wildcard) || len(targets) == 0 {
			continue
		}

		resolved := make([]string, 0, len(targets))
		supported := true

		for _, target := range targets {
			if !strings.HasSuffix(target, wildcard) {
				supported = false

				break
			}

			resolved = append(resolved, filepath.Clean(filepath.Join(baseURL, strings.TrimSuffix(target, "*"))))
		}

		if !supported {
			continue
		}

		aliases = append(aliases, Alias{
			// "@/*" becomes "@/", keeping the separator.
			Prefix:  strings.TrimSuffix(pattern, "*"),
			Targets: resolved,
		})
	}

	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Prefix < aliases[j].Prefix })

	return aliases
}
