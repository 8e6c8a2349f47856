// Package manifest reads, mutates and writes a project's package.json.
// The file is decoded into a generic map so fields the tool does not
// understand survive a round trip untouched.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the npm manifest file name.
const FileName = "package.json"

// ErrNotFound is returned by Load when the manifest does not exist.
var ErrNotFound = errors.New("package.json not found")

const defaultVersion = "1.0.0"

// Manifest is an in-memory package.json. It is read once, mutated in
// memory and written once per invocation; concurrent writers are the
// caller's problem.
type Manifest struct {
	path string
	data map[string]any
}

// Load reads dir/package.json. A missing file returns ErrNotFound.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w in %s", ErrNotFound, dir)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var data map[string]any

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &Manifest{path: path, data: data}, nil
}

// LoadOrInit reads dir/package.json, creating a minimal in-memory
// default (named after the directory) when the file is absent. Nothing
// is written to disk until Save.
func LoadOrInit(dir string) (*Manifest, error) {
	m, err := Load(dir)
	if err == nil {
		return m, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	abs, absErr := filepath.Abs(dir)
	if absErr != nil {
		abs = dir
	}

	return &Manifest{
		path: filepath.Join(dir, FileName),
		data: map[string]any{
			"name":            filepath.Base(abs),
			"version":         defaultVersion,
			"description":     "Project with detected dependencies",
			"dependencies":    map[string]any{},
			"devDependencies": map[string]any{},
		},
	}, nil
}

// Dependencies returns the dependencies section as name -> range.
func (m *Manifest) Dependencies() map[string]string {
	return m.section("dependencies")
}

// DevDependencies returns the devDependencies section as name -> range.
func (m *Manifest) DevDependencies() map[string]string {
	return m.section("devDependencies")
}

// MergeDependencies sets each name to a caret range of its version in
// the dependencies section, creating the section when missing.
func (m *Manifest) MergeDependencies(versions map[string]string) {
	m.merge("dependencies", versions)
}

// MergeDevDependencies is MergeDependencies for devDependencies.
func (m *Manifest) MergeDevDependencies(versions map[string]string) {
	m.merge("devDependencies", versions)
}

// Save writes the manifest with two-space indentation and a trailing
// newline, matching npm's own formatting.
func (m *Manifest) Save() error {
	out, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.path, err)
	}

	out = append(out, '\n')

	if err := os.WriteFile(m.path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", m.path, err)
	}

	return nil
}

// Path returns the manifest's on-disk location.
func (m *Manifest) Path() string {
	return m.path
}

func (m *Manifest) section(key string) map[string]string {
	raw, ok := m.data[key].(map[string]any)
	if !ok {
		return map[string]string{}
	}

	section := make(map[string]string, len(raw))

	for name, v := range raw {
		if s, ok := v.(string); ok {
			section[name] = s
		}
	}

	return section
}

func (m *Manifest) merge(key string, versions map[string]string) {
	if len(versions) == 0 {
		return
	}

	section, ok := m.data[key].(map[string]any)
	if !ok {
		section = map[string]any{}
		m.data[key] = section
	}

	for name, version := range versions {
		section[name] = CaretRange(version)
	}
}

// CaretRange converts a concrete version into npm's default
// caret-prefixed range.
func CaretRange(version string) string {
	return "^" + version
}
