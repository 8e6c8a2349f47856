// Package scan walks a project tree and collects candidate source
// files by extension, pruning ignored directories before descending.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"
)

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DefaultIgnoreDirs are directory names that are never descended into:
// dependency caches, build output and version control metadata.
var DefaultIgnoreDirs = []string{"node_modules", ".next", ".idea", "dist", "build", ".git"}

// DefaultExtensions are the JavaScript/TypeScript source extensions.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

// Options control a directory scan. Zero-value fields fall back to the
// package defaults where defaults exist.
type Options struct {
	// Extensions filters files by suffix (with leading dot).
	Extensions []string
	// IgnoreDirs are directory names pruned from traversal. Nil selects
	// DefaultIgnoreDirs; pass an empty non-nil slice to ignore nothing.
	IgnoreDirs []string
	// IgnoreSubstrings skip any path containing one of these substrings.
	IgnoreSubstrings []string
	// IgnoreRegexps skip any path matching one of these patterns.
	IgnoreRegexps []*regexp.Regexp
	// SkipVendored additionally skips files enry recognizes as vendored
	// (minified bundles, checked-in third-party code).
	SkipVendored bool
}

// Result holds the discovered files in lexical order plus the total
// size of their content, for scan summaries.
type Result struct {
	Files      []string
	TotalBytes int64
}

// Find walks root and returns every candidate file. Ignored subtrees
// are pruned before descending, so excluded directories are never
// opened. Output ordering is lexical and therefore reproducible.
func Find(root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	result := &Result{}

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if path == root {
				return nil
			}

			if slices.Contains(ignoreDirs, entry.Name()) || ignoredByRule(rel, opts) {
				return filepath.SkipDir
			}

			return nil
		}

		if !hasExtension(entry.Name(), extensions) || ignoredByRule(rel, opts) {
			return nil
		}

		if opts.SkipVendored && enry.IsVendor(rel) {
			return nil
		}

		if fileInfo, infoErr := entry.Info(); infoErr == nil {
			result.TotalBytes += fileInfo.Size()
		}

		result.Files = append(result.Files, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return result, nil
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}

func ignoredByRule(rel string, opts Options) bool {
	for _, sub := range opts.IgnoreSubstrings {
		if strings.Contains(rel, sub) {
			return true
		}
	}

	for _, re := range opts.IgnoreRegexps {
		if re.MatchString(rel) {
			return true
		}
	}

	return false
}

// CompileIgnoreRegexps compiles the given patterns, collecting invalid
// ones into the returned error list instead of failing the scan setup.
func CompileIgnoreRegexps(patterns []string) ([]*regexp.Regexp, []error) {
	var (
		compiled []*regexp.Regexp
		errs     []error
	)

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid ignore pattern %q: %w", p, err))

			continue
		}

		compiled = append(compiled, re)
	}

	return compiled, errs
}
