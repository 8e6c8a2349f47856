// Package reconcile turns extracted import references into actionable
// results: missing packages to install, @types companions to add and
// manifest entries to bump.
package reconcile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jsmonitor/jsmonitor/internal/imports"
)

// ScanResult aggregates package references across all scanned files.
type ScanResult struct {
	// Packages holds every normalized registry key referenced anywhere
	// in the tree.
	Packages map[string]struct{}
	// FileCount is the number of files read.
	FileCount int
	// HasTypeScript reports whether any scanned file was .ts or .tsx,
	// which gates the @types companion pass.
	HasTypeScript bool
	// Errors holds per-file read failures; they never abort the scan.
	Errors []error
}

// CollectPackages reads each file, extracts its import references and
// classifies them into registry keys. Path and alias specifiers are
// dropped here; only installable package names survive.
func CollectPackages(files []string, classifier *imports.Classifier) *ScanResult {
	result := &ScanResult{Packages: make(map[string]struct{})}

	for _, file := range files {
		text, err := os.ReadFile(file)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("read %s: %w", file, err))

			continue
		}

		result.FileCount++

		if strings.HasSuffix(file, ".ts") || strings.HasSuffix(file, ".tsx") {
			result.HasTypeScript = true
		}

		for _, ref := range imports.Extract(string(text)) {
			if name, ok := classifier.PackageName(ref.RawSpecifier); ok {
				result.Packages[name] = struct{}{}
			}
		}
	}

	return result
}

// Missing returns the sorted set of referenced packages absent from
// the installed snapshot.
func Missing(referenced map[string]struct{}, installed map[string]struct{}) []string {
	var missing []string

	for name := range referenced {
		if _, ok := installed[name]; !ok && name != "" {
			missing = append(missing, name)
		}
	}

	sort.Strings(missing)

	return missing
}
