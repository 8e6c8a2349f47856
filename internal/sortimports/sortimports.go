// Package sortimports sorts the leading import block of a JavaScript
// file: package imports first, then relative imports ordered by
// directory distance, alphabetical within each group. Brace and comma
// whitespace inside import statements is normalized along the way.
package sortimports

import (
	"regexp"
	"sort"
	"strings"
)

// categoryUnknown sorts statements whose source cannot be extracted
// after everything else, unchanged.
const categoryUnknown = 999

// relativeBase offsets relative-import categories past all package
// imports (category 0).
const relativeBase = 10

// parentPenalty pushes "../" imports after "./" imports of equal depth.
const parentPenalty = 2

var (
	importLineRe = regexp.MustCompile(`^import\s+.*['"];?\s*$`)
	sourceRe     = regexp.MustCompile(`['"]([^'"]+)['"]`)

	braceOpenRe  = regexp.MustCompile(`import\s+\{`)
	braceSpaceRe = regexp.MustCompile(`\{\s+`)
	spaceBraceRe = regexp.MustCompile(`\s+\}`)
	commaRe      = regexp.MustCompile(`,\s+`)
)

// Format sorts and normalizes the import statements of content. When
// content has no import lines it is returned unchanged.
func Format(content string) string {
	imports, rest := splitImports(content)
	if len(imports) == 0 {
		return content
	}

	sorted := sortStatements(imports)

	formatted := make([]string, 0, len(sorted))
	for _, stmt := range sorted {
		formatted = append(formatted, normalize(stmt))
	}

	return strings.Join(formatted, "\n") + "\n\n" + strings.TrimLeft(rest, " \t\n")
}

// splitImports separates single-line import statements from the rest
// of the file, preserving the remaining code's internal layout.
func splitImports(content string) (imports []string, rest string) {
	var kept []string

	for _, line := range strings.Split(content, "\n") {
		if importLineRe.MatchString(line) {
			imports = append(imports, line)

			continue
		}

		kept = append(kept, line)
	}

	return imports, strings.Join(kept, "\n")
}

// sortStatements orders import statements by (category, lowercased
// source): packages first, then same-directory imports by depth, then
// parent-directory imports.
func sortStatements(imports []string) []string {
	type entry struct {
		category int
		source   string
		text     string
	}

	entries := make([]entry, 0, len(imports))

	for _, stmt := range imports {
		category, source := categorize(stmt)
		entries = append(entries, entry{category: category, source: source, text: stmt})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].category != entries[j].category {
			return entries[i].category < entries[j].category
		}

		if entries[i].source != entries[j].source {
			return entries[i].source < entries[j].source
		}

		return entries[i].text < entries[j].text
	})

	sorted := make([]string, 0, len(entries))
	for _, e := range entries {
		sorted = append(sorted, e.text)
	}

	return sorted
}

func categorize(stmt string) (int, string) {
	m := sourceRe.FindStringSubmatch(stmt)
	if m == nil {
		return categoryUnknown, ""
	}

	source := m[1]
	if !strings.HasPrefix(source, ".") {
		return 0, strings.ToLower(source)
	}

	depth := strings.Count(source, "/")
	if !strings.HasPrefix(source, "./") {
		depth += parentPenalty
	}

	return relativeBase + depth, strings.ToLower(source)
}

// normalize cleans up whitespace inside an import statement.
func normalize(stmt string) string {
	out := braceOpenRe.ReplaceAllString(stmt, "import {")
	out = braceSpaceRe.ReplaceAllString(out, "{ ")
	out = spaceBraceRe.ReplaceAllString(out, " }")
	out = commaRe.ReplaceAllString(out, ", ")

	return out
}
