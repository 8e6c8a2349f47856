package tsconfig

import (
	"path/filepath"
	"strings"

	"github.com/jsmonitor/jsmonitor/internal/imports"
)

// RewriteSpecifier converts a relative or absolute path specifier into
// its alias-qualified form. Relative specifiers resolve against
// fileDir, the directory of the file containing the import. Among all
// (prefix, target) pairs whose target directory contains the resolved
// path, the longest target match wins; ties are broken by the shorter
// rewritten specifier. When no alias matches, the specifier is
// returned unchanged. Bare package specifiers never reach this method;
// the classifier filters them out.
func (p *Project) RewriteSpecifier(spec, fileDir string) string {
	if spec == "" || (!strings.HasPrefix(spec, ".") && !filepath.IsAbs(spec)) {
		return spec
	}

	resolved := spec
	if !filepath.IsAbs(spec) {
		resolved = filepath.Join(fileDir, spec)
	}

	resolved = filepath.Clean(resolved)

	best := spec
	bestMatchLen := -1

	for _, alias := range p.Aliases {
		for _, target := range alias.Targets {
			prefix := target + string(filepath.Separator)
			if !strings.HasPrefix(resolved, prefix) {
				continue
			}

			suffix := filepath.ToSlash(resolved[len(prefix):])
			candidate := alias.Prefix + suffix

			switch {
			case len(prefix) > bestMatchLen:
				bestMatchLen = len(prefix)
				best = candidate
			case len(prefix) == bestMatchLen && len(candidate) < len(best):
				best = candidate
			}
		}
	}

	return best
}

// RewriteContent applies RewriteSpecifier to every import/export
// statement in content, replacing only the quoted specifier substring
// and preserving the quote character. The second return value reports
// whether anything changed.
func (p *Project) RewriteContent(content, fileDir string) (string, bool) {
	return imports.RewriteSpecifiers(content, func(spec string) string {
		return p.RewriteSpecifier(spec, fileDir)
	})
}
