package imports

import (
	"regexp"
	"strings"
)

// statementRe finds import/export statements carrying a quoted path
// specifier, including dynamic import calls. It intentionally matches
// at the statement level so a replacement touches only the quoted
// specifier, never the surrounding bindings.
var statementRe = regexp.MustCompile(`(?:import|export)[^'"\n]*(?:` + quoted + `)`)

// RewriteSpecifiers applies fn to every import/export specifier in
// text and replaces the quoted substring in place when fn returns a
// different value. The quote character choice is preserved. The second
// return value reports whether anything changed.
func RewriteSpecifiers(text string, fn func(spec string) string) (string, bool) {
	matches := statementRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, false
	}

	var (
		out     strings.Builder
		last    int
		changed bool
	)

	for _, m := range matches {
		spec, _, start := submatch(text, m)
		if start < 0 || strings.TrimSpace(spec) == "" {
			continue
		}

		replacement := fn(spec)
		if replacement == spec {
			continue
		}

		out.WriteString(text[last:start])
		out.WriteString(replacement)

		last = start + len(spec)
		changed = true
	}

	if !changed {
		return text, false
	}

	out.WriteString(text[last:])

	return out.String(), true
}
