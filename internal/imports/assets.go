package imports

import (
	"regexp"
	"strings"
)

// DefaultAssetExtensions are the visual and style asset formats the
// asset matcher recognizes.
var DefaultAssetExtensions = []string{
	"css", "png", "jpg", "jpeg", "gif", "svg", "webp", "avif", "bmp", "ico", "tif", "tiff",
}

// AssetMatcher extracts import references restricted to specifiers
// ending in a visual or style asset extension. Matching is line-scoped
// so each match retains its 1-based line number for reporting.
type AssetMatcher struct {
	patterns []*regexp.Regexp
}

// NewAssetMatcher builds an AssetMatcher for the given extensions
// (without dots). An empty list selects DefaultAssetExtensions.
func NewAssetMatcher(extensions []string) *AssetMatcher {
	if len(extensions) == 0 {
		extensions = DefaultAssetExtensions
	}

	quotedExts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		quotedExts = append(quotedExts, regexp.QuoteMeta(strings.TrimPrefix(ext, ".")))
	}

	// Query strings and fragments may trail the extension; they are
	// stripped by the existence checker, not here.
	suffix := `[^'"\n]*?\.(?:` + strings.Join(quotedExts, "|") + `)(?:[?#][^'"\n]*)?`
	assetQuoted := `'(` + suffix + `)'|"(` + suffix + `)"`

	return &AssetMatcher{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:import|export)\s+(?:[^'"\n]*from\s*)?(?:` + assetQuoted + `)\s*;?\s*$`),
			regexp.MustCompile(`require\s*\(\s*(?:` + assetQuoted + `)\s*\)`),
			regexp.MustCompile(`import\s*\(\s*(?:` + assetQuoted + `)\s*\)`),
		},
	}
}

// Extract returns asset references found in text, one per matching
// line, in line order.
func (am *AssetMatcher) Extract(text string) []Reference {
	var refs []Reference

	for i, line := range strings.Split(text, "\n") {
		for _, re := range am.patterns {
			m := re.FindStringSubmatchIndex(line)
			if m == nil {
				continue
			}

			spec, quote, start := submatch(line, m)
			if start < 0 {
				continue
			}

			refs = append(refs, Reference{
				RawSpecifier: spec,
				Line:         i + 1,
				Statement:    line[m[0]:m[1]],
				Quote:        quote,
			})

			break
		}
	}

	return refs
}
