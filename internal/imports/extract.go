package imports

import (
	"regexp"
	"sort"
	"strings"
)

// quoted matches a single- or double-quoted string literal without
// crossing quote characters. Go's regexp has no backreferences, so the
// two quote styles are alternated and the classifier picks whichever
// group matched.
const quoted = `'([^'\n]*)'|"([^"\n]*)"`

// The matcher set mirrors the supported syntaxes: static import-from,
// bare side-effect import, re-export, assignment-style require and
// dynamic import. Require and dynamic import may match anywhere in the
// text, including inside expressions.
var (
	importFromRe    = regexp.MustCompile(`import\s+[^'";]*?from\s*(?:` + quoted + `)`)
	bareImportRe    = regexp.MustCompile(`import\s*(?:` + quoted + `)`)
	exportFromRe    = regexp.MustCompile(`export\s+[^'";]*?from\s*(?:` + quoted + `)`)
	requireRe       = regexp.MustCompile(`(?:const|let|var)\s+[^=\n]*=\s*require\s*\(\s*(?:` + quoted + `)\s*\)`)
	dynamicImportRe = regexp.MustCompile(`import\s*\(\s*(?:` + quoted + `)\s*\)`)
)

var matchers = []*regexp.Regexp{
	importFromRe,
	bareImportRe,
	exportFromRe,
	requireRe,
	dynamicImportRe,
}

// Extract returns every module specifier referenced in text, in
// document order. Duplicate occurrences are kept; dedup is the
// caller's concern.
func Extract(text string) []Reference {
	type hit struct {
		ref   Reference
		start int
	}

	lines := newLineIndex(text)
	seen := make(map[int]bool) // specifier start offset -> already captured

	var hits []hit

	for _, re := range matchers {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			spec, quote, start := submatch(text, m)
			if start < 0 || seen[start] {
				continue
			}

			seen[start] = true

			if strings.TrimSpace(spec) == "" {
				continue
			}

			hits = append(hits, hit{
				ref: Reference{
					RawSpecifier: spec,
					Line:         lines.lineAt(start),
					Statement:    text[m[0]:m[1]],
					Quote:        quote,
				},
				start: start,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	refs := make([]Reference, 0, len(hits))
	for _, h := range hits {
		refs = append(refs, h.ref)
	}

	return refs
}

// submatch returns the captured specifier, its quote character and its
// start offset from a FindAllStringSubmatchIndex match. The first
// capture group holds single-quoted matches, the second double-quoted.
func submatch(text string, m []int) (spec string, quote byte, start int) {
	if m[2] >= 0 {
		return text[m[2]:m[3]], '\'', m[2]
	}

	if len(m) >= 6 && m[4] >= 0 {
		return text[m[4]:m[5]], '"', m[4]
	}

	return "", 0, -1
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}

	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &lineIndex{starts: starts}
}

func (li *lineIndex) lineAt(offset int) int {
	n := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset })

	return n
}
