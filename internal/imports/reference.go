// Package imports extracts and classifies module specifiers from
// JavaScript and TypeScript source text using a fixed set of regex
// matchers. It is deliberately not a parser: multi-line destructured
// imports with unusual whitespace and template-literal specifiers are
// known false negatives.
package imports

// Kind classifies a raw module specifier.
type Kind int

const (
	// KindBarePackage is an unscoped package specifier, e.g. "react".
	KindBarePackage Kind = iota
	// KindScopedPackage is a scoped package specifier, e.g. "@types/node".
	KindScopedPackage
	// KindRelativePath starts with "." and resolves against the importing file.
	KindRelativePath
	// KindAbsolutePath starts with "/" and is used as-is.
	KindAbsolutePath
	// KindAliasPath starts with "@" but its scope is not a known package
	// scope, so it is treated as a project path alias.
	KindAliasPath
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBarePackage:
		return "bare-package"
	case KindScopedPackage:
		return "scoped-package"
	case KindRelativePath:
		return "relative-path"
	case KindAbsolutePath:
		return "absolute-path"
	case KindAliasPath:
		return "alias-path"
	default:
		return "unknown"
	}
}

// Reference is one extracted specifier occurrence. It is created per
// match during extraction and never mutated afterwards.
type Reference struct {
	// RawSpecifier is the literal string between the quotes, including
	// any subpath after the package root.
	RawSpecifier string
	// Line is the 1-based line number of the match.
	Line int
	// Statement is the full matched statement text, kept for rewriting.
	Statement string
	// Quote is the quote character delimiting the specifier.
	Quote byte
}

// IsPath reports whether the specifier is a filesystem path reference
// rather than a package name.
func (r Reference) IsPath() bool {
	return len(r.RawSpecifier) > 0 && (r.RawSpecifier[0] == '.' || r.RawSpecifier[0] == '/')
}
