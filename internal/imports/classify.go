package imports

import (
	"log/slog"
	"strings"
)

// defaultKnownScopes lists npm publisher scopes that are recognized as
// genuine package scopes. Projects routinely configure "@/..."-style
// path aliases that are syntactically identical to scoped packages;
// any "@" specifier whose scope is not in this list is treated as a
// likely path alias and excluded from package resolution. The list is
// inherently incomplete; callers can extend it via configuration.
var defaultKnownScopes = []string{
	"@types", "@babel", "@angular", "@vue", "@react", "@mui", "@material",
	"@testing-library", "@storybook", "@emotion", "@jest", "@aws",
	"@microsoft", "@apollo", "@nestjs", "@sentry", "@chakra-ui", "@next",
	"@prisma", "@stripe", "@tanstack", "@reduxjs", "@fortawesome",
}

// Classifier decides the kind of a raw specifier and normalizes
// package specifiers to registry lookup keys.
type Classifier struct {
	knownScopes map[string]struct{}
	logger      *slog.Logger
}

// NewClassifier creates a Classifier recognizing the default npm
// scopes plus any extra scopes from configuration. Scope names may be
// given with or without the leading "@".
func NewClassifier(extraScopes []string, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}

	scopes := make(map[string]struct{}, len(defaultKnownScopes)+len(extraScopes))

	for _, s := range defaultKnownScopes {
		scopes[s] = struct{}{}
	}

	for _, s := range extraScopes {
		if s == "" {
			continue
		}

		if !strings.HasPrefix(s, "@") {
			s = "@" + s
		}

		scopes[s] = struct{}{}
	}

	return &Classifier{knownScopes: scopes, logger: logger}
}

// Classify determines the kind of a raw specifier. The second return
// value is false for empty or whitespace-only specifiers, which are
// discarded.
func (c *Classifier) Classify(raw string) (Kind, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}

	switch {
	case strings.HasPrefix(raw, "."):
		return KindRelativePath, true
	case strings.HasPrefix(raw, "/"):
		return KindAbsolutePath, true
	case strings.HasPrefix(raw, "@"):
		if _, ok := c.knownScopes[scopeOf(raw)]; ok {
			return KindScopedPackage, true
		}

		return KindAliasPath, true
	default:
		return KindBarePackage, true
	}
}

// PackageName reduces a package specifier to its registry key: the
// first path segment for bare packages, "@scope/name" for scoped ones.
// Subpaths are discarded. It returns false for path specifiers, for
// "@" specifiers whose scope is not recognized (logged as a likely
// path alias), and for empty specifiers.
func (c *Classifier) PackageName(raw string) (string, bool) {
	kind, ok := c.Classify(raw)
	if !ok {
		return "", false
	}

	switch kind {
	case KindBarePackage:
		name, _, _ := strings.Cut(raw, "/")

		return name, true
	case KindScopedPackage:
		parts := strings.SplitN(raw, "/", 3)
		if len(parts) < 2 || parts[1] == "" {
			return "", false
		}

		return parts[0] + "/" + parts[1], true
	case KindAliasPath:
		c.logger.Debug("skipping likely path alias", "specifier", raw)

		return "", false
	default:
		return "", false
	}
}

// scopeOf returns the "@scope" portion of a scoped specifier.
func scopeOf(raw string) string {
	scope, _, _ := strings.Cut(raw, "/")

	return scope
}
