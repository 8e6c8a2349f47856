// Package registry implements a minimal npm registry client: latest
// published version lookup and @types companion probing.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrPackageNotFound is returned when the registry has no package
// under the requested name.
var ErrPackageNotFound = errors.New("package not found in registry")

// ErrNoLatestTag is returned when the package document carries no
// "latest" dist-tag.
var ErrNoLatestTag = errors.New("package has no latest dist-tag")

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// defaultTimeout bounds a single registry call when the caller's
// context carries no deadline.
const defaultTimeout = 15 * time.Second

// Client queries an npm-compatible registry. The zero value is not
// usable; construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL (DefaultBaseURL when empty)
// using httpClient (a timeout-bounded default when nil).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// packageDocument is the subset of the registry response the client
// consumes.
type packageDocument struct {
	DistTags map[string]string `json:"dist-tags"`
}

// LatestVersion returns the version published under the "latest"
// dist-tag for name. A 404 maps to ErrPackageNotFound.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.packageURL(name), nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%s: %w", name, ErrPackageNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("fetch %s: unexpected status %d", name, resp.StatusCode)
	}

	var doc packageDocument

	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}

	latest, ok := doc.DistTags["latest"]
	if !ok || latest == "" {
		return "", fmt.Errorf("%s: %w", name, ErrNoLatestTag)
	}

	return latest, nil
}

// HasTypesPackage reports whether a @types companion exists for a
// plain package name. Lookup failures other than not-found are
// returned as errors so the caller can report them per package.
func (c *Client) HasTypesPackage(ctx context.Context, name string) (bool, error) {
	_, err := c.LatestVersion(ctx, TypesPackageName(name))
	if errors.Is(err, ErrPackageNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// TypesPackageName returns the DefinitelyTyped companion name for a
// plain package name.
func TypesPackageName(name string) string {
	return "@types/" + name
}

// packageURL builds the package document URL. The scope separator is
// escaped the way npm clients do for scoped names.
func (c *Client) packageURL(name string) string {
	escaped := name
	if strings.HasPrefix(name, "@") {
		escaped = strings.Replace(name, "/", "%2F", 1)
	} else {
		escaped = url.PathEscape(name)
	}

	return c.baseURL + "/" + escaped
}
