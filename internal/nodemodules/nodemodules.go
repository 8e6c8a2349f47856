// Package nodemodules snapshots the set of installed packages under a
// project's node_modules directory.
package nodemodules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Snapshot returns the package names present under root/node_modules
// at call time, including scoped packages as "@scope/name". A missing
// node_modules directory yields an empty set, not an error: nothing is
// installed.
func Snapshot(root string) (map[string]struct{}, error) {
	dir := filepath.Join(root, "node_modules")

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	installed := make(map[string]struct{})

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		if strings.HasPrefix(name, "@") {
			scoped, scopeErr := os.ReadDir(filepath.Join(dir, name))
			if scopeErr != nil {
				return nil, fmt.Errorf("read scope %s: %w", name, scopeErr)
			}

			for _, pkg := range scoped {
				if pkg.IsDir() {
					installed[name+"/"+pkg.Name()] = struct{}{}
				}
			}

			continue
		}

		installed[name] = struct{}{}
	}

	return installed, nil
}
