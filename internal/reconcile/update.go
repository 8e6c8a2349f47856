package reconcile

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// updateConcurrency bounds simultaneous registry lookups during an
// update pass. Lookups are read-only, so only the result map is
// serialized.
const updateConcurrency = 10

// UpdateResult is the outcome for one manifest entry.
type UpdateResult struct {
	Name    string
	Current string
	Latest  string
	Err     error
}

// OutOfDate reports whether the current range pins a version older
// than the latest published one. Range operators are stripped before
// comparison, mirroring how the manifest stores caret ranges.
func (u UpdateResult) OutOfDate() bool {
	return u.Err == nil && strings.TrimLeft(u.Current, "^~>=<") != u.Latest
}

// PlanUpdates looks up the latest version for every entry of a
// manifest section concurrently and returns results sorted by package
// name. A lookup failure is recorded on its entry and does not abort
// the batch.
func PlanUpdates(ctx context.Context, lookup VersionLookup, section map[string]string) []UpdateResult {
	results := make([]UpdateResult, 0, len(section))

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(updateConcurrency)

	for name, current := range section {
		name, current := name, current

		group.Go(func() error {
			latest, err := lookup.LatestVersion(groupCtx, name)

			mu.Lock()
			results = append(results, UpdateResult{Name: name, Current: current, Latest: latest, Err: err})
			mu.Unlock()

			// Per-package failures are part of the result set, never a
			// group error.
			return nil
		})
	}

	_ = group.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	return results
}

// Applied converts successful results into a name -> version map for a
// manifest merge.
func Applied(results []UpdateResult) map[string]string {
	applied := make(map[string]string, len(results))

	for _, r := range results {
		if r.Err == nil {
			applied[r.Name] = r.Latest
		}
	}

	return applied
}
