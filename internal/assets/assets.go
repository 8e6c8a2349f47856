// Package assets verifies that imported visual/style asset files
// exist on disk, reporting each missing reference with its file and
// line number.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/jsmonitor/jsmonitor/internal/imports"
)

// maxWorkers caps the worker pool regardless of core count; the work
// is I/O bound.
const maxWorkers = 32

// workersPerCPU scales the pool for I/O-bound stat/read calls.
const workersPerCPU = 5

// Finding is one missing-asset report entry.
type Finding struct {
	File      string
	Line      int
	Specifier string
}

// Report aggregates a check run. Findings and Errors are sorted so the
// report is a deterministic function of the input set regardless of
// worker completion order.
type Report struct {
	Findings []Finding
	Errors   []error
	Checked  int
}

// Checker scans source files for asset imports and verifies target
// existence. Files are processed concurrently by a bounded pool.
type Checker struct {
	// Matcher extracts asset references; nil selects the default
	// extension set.
	Matcher *imports.AssetMatcher
	// Workers bounds the pool; zero selects min(32, 5*NumCPU).
	Workers int
	// OnFileChecked, when set, is invoked after each file completes
	// with the number done so far. Used for progress reporting.
	OnFileChecked func(done int)
}

// Check reads every file, extracts asset imports and stats their
// resolved targets. A single unreadable file is reported in
// Report.Errors and never aborts the batch.
func (c *Checker) Check(ctx context.Context, files []string) *Report {
	matcher := c.Matcher
	if matcher == nil {
		matcher = imports.NewAssetMatcher(nil)
	}

	workers := c.Workers
	if workers <= 0 {
		workers = min(maxWorkers, runtime.NumCPU()*workersPerCPU)
	}

	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
	)

	fileChan := make(chan string, workers)

	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			for file := range fileChan {
				findings, errs := checkFile(matcher, file)

				mu.Lock()
				report.Findings = append(report.Findings, findings...)
				report.Errors = append(report.Errors, errs...)
				report.Checked++
				done := report.Checked
				mu.Unlock()

				if c.OnFileChecked != nil {
					c.OnFileChecked(done)
				}
			}
		}()
	}

feed:
	for _, file := range files {
		select {
		case <-ctx.Done():
			break feed
		case fileChan <- file:
		}
	}

	close(fileChan)
	wg.Wait()

	sort.Slice(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if a.File != b.File {
			return a.File < b.File
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		return a.Specifier < b.Specifier
	})

	sort.Slice(report.Errors, func(i, j int) bool {
		return report.Errors[i].Error() < report.Errors[j].Error()
	})

	return &report
}

// checkFile extracts asset references from one file and stats each
// resolved target.
func checkFile(matcher *imports.AssetMatcher, file string) ([]Finding, []error) {
	text, err := os.ReadFile(file)
	if err != nil {
		return nil, []error{fmt.Errorf("read %s: %w", file, err)}
	}

	var (
		findings []Finding
		errs     []error
	)

	for _, ref := range matcher.Extract(string(text)) {
		target, ok := resolveTarget(ref.RawSpecifier, filepath.Dir(file))
		if !ok {
			continue
		}

		_, statErr := os.Stat(target)

		switch {
		case statErr == nil:
		case os.IsNotExist(statErr):
			findings = append(findings, Finding{File: file, Line: ref.Line, Specifier: ref.RawSpecifier})
		default:
			errs = append(errs, fmt.Errorf("resolve %s line %d: %w", file, ref.Line, statErr))
		}
	}

	return findings, errs
}

// resolveTarget strips query/fragment suffixes and resolves the
// specifier to an absolute path. Remote URLs and bare package
// specifiers (asset-loader imports) are skipped.
func resolveTarget(spec, fileDir string) (string, bool) {
	clean := spec

	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}

	if strings.HasPrefix(clean, "http://") || strings.HasPrefix(clean, "https://") {
		return "", false
	}

	switch {
	case strings.HasPrefix(clean, "."):
		return filepath.Clean(filepath.Join(fileDir, clean)), true
	case strings.HasPrefix(clean, "/"):
		return filepath.Clean(clean), true
	default:
		return "", false
	}
}
