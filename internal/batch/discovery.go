package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFile is returned when an explicitly named file does not have
// one of the requested extensions.
var ErrUnsupportedFile = errors.New("unsupported file type")

// DiscoverOptions controls which files Discover returns.
type DiscoverOptions struct {
	// Extensions such as ".pdf"; matched case-insensitively. Empty accepts all.
	Extensions []string
	Recursive  bool
	// Include and Exclude are filepath.Match globs applied to base names.
	Include []string
	Exclude []string
}

// Discover expands files and directories into a sorted, de-duplicated list
// of input files.
func Discover(paths []string, opts DiscoverOptions) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, arg := range paths {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := discoverInDirectory(arg, opts)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}

		if !hasExtension(arg, opts.Extensions) {
			return nil, fmt.Errorf("%w: %s (expected %s)", ErrUnsupportedFile, arg, strings.Join(opts.Extensions, ", "))
		}
		if shouldIncludeFile(arg, opts.Include, opts.Exclude) {
			add(arg)
		}
	}

	sort.Strings(files)
	return files, nil
}

// discoverInDirectory walks dir, descending into sub-folders only when recursive.
func discoverInDirectory(dir string, opts DiscoverOptions) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !opts.Recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if hasExtension(path, opts.Extensions) && shouldIncludeFile(path, opts.Include, opts.Exclude) {
			files = append(files, path)
		}

		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// hasExtension reports whether path ends in one of exts, ignoring case.
func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// shouldIncludeFile determines if a file should be included based on include/exclude patterns.
func shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	// Check exclude patterns first
	if matchesAnyPattern(path, excludePatterns) {
		return false
	}

	// If no include patterns, include all (that aren't excluded)
	if len(includePatterns) == 0 {
		return true
	}

	// Otherwise, must match at least one include pattern
	return matchesAnyPattern(path, includePatterns)
}

// matchesAnyPattern checks if a file path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
