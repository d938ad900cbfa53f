package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/uiimport/pkg/parser"
)

// DefaultExclude skips dependency and build output directories.
var DefaultExclude = []string{
	"**/node_modules",
	"**/.git",
	"**/dist",
	"**/build",
	"**/.next",
	"**/*.min.js",
}

// DiscoverOptions filters discovered files. Patterns are doublestar globs
// matched against slash separated paths relative to the walk root.
type DiscoverOptions struct {
	Include []string
	Exclude []string
}

func (o DiscoverOptions) validate() error {
	for _, pattern := range o.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range o.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// Excluded reports whether the slash separated relative path matches an
// exclude pattern.
func (o DiscoverOptions) Excluded(relPath string) bool {
	for _, pattern := range o.Exclude {
		if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
			return true
		}
	}
	return false
}

func (o DiscoverOptions) included(relPath string) bool {
	if len(o.Include) == 0 {
		return true
	}
	for _, pattern := range o.Include {
		if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// DiscoverFiles walks rootDir for JavaScript and TypeScript sources passing
// opts. Returns sorted absolute paths.
func DiscoverFiles(rootDir string, opts DiscoverOptions) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if relPath != "." && opts.Excluded(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if parser.DetectDialect(path) == parser.DialectUnknown || !opts.included(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Expand resolves command line arguments: directories are walked with
// DiscoverFiles, files are taken as given. Duplicates are removed.
func Expand(args []string, opts DiscoverOptions) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}
			add(abs)
			continue
		}
		files, err := DiscoverFiles(arg, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}
