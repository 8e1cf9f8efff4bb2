package parser

import (
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
)

// ExpandGlobs expands file paths and glob patterns into a sorted,
// deduplicated list. Patterns that match nothing are kept as literal paths
// so that opening them reports a useful error. StdinName is passed through.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		if pattern == StdinName {
			add(pattern)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid glob pattern %q", pattern)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, match := range matches {
			add(match)
		}
	}

	sort.Strings(result)

	return result, nil
}
