package search

import (
	"cmp"
	"math"
	"os"
	"path/filepath"
	"slices"
)

// Sort returns paths ordered by key. Size and date keys put the largest or
// newest first unless reverse is set; name and path keys are alphabetical
// unless reverse is set. SortNone keeps the given order and only honours
// reverse. Entries that cannot be read sort as the smallest value.
func Sort(paths []string, key SortKey, reverse bool) []string {
	sorted := slices.Clone(paths)
	if sorted == nil {
		sorted = make([]string, 0)
	}

	switch key {
	case SortName:
		sortStable(sorted, filepath.Base, reverse)
	case SortPath:
		sortStable(sorted, func(path string) string { return path }, reverse)
	case SortSize:
		sortStable(sorted, sizeKey, !reverse)
	case SortModified:
		sortStable(sorted, modifiedKey, !reverse)
	case SortCreated:
		sortStable(sorted, createdKey, !reverse)
	default:
		if reverse {
			slices.Reverse(sorted)
		}
	}

	return sorted
}

// sortStable computes every key once, then sorts ascending or descending.
func sortStable[K cmp.Ordered](paths []string, keyOf func(string) K, descending bool) {
	keys := make(map[string]K, len(paths))
	for _, path := range paths {
		keys[path] = keyOf(path)
	}

	slices.SortStableFunc(paths, func(a, b string) int {
		if descending {
			return cmp.Compare(keys[b], keys[a])
		}
		return cmp.Compare(keys[a], keys[b])
	})
}

func sizeKey(path string) int64 {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return -1
	}
	return info.Size()
}

func modifiedKey(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return math.MinInt64
	}
	return info.ModTime().UnixNano()
}

func createdKey(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return math.MinInt64
	}
	created, err := creationTime(path, info)
	if err != nil {
		return math.MinInt64
	}
	return created.UnixNano()
}
