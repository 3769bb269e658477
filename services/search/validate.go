package search

import (
	"os"
	"strings"

	"github.com/meghashyamc/filefind/services/scan"
)

// Validate checks spec in a fixed order and returns the first failure as a
// *ValidationError. groups is the file group table the selection refers to.
func Validate(spec FilterSpec, groups map[string][]string) error {
	if spec.Name != "" && !spec.isGlob() {
		if spec.NameContains != "" || spec.Extension != "" || isRestrictedSelection(spec.FileGroups, groups) {
			return newValidationError(ConflictingNameFilters, "")
		}
	}

	if spec.Root == "" && spec.RawRoot == "" {
		return newValidationError(InvalidDirectory, "no directory given")
	}
	if spec.RawRoot != "" && spec.RawRoot != spec.Root && !isDir(spec.RawRoot) {
		return newValidationError(InvalidDirectory, spec.RawRoot)
	}

	if spec.SizeMinMB != nil && spec.SizeMaxMB != nil && *spec.SizeMinMB > *spec.SizeMaxMB {
		return newValidationError(SizeRangeInverted, "")
	}

	for _, dates := range []DateRange{spec.Created, spec.Modified} {
		if dates.From != nil && dates.To != nil && !dates.From.Before(*dates.To) {
			return newValidationError(DateRangeInverted, "")
		}
	}

	if !spec.IncludeSystemFiles {
		root, err := resolveRoot(spec)
		if err == nil && isProtectedPath(root) {
			return newValidationError(ProtectedPathWithSystemFilesDisabled, root)
		}
	}

	return nil
}

// resolveRoot picks the directory a spec searches: what the caller typed when
// that is a directory, else the confirmed working root.
func resolveRoot(spec FilterSpec) (string, error) {
	root := spec.Root
	if spec.RawRoot != "" && (root == "" || isDir(spec.RawRoot)) {
		root = spec.RawRoot
	}
	return scan.Canonical(root)
}

// isRestrictedSelection reports whether selected narrows the results, i.e. it
// is non-empty and leaves out at least one named group or "other".
func isRestrictedSelection(selected []string, groups map[string][]string) bool {
	if len(selected) == 0 {
		return false
	}

	chosen := normalizeGroups(selected)
	if _, ok := chosen[OtherGroup]; !ok {
		return true
	}
	for name := range groups {
		if _, ok := chosen[strings.ToLower(name)]; !ok {
			return true
		}
	}
	return false
}

func normalizeGroups(selected []string) map[string]struct{} {
	chosen := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		chosen[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return chosen
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
