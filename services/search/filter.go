package search

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/meghashyamc/filefind/services/scan"
)

const cancelCheckInterval = 512

// Settings is the read-only view of user settings the engine needs.
type Settings interface {
	ExcludedFiles() []string
	FileGroups() map[string][]string
}

type stage struct {
	name   string
	active bool
	run    func(ctx context.Context, candidates []string) ([]string, error)
}

// Filter reduces the snapshot to the paths that pass every filter of spec,
// keeping snapshot order. Every stage builds a new slice; the noise stage
// always runs, so the result never aliases snapshot.Paths.
func Filter(ctx context.Context, snapshot *scan.Snapshot, spec FilterSpec, settings Settings) ([]string, error) {
	f := newFilters(snapshot, spec, settings)

	candidates := snapshot.Paths
	for _, st := range f.stages() {
		if !st.active {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var err error
		candidates, err = st.run(ctx, candidates)
		if err != nil {
			return nil, err
		}
	}

	return candidates, nil
}

type filters struct {
	snapshot *scan.Snapshot
	spec     FilterSpec
	excluded []string

	name         string
	glob         bool
	pattern      string
	nameContains string
	extension    string

	groupsActive   bool
	selectedExts   map[string]struct{}
	namedExts      map[string]struct{}
	otherSelected  bool
	minBytes       int64
	maxBytes       int64
	sizeActive     bool
	datesActive    bool
	contentPattern []byte
}

func newFilters(snapshot *scan.Snapshot, spec FilterSpec, settings Settings) *filters {
	f := &filters{
		snapshot:     snapshot,
		spec:         spec,
		excluded:     settings.ExcludedFiles(),
		name:         strings.ToLower(spec.Name),
		glob:         spec.isGlob(),
		nameContains: strings.ToLower(spec.NameContains),
		extension:    spec.extension(),
		datesActive:  spec.Created.active() || spec.Modified.active(),
	}

	// An invalid pattern is compared literally.
	if f.glob {
		f.pattern = escapeGlob(f.name)
		if !doublestar.ValidatePattern(f.pattern) {
			f.glob = false
		}
	}

	f.minBytes, f.maxBytes, f.sizeActive = spec.sizeBounds()

	if spec.Content != "" {
		f.contentPattern = []byte(spec.Content)
	}

	groups := settings.FileGroups()
	if isRestrictedSelection(spec.FileGroups, groups) {
		f.groupsActive = true
		f.selectedExts = make(map[string]struct{})
		f.namedExts = make(map[string]struct{})
		chosen := normalizeGroups(spec.FileGroups)
		_, f.otherSelected = chosen[OtherGroup]

		for group, extensions := range groups {
			_, selected := chosen[strings.ToLower(group)]
			for _, ext := range extensions {
				ext = strings.ToLower(strings.TrimPrefix(ext, "."))
				f.namedExts[ext] = struct{}{}
				if selected {
					f.selectedExts[ext] = struct{}{}
				}
			}
		}
	}

	return f
}

func (f *filters) stages() []stage {
	return []stage{
		{name: "name", active: f.name != "", run: f.keeping(f.matchName)},
		{name: "name_contains", active: f.nameContains != "", run: f.keeping(f.matchNameContains)},
		{name: "extension", active: f.extension != "", run: f.keeping(f.matchExtension)},
		{name: "system_files", active: !f.spec.IncludeSystemFiles, run: f.keeping(f.matchSystem)},
		{name: "type", active: f.spec.Type == TypeFiles || f.spec.Type == TypeFolders, run: f.keeping(f.matchType)},
		{name: "file_groups", active: f.groupsActive, run: f.keeping(f.matchGroups)},
		{name: "dates", active: f.datesActive, run: f.keeping(f.matchDates)},
		{name: "size", active: f.sizeActive, run: f.keeping(f.matchSize)},
		{name: "content", active: f.contentPattern != nil, run: f.filterByContent},
		{name: "noise", active: true, run: f.keeping(f.matchNoise)},
		{name: "excluded_files", active: len(f.excluded) > 0, run: f.keeping(f.matchExcluded)},
	}
}

func (f *filters) keeping(keep func(path string) bool) func(context.Context, []string) ([]string, error) {
	return func(ctx context.Context, candidates []string) ([]string, error) {
		kept := make([]string, 0, len(candidates))
		for i, path := range candidates {
			if i%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			if keep(path) {
				kept = append(kept, path)
			}
		}
		return kept, nil
	}
}

func (f *filters) matchName(path string) bool {
	basename := f.snapshot.Basename(path)
	if !f.glob {
		return basename == f.name
	}
	matched, err := doublestar.Match(f.pattern, basename)
	return err == nil && matched
}

// globEscaper limits doublestar to shell globbing: braces and backslashes
// are ordinary characters.
var globEscaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)

func escapeGlob(pattern string) string {
	return globEscaper.Replace(pattern)
}

func (f *filters) matchNameContains(path string) bool {
	return strings.Contains(f.snapshot.Basename(path), f.nameContains)
}

func (f *filters) matchExtension(path string) bool {
	return strings.HasSuffix(f.snapshot.Basename(path), "."+f.extension)
}

func (f *filters) matchSystem(path string) bool {
	return !isProtectedPath(path)
}

func (f *filters) matchType(path string) bool {
	isFolder := f.snapshot.Kind(path) == scan.KindFolder
	if f.spec.Type == TypeFiles {
		return !isFolder
	}
	return isFolder
}

func (f *filters) matchGroups(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(f.snapshot.Basename(path)), ".")
	if _, ok := f.selectedExts[ext]; ok {
		return true
	}
	if f.otherSelected {
		_, named := f.namedExts[ext]
		return !named
	}
	return false
}

func (f *filters) matchDates(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	if f.spec.Modified.active() && !f.spec.Modified.contains(info.ModTime()) {
		return false
	}

	if f.spec.Created.active() {
		created, err := creationTime(path, info)
		if err != nil {
			return false
		}
		if !f.spec.Created.contains(created) {
			return false
		}
	}

	return true
}

// Folders carry no comparable size and always pass.
func (f *filters) matchSize(path string) bool {
	if f.snapshot.Kind(path) == scan.KindFolder {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return true
	}
	return info.Size() >= f.minBytes && info.Size() <= f.maxBytes
}

func (f *filters) matchNoise(path string) bool {
	return !isNoise(f.snapshot.Basename(path))
}

func (f *filters) matchExcluded(path string) bool {
	for _, prefix := range f.excluded {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}
