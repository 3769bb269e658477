package search

import (
	"strings"
	"time"
)

type TypeFilter string

const (
	TypeBoth    TypeFilter = ""
	TypeFiles   TypeFilter = "files"
	TypeFolders TypeFilter = "folders"
)

type SortKey string

const (
	SortNone     SortKey = ""
	SortName     SortKey = "name"
	SortSize     SortKey = "size"
	SortModified SortKey = "modified"
	SortCreated  SortKey = "created"
	SortPath     SortKey = "path"
)

// OtherGroup selects files whose extension is in none of the named groups.
const OtherGroup = "other"

const bytesPerMB = 1_000_000

// DateRange bounds a timestamp. A nil bound is open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

func (r DateRange) active() bool {
	return r.From != nil || r.To != nil
}

func (r DateRange) contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// FilterSpec is everything one search invocation was asked for. The zero
// value of every field means "no filter".
type FilterSpec struct {
	// Name is an exact basename, or a shell glob when it holds *, ? or [.
	Name         string `json:"name,omitempty"`
	NameContains string `json:"name_contains,omitempty"`
	// Extension is matched as a basename suffix; a leading dot is ignored.
	Extension string `json:"extension,omitempty"`
	// SizeMinMB and SizeMaxMB only filter when both are set.
	SizeMinMB *float64   `json:"size_min_mb,omitempty"`
	SizeMaxMB *float64   `json:"size_max_mb,omitempty"`
	Created   DateRange  `json:"created"`
	Modified  DateRange  `json:"modified"`
	Content   string     `json:"content,omitempty"`
	Type      TypeFilter `json:"type,omitempty"`
	// FileGroups selects group names from the file group table, plus OtherGroup.
	FileGroups         []string `json:"file_groups,omitempty"`
	IncludeSystemFiles bool     `json:"include_system_files"`
	SortBy             SortKey  `json:"sort_by,omitempty"`
	Reverse            bool     `json:"reverse"`
	// Root is the confirmed working root, RawRoot what the caller typed.
	Root    string `json:"root"`
	RawRoot string `json:"raw_root,omitempty"`
}

// Clone returns a deep copy so that a worker never shares mutable state with
// its caller.
func (s FilterSpec) Clone() FilterSpec {
	clone := s
	clone.SizeMinMB = cloneFloat(s.SizeMinMB)
	clone.SizeMaxMB = cloneFloat(s.SizeMaxMB)
	clone.Created = DateRange{From: cloneTime(s.Created.From), To: cloneTime(s.Created.To)}
	clone.Modified = DateRange{From: cloneTime(s.Modified.From), To: cloneTime(s.Modified.To)}
	clone.FileGroups = append([]string(nil), s.FileGroups...)
	return clone
}

func (s FilterSpec) isGlob() bool {
	return IsGlob(s.Name)
}

func (s FilterSpec) extension() string {
	return strings.ToLower(strings.TrimPrefix(s.Extension, "."))
}

func (s FilterSpec) sizeBounds() (int64, int64, bool) {
	if s.SizeMinMB == nil || s.SizeMaxMB == nil {
		return 0, 0, false
	}
	return int64(*s.SizeMinMB * bytesPerMB), int64(*s.SizeMaxMB * bytesPerMB), true
}

// IsGlob reports whether name holds shell glob metacharacters.
func IsGlob(name string) bool {
	return strings.ContainsAny(name, "*?[")
}

// Timings are wall-clock durations of one search, for display only.
type Timings struct {
	Total  time.Duration `json:"total"`
	Scan   time.Duration `json:"scan"`
	Filter time.Duration `json:"filter"`
	Sort   time.Duration `json:"sort"`
}

type Result struct {
	Root     string   `json:"root"`
	Paths    []string `json:"paths"`
	Timings  Timings  `json:"timings"`
	CacheHit bool     `json:"cache_hit"`
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ParseSortKey accepts the sort key names, with "none" as an alias of SortNone.
func ParseSortKey(key string) (SortKey, bool) {
	switch SortKey(strings.ToLower(key)) {
	case SortNone, SortName, SortSize, SortModified, SortCreated, SortPath:
		return SortKey(strings.ToLower(key)), true
	case "none":
		return SortNone, true
	}
	return SortNone, false
}

// ParseTypeFilter accepts "files", "folders", "both" or an empty string.
func ParseTypeFilter(filter string) (TypeFilter, bool) {
	switch TypeFilter(strings.ToLower(filter)) {
	case TypeBoth, "both":
		return TypeBoth, true
	case TypeFiles:
		return TypeFiles, true
	case TypeFolders:
		return TypeFolders, true
	}
	return TypeBoth, false
}
