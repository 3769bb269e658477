package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Snapshot is the raw enumeration of a directory tree. Paths keeps the walk
// order and holds no duplicates; both indices have exactly the keys in Paths.
// A snapshot is never modified once it has been returned by the scanner.
type Snapshot struct {
	Root          string            `json:"root"`
	Paths         []string          `json:"paths"`
	BasenameIndex map[string]string `json:"basename_index"`
	KindIndex     map[string]Kind   `json:"kind_index"`
}

func newSnapshot(root string) *Snapshot {
	return &Snapshot{
		Root:          root,
		Paths:         make([]string, 0),
		BasenameIndex: make(map[string]string),
		KindIndex:     make(map[string]Kind),
	}
}

func (s *Snapshot) add(path string, kind Kind) {
	if _, ok := s.KindIndex[path]; ok {
		return
	}
	s.Paths = append(s.Paths, path)
	s.BasenameIndex[path] = strings.ToLower(filepath.Base(path))
	s.KindIndex[path] = kind
}

func (s *Snapshot) Len() int {
	return len(s.Paths)
}

// Kind reports the recorded kind of path, KindFile when it is unknown.
func (s *Snapshot) Kind(path string) Kind {
	if kind, ok := s.KindIndex[path]; ok {
		return kind
	}
	return KindFile
}

// Basename returns the lowercased basename of path.
func (s *Snapshot) Basename(path string) string {
	if name, ok := s.BasenameIndex[path]; ok {
		return name
	}
	return strings.ToLower(filepath.Base(path))
}

func (s *Snapshot) validate() error {
	if len(s.BasenameIndex) != len(s.Paths) || len(s.KindIndex) != len(s.Paths) {
		return fmt.Errorf("index sizes differ from path count %d", len(s.Paths))
	}
	for _, path := range s.Paths {
		if _, ok := s.BasenameIndex[path]; !ok {
			return fmt.Errorf("path %s missing from basename index", path)
		}
		kind, ok := s.KindIndex[path]
		if !ok {
			return fmt.Errorf("path %s missing from kind index", path)
		}
		if kind != KindFile && kind != KindFolder {
			return fmt.Errorf("path %s has unknown kind %q", path, kind)
		}
	}
	return nil
}

// FromPaths builds a snapshot from an existing list of paths. Kinds are read
// from the filesystem; paths that no longer exist are recorded as files.
func FromPaths(root string, paths []string) *Snapshot {
	snapshot := newSnapshot(root)
	for _, path := range paths {
		kind := KindFile
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			kind = KindFolder
		}
		snapshot.add(path, kind)
	}
	return snapshot
}

// Canonical returns the absolute, cleaned form of root used as cache key.
func Canonical(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	return filepath.Clean(absRoot), nil
}
