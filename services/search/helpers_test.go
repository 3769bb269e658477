package search

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/meghashyamc/filefind/db/kvdb"
	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/scan"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	excluded  []string
	groups    map[string][]string
	retention time.Duration
}

func (s testSettings) ExcludedFiles() []string {
	return s.excluded
}

func (s testSettings) FileGroups() map[string][]string {
	return s.groups
}

func (s testSettings) JobRetention() time.Duration {
	return s.retention
}

var testGroups = map[string][]string{
	"images":    {"jpg", "png"},
	"documents": {".txt", "md"},
	"music":     {"mp3"},
}

func newTestSettings() testSettings {
	return testSettings{groups: testGroups}
}

type testConfig struct {
	path string
}

func (c testConfig) GetKVDBPath() string {
	return c.path
}

func newTestLogger() logger.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler)
}

type testFile struct {
	content string
	size    int64 // zero means len(content)
}

// scenarioFiles is the tree used by the end to end scenarios.
var scenarioFiles = map[string]testFile{
	"a.txt":     {content: "first line\nsay hello\n", size: 1_000_000},
	"b.jpg":     {content: "\xff\xd8\xff", size: 5_000_000},
	"sub/c.txt": {content: "nothing here\n", size: 2_000_000},
}

func createFiles(t *testing.T, files map[string]testFile) string {
	t.Helper()
	root := t.TempDir()
	for relPath, file := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(relPath))
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte(file.content), 0644))
		if file.size > 0 {
			require.NoError(t, os.Truncate(fullPath, file.size))
		}
	}
	return root
}

func newTestDB(t *testing.T) *kvdb.BoltDB {
	t.Helper()
	db, err := kvdb.New(newTestLogger(), testConfig{path: filepath.Join(t.TempDir(), "filefind.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestService(t *testing.T, ctx context.Context, settings ServiceSettings) (*Service, *kvdb.BoltDB) {
	t.Helper()
	db := newTestDB(t)
	scanner := scan.New(newTestLogger(), db)
	return New(ctx, newTestLogger(), scanner, settings, db), db
}

// snapshotOf walks root the way the scanner does, without a cache.
func snapshotOf(t *testing.T, root string) *scan.Snapshot {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(root, func(path string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root {
			paths = append(paths, path)
		}
		return nil
	})
	require.NoError(t, err)
	return scan.FromPaths(root, paths)
}

func join(root string, relPaths ...string) []string {
	joined := make([]string, 0, len(relPaths))
	for _, relPath := range relPaths {
		joined = append(joined, filepath.Join(root, filepath.FromSlash(relPath)))
	}
	sort.Strings(joined)
	return joined
}

func sorted(paths []string) []string {
	copied := append([]string(nil), paths...)
	sort.Strings(copied)
	return copied
}

func ptr[T any](v T) *T {
	return &v
}
