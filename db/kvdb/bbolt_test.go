package kvdb

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/meghashyamc/filefind/logger"
	"github.com/stretchr/testify/require"
)

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

func newTestDB(t *testing.T) *BoltDB {
	t.Helper()
	db, err := New(newTestLogger(), testConfig{path: filepath.Join(t.TempDir(), "nested", "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSetGetDelete(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	assert.NoError(db.Set(SnapshotsBucket, "k", "v1"))
	value, err := db.Get(SnapshotsBucket, "k")
	assert.NoError(err)
	assert.Equal("v1", value)

	// buckets are independent
	_, err = db.Get(SavedBucket, "k")
	var notFoundErr *NotFoundError
	assert.True(errors.As(err, &notFoundErr))
	assert.ErrorIs(err, ErrNotFound)

	assert.NoError(db.Delete(SnapshotsBucket, "k"))
	_, err = db.Get(SnapshotsBucket, "k")
	assert.ErrorIs(err, ErrNotFound)

	// deleting a missing key is not an error
	assert.NoError(db.Delete(SnapshotsBucket, "k"))
}

func TestEmptyAndUnknown(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	assert.ErrorIs(db.Set(SnapshotsBucket, "", "v"), ErrInvalidKey)
	_, err := db.Get(SnapshotsBucket, "")
	assert.ErrorIs(err, ErrInvalidKey)
	_, err = db.SetIfAbsent(SnapshotsBucket, "", "v")
	assert.ErrorIs(err, ErrInvalidKey)

	assert.ErrorIs(db.Set("nope", "k", "v"), ErrBucketNotFound)
}

func TestSetIfAbsent(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	written, err := db.SetIfAbsent(SnapshotsBucket, "root", "first")
	assert.NoError(err)
	assert.True(written)

	written, err = db.SetIfAbsent(SnapshotsBucket, "root", "second")
	assert.NoError(err)
	assert.False(written)

	value, err := db.Get(SnapshotsBucket, "root")
	assert.NoError(err)
	assert.Equal("first", value)
}

func TestSetIfAbsentConcurrentWriters(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	var writes atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			written, err := db.SetIfAbsent(SnapshotsBucket, "shared", "v")
			if err == nil && written {
				writes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(int32(1), writes.Load())
}

func TestGetAllKeys(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	keys, err := db.GetAllKeys(SavedBucket)
	assert.NoError(err)
	assert.Empty(keys)

	assert.NoError(db.Set(SavedBucket, "b", "2"))
	assert.NoError(db.Set(SavedBucket, "a", "1"))

	keys, err = db.GetAllKeys(SavedBucket)
	assert.NoError(err)
	assert.Equal([]string{"a", "b"}, keys)
}
