package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/meghashyamc/filefind/db/kvdb"
	"github.com/meghashyamc/filefind/logger"
)

const (
	cacheKeySuffix = ".FFCache"
	cacheKeyFiller = "-"
)

var ErrCacheMiss = errors.New("no cached snapshot")

// MetadataStore is the durable storage behind the cache.
type MetadataStore interface {
	SetIfAbsent(bucket string, key string, value string) (bool, error)
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
}

// CacheIOError means a cache record exists but could not be used.
type CacheIOError struct {
	Root string
	Err  error
}

func (e *CacheIOError) Error() string {
	return fmt.Sprintf("cache record for %s is unusable: %s", e.Root, e.Err)
}

func (e *CacheIOError) Unwrap() error {
	return e.Err
}

// Store keeps one snapshot per canonical root. An entry is written on the
// first miss for that root and is never refreshed afterwards: a later scan of
// the same root is served from the stored snapshot even if the tree changed.
// Delete is the only way to get a fresh enumeration.
type Store struct {
	logger logger.Logger
	db     MetadataStore
}

func NewStore(logger logger.Logger, db MetadataStore) *Store {
	return &Store{logger: logger, db: db}
}

// CacheKey encodes root into a filesystem-safe record name.
func CacheKey(root string) string {
	replacer := strings.NewReplacer("/", cacheKeyFiller, "\\", cacheKeyFiller, ":", cacheKeyFiller)
	return replacer.Replace(root) + cacheKeySuffix
}

// Load returns ErrCacheMiss when nothing usable is stored for root.
func (s *Store) Load(root string) (*Snapshot, error) {
	value, err := s.db.Get(kvdb.SnapshotsBucket, CacheKey(root))
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) {
			return nil, ErrCacheMiss
		}
		s.logger.Error("failed to read cached snapshot", "root", root, "err", err.Error())
		return nil, &CacheIOError{Root: root, Err: err}
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(value), &snapshot); err != nil {
		s.logger.Warn("cached snapshot is corrupt", "root", root, "err", err.Error())
		return nil, &CacheIOError{Root: root, Err: err}
	}
	if err := snapshot.validate(); err != nil {
		s.logger.Warn("cached snapshot is inconsistent", "root", root, "err", err.Error())
		return nil, &CacheIOError{Root: root, Err: err}
	}

	// Two roots can encode to the same key; the record knows its own root.
	if snapshot.Root != root {
		s.logger.Warn("cached snapshot belongs to another root", "root", root, "cached_root", snapshot.Root)
		return nil, ErrCacheMiss
	}

	return &snapshot, nil
}

// Save stores snapshot unless an entry for its root already exists and
// reports whether it wrote.
func (s *Store) Save(snapshot *Snapshot) (bool, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("failed to marshal snapshot", "root", snapshot.Root, "err", err.Error())
		return false, fmt.Errorf("failed to marshal snapshot for %s: %w", snapshot.Root, err)
	}

	written, err := s.db.SetIfAbsent(kvdb.SnapshotsBucket, CacheKey(snapshot.Root), string(data))
	if err != nil {
		s.logger.Error("failed to cache snapshot", "root", snapshot.Root, "err", err.Error())
		return false, err
	}

	return written, nil
}

func (s *Store) Delete(root string) error {
	if err := s.db.Delete(kvdb.SnapshotsBucket, CacheKey(root)); err != nil {
		s.logger.Error("failed to delete cached snapshot", "root", root, "err", err.Error())
		return err
	}
	return nil
}
