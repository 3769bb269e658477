package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meghashyamc/filefind/db/kvdb"
	"github.com/meghashyamc/filefind/services/scan"
)

const loadedRootPrefix = "loaded from "

var ErrSavedSearchNotFound = errors.New("saved search not found")

type SavedStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	GetAllKeys(bucket string) ([]string, error)
}

type SavedSearch struct {
	Name    string     `json:"name"`
	Spec    FilterSpec `json:"spec"`
	Result  Result     `json:"result"`
	SavedAt time.Time  `json:"saved_at"`
}

// SavedRoot is the cache root a loaded saved search is seeded under.
func SavedRoot(name string) string {
	return loadedRootPrefix + name
}

func (s *Service) SaveSearch(name string, spec FilterSpec, result *Result) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("saved search name cannot be empty")
	}
	if result == nil {
		return fmt.Errorf("nothing to save for %s", name)
	}

	saved := SavedSearch{
		Name:    name,
		Spec:    spec.Clone(),
		Result:  *result,
		SavedAt: time.Now().UTC(),
	}
	saved.Result.Paths = append([]string(nil), result.Paths...)

	data, err := json.Marshal(saved)
	if err != nil {
		s.logger.Error("failed to marshal saved search", "name", name, "err", err.Error())
		return fmt.Errorf("failed to marshal saved search %s: %w", name, err)
	}

	if err := s.savedStore.Set(kvdb.SavedBucket, name, string(data)); err != nil {
		s.logger.Error("failed to store saved search", "name", name, "err", err.Error())
		return err
	}

	s.logger.Info("saved search", "name", name, "paths", len(saved.Result.Paths))
	return nil
}

// LoadSearch reads a saved search and seeds the cache with its paths under
// SavedRoot(name), so that Reload does not walk anything.
func (s *Service) LoadSearch(name string) (*SavedSearch, error) {
	value, err := s.savedStore.Get(kvdb.SavedBucket, name)
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) {
			return nil, ErrSavedSearchNotFound
		}
		return nil, err
	}

	var saved SavedSearch
	if err := json.Unmarshal([]byte(value), &saved); err != nil {
		s.logger.Error("failed to unmarshal saved search", "name", name, "err", err.Error())
		return nil, fmt.Errorf("failed to unmarshal saved search %s: %w", name, err)
	}

	// The saved record may have been replaced since the last load.
	if err := s.scanner.DeleteCache(SavedRoot(name)); err != nil {
		s.logger.Warn("could not clear cache of saved search", "name", name, "err", err.Error())
	}
	if _, err := s.scanner.Seed(scan.FromPaths(SavedRoot(name), saved.Result.Paths)); err != nil {
		s.logger.Warn("could not seed cache from saved search", "name", name, "err", err.Error())
	}

	return &saved, nil
}

func (s *Service) ListSaved() ([]string, error) {
	return s.savedStore.GetAllKeys(kvdb.SavedBucket)
}

// Reload loads a saved search and runs spec against its seeded snapshot.
func (s *Service) Reload(name string, spec FilterSpec) (*Job, error) {
	if _, err := s.LoadSearch(name); err != nil {
		return nil, err
	}

	spec = spec.Clone()
	root := SavedRoot(name)
	spec.Root = root
	spec.RawRoot = ""

	if err := Validate(spec, s.settings.FileGroups()); err != nil {
		return nil, err
	}

	return s.dispatch(spec, root), nil
}
