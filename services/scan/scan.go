package scan

import (
	"context"
	"errors"

	"github.com/meghashyamc/filefind/logger"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	logger logger.Logger
	store  *Store
	walks  singleflight.Group
}

type walkOutcome struct {
	snapshot *Snapshot
	cacheHit bool
}

func New(logger logger.Logger, db MetadataStore) *Service {
	return &Service{
		logger: logger,
		store:  NewStore(logger, db),
	}
}

func (s *Service) Store() *Store {
	return s.store
}

// Scan returns the snapshot for a canonical root and whether it came from the
// cache. Concurrent scans of the same uncached root share one walk, and only
// the first writer stores its result.
func (s *Service) Scan(ctx context.Context, root string) (*Snapshot, bool, error) {
	if snapshot, err := s.store.Load(root); err == nil {
		s.logger.Info("scanning using cached data", "root", root)
		return snapshot, true, nil
	}

	for {
		resultC := s.walks.DoChan(root, func() (any, error) {
			return s.scanUncached(ctx, root)
		})

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case result := <-resultC:
			if result.Err != nil {
				// The shared walk belonged to a caller that was cancelled
				// or ran out of time.
				if isContextError(result.Err) && ctx.Err() == nil {
					continue
				}
				return nil, false, result.Err
			}
			outcome := result.Val.(walkOutcome)
			return outcome.snapshot, outcome.cacheHit, nil
		}
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Service) scanUncached(ctx context.Context, root string) (walkOutcome, error) {
	// An earlier flight may have stored the snapshot after our first check.
	if snapshot, err := s.store.Load(root); err == nil {
		return walkOutcome{snapshot: snapshot, cacheHit: true}, nil
	}

	snapshot, err := s.walk(ctx, root)
	if err != nil {
		return walkOutcome{}, err
	}

	written, err := s.store.Save(snapshot)
	switch {
	case err != nil:
		s.logger.Warn("could not cache snapshot, continuing without it", "root", root, "err", err.Error())
	case !written:
		s.logger.Info("cache entry already exists, skipping caching", "root", root)
	default:
		s.logger.Info("cached snapshot", "root", root, "entries", snapshot.Len())
	}

	return walkOutcome{snapshot: snapshot}, nil
}

// Seed stores snapshot as the cache entry of its root unless one exists.
func (s *Service) Seed(snapshot *Snapshot) (bool, error) {
	return s.store.Save(snapshot)
}

// DeleteCache removes the cached snapshot of root so that the next scan walks
// the tree again.
func (s *Service) DeleteCache(root string) error {
	return s.store.Delete(root)
}
