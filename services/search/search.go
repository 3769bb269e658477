package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/scan"
)

// Scanner produces the raw snapshot of a root.
type Scanner interface {
	Scan(ctx context.Context, root string) (*scan.Snapshot, bool, error)
	Seed(snapshot *scan.Snapshot) (bool, error)
	DeleteCache(root string) error
}

// ServiceSettings adds the job registry settings to the filter settings.
type ServiceSettings interface {
	Settings
	// JobRetention is how long a finished job stays in the registry.
	JobRetention() time.Duration
}

const defaultJobRetention = 10 * time.Minute

// ConfirmFunc asks the caller whether a validated search should start.
// Returning false cancels the search without an error.
type ConfirmFunc func(spec FilterSpec, root string) bool

type Service struct {
	ctx        context.Context
	logger     logger.Logger
	scanner    Scanner
	settings   ServiceSettings
	savedStore SavedStore

	active atomic.Int64

	mu   sync.Mutex
	jobs map[string]*Job
}

// New creates the search service. Workers run under ctx rather than under the
// context of whoever submitted them.
func New(ctx context.Context, logger logger.Logger, scanner Scanner, settings ServiceSettings, savedStore SavedStore) *Service {
	return &Service{
		ctx:        ctx,
		logger:     logger,
		scanner:    scanner,
		settings:   settings,
		savedStore: savedStore,
		jobs:       make(map[string]*Job),
	}
}

// Submit validates spec, asks confirm, and starts a worker. A declined
// confirmation returns a nil job and a nil error. A nil confirm means the
// caller has already confirmed.
func (s *Service) Submit(spec FilterSpec, confirm ConfirmFunc) (*Job, error) {
	spec = spec.Clone()

	if err := Validate(spec, s.settings.FileGroups()); err != nil {
		s.logger.Warn("search rejected", "err", err.Error())
		return nil, err
	}

	root, err := resolveRoot(spec)
	if err != nil {
		return nil, newValidationError(InvalidDirectory, err.Error())
	}

	if confirm != nil && !confirm(spec, root) {
		s.logger.Info("cancelled searching", "root", root)
		return nil, nil
	}

	return s.dispatch(spec, root), nil
}

// Run validates spec and searches synchronously on the calling goroutine,
// without confirmation or a job. It counts as a running search.
func (s *Service) Run(ctx context.Context, spec FilterSpec) (*Result, error) {
	spec = spec.Clone()

	if err := Validate(spec, s.settings.FileGroups()); err != nil {
		return nil, err
	}

	root, err := resolveRoot(spec)
	if err != nil {
		return nil, newValidationError(InvalidDirectory, err.Error())
	}

	running := s.active.Add(1)
	defer s.active.Add(-1)
	s.logger.Info("running search", "root", root, "running_searches", running)

	return s.execute(ctx, spec, root)
}

func (s *Service) dispatch(spec FilterSpec, root string) *Job {
	ctx, cancel := context.WithCancel(s.ctx)
	job := newJob(spec, root, cancel)

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	running := s.active.Add(1)
	s.logger.Info("starting search", "id", job.ID, "root", root, "running_searches", running)

	go func() {
		defer cancel()

		result, err := s.execute(ctx, spec, root)
		s.active.Add(-1)
		if err != nil {
			s.logger.Error("search failed", "id", job.ID, "root", root, "err", err.Error())
		}
		job.finish(result, err)
		s.evictAfter(job, s.jobRetention())
	}()

	return job
}

func (s *Service) jobRetention() time.Duration {
	if retention := s.settings.JobRetention(); retention > 0 {
		return retention
	}
	return defaultJobRetention
}

// evictAfter drops a finished job from the registry once retention has passed.
// Holders of the job keep their result.
func (s *Service) evictAfter(job *Job, retention time.Duration) {
	time.AfterFunc(retention, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.jobs[job.ID] == job {
			delete(s.jobs, job.ID)
			s.logger.Debug("evicted finished search", "id", job.ID, "status", job.Status())
		}
	})
}

func (s *Service) execute(ctx context.Context, spec FilterSpec, root string) (*Result, error) {
	start := time.Now()

	snapshot, cacheHit, err := s.scanner.Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	scanDuration := time.Since(start)

	filterStart := time.Now()
	matched, err := Filter(ctx, snapshot, spec, s.settings)
	if err != nil {
		return nil, err
	}
	filterDuration := time.Since(filterStart)
	s.logger.Info("filtered snapshot", "root", root, "candidates", snapshot.Len(), "matched", len(matched))

	sortStart := time.Now()
	sorted := Sort(matched, spec.SortBy, spec.Reverse)
	sortDuration := time.Since(sortStart)

	return &Result{
		Root:     root,
		Paths:    sorted,
		CacheHit: cacheHit,
		Timings: Timings{
			Total:  time.Since(start),
			Scan:   scanDuration,
			Filter: filterDuration,
			Sort:   sortDuration,
		},
	}, nil
}

// Active is the number of searches currently running.
func (s *Service) Active() int64 {
	return s.active.Load()
}

func (s *Service) Job(id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// Forget drops a job from the registry, cancelling it if it still runs.
func (s *Service) Forget(id string) {
	s.mu.Lock()
	job, ok := s.jobs[id]
	delete(s.jobs, id)
	s.mu.Unlock()

	if ok {
		job.Cancel()
	}
}

// DeleteCache removes the cached snapshot of root; the next search of root
// walks the tree again.
func (s *Service) DeleteCache(root string) error {
	canonical, err := scan.Canonical(root)
	if err != nil {
		return err
	}
	s.logger.Info("deleting cache", "root", canonical)
	return s.scanner.DeleteCache(canonical)
}
