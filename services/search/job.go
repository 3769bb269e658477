package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Job is one dispatched search. The worker owns the result until Done is
// closed; after that it belongs to whoever reads it.
type Job struct {
	ID        string
	Root      string
	Spec      FilterSpec
	StartedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	status Status
	result *Result
	err    error
}

func newJob(spec FilterSpec, root string, cancel context.CancelFunc) *Job {
	return &Job{
		ID:        uuid.New().String(),
		Root:      root,
		Spec:      spec,
		StartedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
		status:    StatusRunning,
	}
}

func (j *Job) finish(result *Result, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch {
	case err == nil:
		j.status = StatusDone
	case errors.Is(err, context.Canceled):
		j.status = StatusCancelled
	default:
		j.status = StatusFailed
	}
	j.result = result
	j.err = err
	close(j.done)
}

// Done is closed once the worker has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx is done. Giving up on waiting does
// not cancel the job.
func (j *Job) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-j.done:
		return j.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel interrupts the worker. It is a no-op on a finished job.
func (j *Job) Cancel() {
	j.cancel()
}

func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Result returns nil, nil while the job is running.
func (j *Job) Result() (*Result, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}
