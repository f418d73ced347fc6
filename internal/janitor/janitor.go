// Package janitor runs background maintenance for one tenant's store.
//
// Insert paths publish a notification and move on; the janitor owns a
// single goroutine that trims timeline indices beyond the retention
// horizon. Callers never await a cleanup pass, and a failed pass never
// fails an insertion: errors are logged and the next notification tries
// again.
package janitor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Store is the slice of the storage layer the janitor needs.
type Store interface {
	TrimTimelines(ctx context.Context, horizon int) error
}

// Janitor coalesces cleanup notifications and runs passes in the
// background.
type Janitor struct {
	store   Store
	horizon int
	logger  *slog.Logger

	// signal has a buffer of one: bursts of notifications during a
	// running pass coalesce into a single follow-up pass.
	signal chan struct{}
	stop   chan struct{}

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a janitor trimming to the given horizon. A nil logger
// falls back to slog.Default().
func New(store Store, horizon int, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		store:   store,
		horizon: horizon,
		logger:  logger,
		signal:  make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
}

// Start launches the background goroutine.
func (j *Janitor) Start() {
	j.wg.Add(1)
	go j.run()
}

// Notify schedules a cleanup pass. Never blocks: a pending signal
// coalesces with this one, and a stopped janitor drops it.
func (j *Janitor) Notify() {
	select {
	case j.signal <- struct{}{}:
	default:
	}
}

// Close stops the background goroutine and waits for any in-flight
// pass to finish. Safe to call more than once.
func (j *Janitor) Close() {
	j.stopOnce.Do(func() {
		close(j.stop)
	})
	j.wg.Wait()
}

func (j *Janitor) run() {
	defer j.wg.Done()

	for {
		select {
		case <-j.stop:
			return
		case <-j.signal:
			j.sweep()
		}
	}
}

// sweep runs one cleanup pass. Failures are logged and swallowed; the
// triggering insertion already succeeded and must stay successful.
func (j *Janitor) sweep() {
	jobID := uuid.NewString()
	j.logger.Debug("cleanup pass starting", "job_id", jobID, "horizon", j.horizon)

	if err := j.store.TrimTimelines(context.Background(), j.horizon); err != nil {
		j.logger.Error("cleanup pass failed", "job_id", jobID, "error", err)
		return
	}

	j.logger.Debug("cleanup pass finished", "job_id", jobID)
}
