// Package throttle provides a single-flight, rate-limited FIFO task queue.
//
// The scheduler serializes outbound registration calls so that at most one is
// in flight at any time and consecutive calls are spaced by a minimum
// interval. This is the mechanism that keeps registration bursts under the
// provider's rate limits.
package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/ssisaa/solwatch/types"
)

type task struct {
	run        func(ctx context.Context)
	enqueuedAt time.Time
}

// Scheduler drains tasks one at a time in strict FIFO enqueue order.
//
// Mutual exclusion for "at most one drain loop in flight" is a boolean flag
// under the queue lock: Enqueue starts a drain goroutine only when none is
// running, and the goroutine clears the flag when the queue empties. Spacing
// is measured from the previous task's start, not its finish, so a slow task
// does not add backlog beyond the configured interval.
type Scheduler struct {
	minInterval time.Duration
	logger      types.Logger
	metrics     types.MetricsCollector

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	queue     []task
	draining  bool
	closed    bool
	lastStart time.Time
}

// New creates a scheduler enforcing minInterval between consecutive task
// starts.
//
// Parameters:
//   - minInterval: Minimum spacing between task starts
//   - logger: Logger for drain lifecycle events
//   - metrics: Collector for queue depth and wait observations
//
// Returns:
//   - *Scheduler: A new idle scheduler
func New(minInterval time.Duration, logger types.Logger, metrics types.MetricsCollector) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		minInterval: minInterval,
		logger:      logger,
		metrics:     metrics,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Enqueue appends run to the back of the queue and starts a drain loop if
// none is running.
//
// Tasks execute exactly once and are discarded afterwards; a retry is a new
// task enqueued at the back, never a re-executed one.
//
// Returns:
//   - bool: false if the scheduler is closed and the task was dropped
func (s *Scheduler) Enqueue(run func(ctx context.Context)) bool {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return false
	}

	s.queue = append(s.queue, task{run: run, enqueuedAt: time.Now()})
	s.metrics.SetThrottleQueueDepth(len(s.queue))

	if !s.draining {
		s.draining = true
		s.wg.Add(1)
		go s.drain()
	}

	s.mu.Unlock()

	return true
}

// Len returns the number of tasks currently queued.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.queue)
}

// Close stops the scheduler and waits for the drain loop to exit. Queued
// tasks that have not started are dropped; the in-flight task, if any, runs
// to completion with a cancelled context.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	s.metrics.SetThrottleQueueDepth(0)
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// drain pops and executes tasks until the queue empties, pacing task starts
// by minInterval, then clears the draining flag and exits. A later Enqueue
// starts a fresh loop.
func (s *Scheduler) drain() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		if s.closed || len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}

		next := s.queue[0]
		s.queue = s.queue[1:]
		s.metrics.SetThrottleQueueDepth(len(s.queue))

		var wait time.Duration
		if !s.lastStart.IsZero() {
			wait = s.minInterval - time.Since(s.lastStart)
		}
		s.mu.Unlock()

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-s.ctx.Done():
				timer.Stop()
				s.mu.Lock()
				s.draining = false
				s.mu.Unlock()
				return
			case <-timer.C:
			}
		}

		s.mu.Lock()
		s.lastStart = time.Now()
		s.mu.Unlock()

		s.metrics.ObserveThrottleWait(time.Since(next.enqueuedAt).Seconds())
		next.run(s.ctx)
	}
}
