// Package reaper provides the periodic sweep that force-unsubscribes
// abandoned subscriptions.
//
// A subscription whose owner disappeared (a closed view, a crashed caller)
// stops being touched by push events and retries. The reaper scans the
// registry at a fixed interval and unsubscribes every non-terminal record
// idle beyond the staleness threshold, bounding resource growth on both the
// local and remote side.
package reaper

import (
	"errors"
	"sync"
	"time"

	"github.com/ssisaa/solwatch/types"
)

// Common errors for reaper lifecycle operations.
var (
	ErrNotStarted     = errors.New("reaper not started")
	ErrAlreadyStarted = errors.New("reaper already started")
)

// Source lists subscriptions idle beyond a threshold.
type Source interface {
	// StaleIDs returns ids of non-terminal records whose last activity is
	// older than threshold.
	StaleIDs(threshold time.Duration) []uint64
}

// UnsubscribeFunc removes one subscription. It reports whether the id was
// still live; a false return is not an error, the record may have been
// removed between the scan and the call.
type UnsubscribeFunc func(id uint64) bool

// Reaper runs the sweep loop in a background goroutine.
type Reaper struct {
	source      Source
	unsubscribe UnsubscribeFunc
	interval    time.Duration
	threshold   time.Duration
	logger      types.Logger
	metrics     types.MetricsCollector

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticker  *time.Ticker
}

// New creates a reaper that fires every interval and unsubscribes records
// idle for longer than threshold.
//
// Parameters:
//   - source: Registry view used to find stale ids
//   - unsubscribe: Manager callback that performs the actual unsubscribe
//   - interval: Sweep period (typically 60s)
//   - threshold: Staleness cutoff (typically 10m)
//
// Returns:
//   - *Reaper: A new stopped reaper
func New(source Source, unsubscribe UnsubscribeFunc, interval, threshold time.Duration, logger types.Logger, metrics types.MetricsCollector) *Reaper {
	return &Reaper{
		source:      source,
		unsubscribe: unsubscribe,
		interval:    interval,
		threshold:   threshold,
		logger:      logger,
		metrics:     metrics,
	}
}

// Start begins sweeping in the background.
//
// The first sweep fires one interval after Start, not immediately; records
// younger than the threshold can never be reaped anyway.
//
// Returns:
//   - error: ErrAlreadyStarted if already running
func (r *Reaper) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}

	r.started = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.ticker = time.NewTicker(r.interval)

	go r.sweepLoop()

	return nil
}

// Stop halts the sweep loop and blocks until it exits.
//
// Returns:
//   - error: ErrNotStarted if not running
func (r *Reaper) Stop() error {
	r.mu.Lock()

	if !r.started {
		r.mu.Unlock()
		return ErrNotStarted
	}

	r.ticker.Stop()
	close(r.stopCh)
	r.started = false

	r.mu.Unlock()

	<-r.doneCh

	return nil
}

// IsStarted returns whether the reaper is currently running.
func (r *Reaper) IsStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.started
}

// Sweep runs one sweep pass synchronously and returns how many
// subscriptions were reaped. Exposed for the manager's shutdown path and
// for tests; the background loop calls it on every tick.
func (r *Reaper) Sweep() int {
	ids := r.source.StaleIDs(r.threshold)

	reaped := 0
	for _, id := range ids {
		if r.unsubscribe(id) {
			reaped++
		}
	}

	if reaped > 0 {
		r.metrics.RecordReaped(reaped)
		r.logger.Info("reaped stale subscriptions", "count", reaped, "threshold", r.threshold)
	}

	return reaped
}

func (r *Reaper) sweepLoop() {
	defer close(r.doneCh)

	for {
		select {
		case <-r.stopCh:
			return
		case <-r.ticker.C:
			r.Sweep()
		}
	}
}
