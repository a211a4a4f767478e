// Package registry holds the authoritative record of every subscription's
// identity, target, and lifecycle status.
package registry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/ssisaa/solwatch/types"
)

// Record is the registry's view of one subscription.
//
// Status transitions are monotonic and guarded by the record's own lock:
//
//	Pending → Active        registration succeeded
//	Pending → Error         retries exhausted
//	Pending|Active|Error → Unsubscribed
//
// Unsubscribed is terminal; every mutator is a no-op on a terminal record, so
// a success or failure callback racing an unsubscribe silently does nothing.
type Record struct {
	// ID is the local subscription id, unique and monotonically increasing
	// for the lifetime of the registry.
	ID uint64

	// Spec is the tagged watch target.
	Spec types.WatchSpec

	mu          sync.Mutex
	status      types.Status
	handle      types.ProviderSubscription
	createdAt   time.Time
	lastTouched time.Time
	retryCount  int
}

// Status returns the record's current lifecycle status.
func (r *Record) Status() types.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

// Handle returns the provider-side subscription handle, nil before Active.
func (r *Record) Handle() types.ProviderSubscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.handle
}

// RetryCount returns how many registration attempts have failed so far.
func (r *Record) RetryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.retryCount
}

// CreatedAt returns when the record was allocated.
func (r *Record) CreatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.createdAt
}

// LastTouched returns when the record last saw a push event or retry.
func (r *Record) LastTouched() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastTouched
}

// Touch refreshes lastTouched. No-op on a terminal record.
func (r *Record) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status.Terminal() {
		return
	}
	r.lastTouched = time.Now()
}

// MarkActive transitions Pending → Active and stores the provider handle.
//
// Returns:
//   - bool: false if the record was not Pending (the caller should release
//     the handle itself, since the record will not track it)
func (r *Record) MarkActive(handle types.ProviderSubscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != types.StatusPending {
		return false
	}

	r.status = types.StatusActive
	r.handle = handle
	r.lastTouched = time.Now()

	return true
}

// IncrementRetry bumps the retry counter and refreshes lastTouched.
//
// Returns:
//   - int: The counter value after the increment
//   - bool: false if the record is no longer Pending
func (r *Record) IncrementRetry() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != types.StatusPending {
		return r.retryCount, false
	}

	r.retryCount++
	r.lastTouched = time.Now()

	return r.retryCount, true
}

// MarkError transitions Pending → Error after retries are exhausted.
func (r *Record) MarkError() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != types.StatusPending {
		return false
	}

	r.status = types.StatusError

	return true
}

// MarkUnsubscribed transitions any non-terminal status to Unsubscribed.
//
// Returns:
//   - types.ProviderSubscription: The provider handle to release, if one was held
//   - bool: false if the record was already terminal
func (r *Record) MarkUnsubscribed() (types.ProviderSubscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status.Terminal() {
		return nil, false
	}

	r.status = types.StatusUnsubscribed
	handle := r.handle
	r.handle = nil

	return handle, true
}

// Registry maps subscription ids to records.
//
// The map is a concurrent xsync.Map; per-record state is guarded by the
// record's own lock, so registry reads never block on record mutations.
type Registry struct {
	nextID  atomic.Uint64
	records *xsync.Map[uint64, *Record]
}

// New creates an empty registry. Ids start at 1.
func New() *Registry {
	return &Registry{records: xsync.NewMap[uint64, *Record]()}
}

// Create allocates the next id and stores a Pending record for spec.
//
// Never performs network I/O; registration happens later on the throttle
// queue.
func (g *Registry) Create(spec types.WatchSpec) *Record {
	now := time.Now()
	rec := &Record{
		ID:          g.nextID.Add(1),
		Spec:        spec,
		status:      types.StatusPending,
		createdAt:   now,
		lastTouched: now,
	}
	g.records.Store(rec.ID, rec)

	return rec
}

// Get returns the record for id.
func (g *Registry) Get(id uint64) (*Record, bool) {
	return g.records.Load(id)
}

// Remove deletes the record for id from the map.
//
// Returns:
//   - *Record: The removed record
//   - bool: false if id was unknown
func (g *Registry) Remove(id uint64) (*Record, bool) {
	return g.records.LoadAndDelete(id)
}

// Len returns the number of records currently held.
func (g *Registry) Len() int {
	return g.records.Size()
}

// CountActive returns the number of Active records.
func (g *Registry) CountActive() int {
	count := 0
	g.records.Range(func(_ uint64, rec *Record) bool {
		if rec.Status() == types.StatusActive {
			count++
		}
		return true
	})

	return count
}

// ActiveIDs returns the ids of all Active records.
func (g *Registry) ActiveIDs() []uint64 {
	var ids []uint64
	g.records.Range(func(id uint64, rec *Record) bool {
		if rec.Status() == types.StatusActive {
			ids = append(ids, id)
		}
		return true
	})

	return ids
}

// StaleIDs returns the ids of all non-terminal records whose lastTouched is
// older than threshold. Error records are non-terminal and are included.
func (g *Registry) StaleIDs(threshold time.Duration) []uint64 {
	cutoff := time.Now().Add(-threshold)

	var ids []uint64
	g.records.Range(func(id uint64, rec *Record) bool {
		rec.mu.Lock()
		stale := !rec.status.Terminal() && rec.lastTouched.Before(cutoff)
		rec.mu.Unlock()

		if stale {
			ids = append(ids, id)
		}
		return true
	})

	return ids
}

// IDs returns every id currently in the registry, active or not.
func (g *Registry) IDs() []uint64 {
	var ids []uint64
	g.records.Range(func(id uint64, _ *Record) bool {
		ids = append(ids, id)
		return true
	})

	return ids
}
