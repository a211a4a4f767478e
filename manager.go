package solwatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/ssisaa/solwatch/internal/cache"
	"github.com/ssisaa/solwatch/internal/logging"
	"github.com/ssisaa/solwatch/internal/metrics"
	"github.com/ssisaa/solwatch/internal/reaper"
	"github.com/ssisaa/solwatch/internal/registry"
	"github.com/ssisaa/solwatch/internal/rotator"
	"github.com/ssisaa/solwatch/internal/throttle"
	"github.com/ssisaa/solwatch/types"
)

// Manager multiplexes real-time subscriptions against a set of remote
// pub/sub connections.
//
// Manager is the main entry point of the library. It handles:
//   - Synchronous id allocation with asynchronous, throttled registration
//   - Exponential-backoff retries with a retry ceiling per subscription
//   - Round-robin spreading of registration traffic over redundant connections
//   - Write-through caching of pushed values for poll-style reads
//   - Periodic reaping of subscriptions abandoned by their owners
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Status transitions are monotonic; Unsubscribed is terminal
//
// Lifecycle:
//   - Create with NewManager()
//   - Call Start() before subscribing
//   - Call Stop() for graceful shutdown; every background task the manager
//     owns (throttle drain, receive pumps, reaper, cache janitor) exits
//
// Registration failures never reach the Subscribe caller: registration is
// fire-and-forget, and a subscription that exhausts its retries is only
// observable through Status/IsActive and its handle's terminal state.
type Manager struct {
	cfg     Config
	logger  types.Logger
	metrics types.MetricsCollector

	clients   *rotator.Rotator[types.PubSubClient]
	registry  *registry.Registry
	scheduler *throttle.Scheduler
	reaper    *reaper.Reaper
	cache     *cache.Cache[string, types.Event]
	subs      *xsync.Map[uint64, *Subscription]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewManager creates a manager over the given pub/sub connections.
//
// The connection set is fixed for the manager's lifetime; registration and
// read traffic is spread over it round robin. Defaults are applied to
// omitted Config fields before validation.
//
// Parameters:
//   - clients: Non-empty set of established pub/sub connections
//   - cfg: Manager configuration (zero fields take defaults)
//   - opts: Optional dependencies (logger, metrics)
//
// Returns:
//   - *Manager: A new stopped manager
//   - error: ErrClientRequired or ErrInvalidConfig
func NewManager(clients []types.PubSubClient, cfg Config, opts ...Option) (*Manager, error) {
	if len(clients) == 0 {
		return nil, ErrClientRequired
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	options := managerOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = logging.NewSlogDefault()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}

	cfg.ValidateWithWarnings(options.logger)

	m := &Manager{
		cfg:      cfg,
		logger:   options.logger,
		metrics:  options.metrics,
		clients:  rotator.New(clients),
		registry: registry.New(),
		subs:     xsync.NewMap[uint64, *Subscription](),
	}
	m.cache = cache.New[string, types.Event](cfg.CacheCapacity, cfg.CacheTTL, m.metrics.RecordCacheEviction)
	m.scheduler = throttle.New(cfg.ThrottleInterval, m.logger, m.metrics)
	m.reaper = reaper.New(m.registry, m.reapOne, cfg.ReapInterval, cfg.StaleThreshold, m.logger, m.metrics)

	return m, nil
}

// Start launches the manager's background tasks: the stale reaper and the
// cache janitor. The throttle drain loop starts on demand with the first
// Subscribe.
//
// Parameters:
//   - ctx: Parent context; cancelling it tears the background tasks down
//     just like Stop
//
// Returns:
//   - error: ErrAlreadyStarted if running, ErrManagerClosed after Stop
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if m.started {
		return ErrAlreadyStarted
	}

	m.started = true
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.reaper.Start(); err != nil {
		m.started = false
		m.cancel()
		return fmt.Errorf("failed to start reaper: %w", err)
	}

	m.wg.Add(1)
	go m.janitorLoop()

	m.logger.Info("manager started",
		"connections", m.clients.Size(),
		"throttleInterval", m.cfg.ThrottleInterval,
		"staleThreshold", m.cfg.StaleThreshold,
	)

	return nil
}

// Stop shuts the manager down: stops the reaper and janitor, drops queued
// registration tasks, terminates receive pumps, unsubscribes every remaining
// record on the provider side, and closes all subscription handles.
//
// Returns:
//   - error: ErrNotStarted if the manager is not running
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.started || m.closed {
		m.mu.Unlock()
		return ErrNotStarted
	}
	m.closed = true
	m.mu.Unlock()

	_ = m.reaper.Stop()
	m.scheduler.Close()
	m.cancel()
	m.wg.Wait()

	for _, id := range m.registry.IDs() {
		m.unsubscribeWith(id, nil)
	}
	m.cache.Clear()

	m.logger.Info("manager stopped")

	return nil
}

// Subscribe allocates a subscription id for spec and queues its
// registration. It always returns synchronously without network I/O; the
// registration itself runs on the throttle queue.
//
// Parameters:
//   - spec: Tagged watch target (AccountWatch, ProgramWatch, ...)
//
// Returns:
//   - *Subscription: Handle carrying the id and the event channel
//   - error: ErrNilWatchSpec, ErrNotStarted, or ErrManagerClosed only;
//     registration failures are never reported here
func (m *Manager) Subscribe(spec types.WatchSpec) (*Subscription, error) {
	if spec == nil {
		return nil, ErrNilWatchSpec
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if !m.started {
		m.mu.Unlock()
		return nil, ErrNotStarted
	}
	m.mu.Unlock()

	rec := m.registry.Create(spec)
	sub := newSubscription(rec.ID, spec, m.cfg.EventBufferSize)
	m.subs.Store(rec.ID, sub)

	id := rec.ID
	m.scheduler.Enqueue(func(ctx context.Context) {
		m.attemptRegistration(ctx, id)
	})

	m.logger.Debug("subscription queued", "id", id, "kind", spec.Kind().String(), "key", spec.CacheKey())

	return sub, nil
}

// Unsubscribe removes the subscription with the given id, invoking the
// provider-side removal if it was active. Idempotent.
//
// Returns:
//   - bool: false for an unknown or already-terminal id
func (m *Manager) Unsubscribe(id uint64) bool {
	return m.unsubscribeWith(id, nil)
}

// IsActive reports whether the subscription exists and is Active.
func (m *Manager) IsActive(id uint64) bool {
	rec, ok := m.registry.Get(id)

	return ok && rec.Status() == types.StatusActive
}

// Status returns the lifecycle status of the subscription.
//
// Returns:
//   - types.Status: Current status
//   - bool: false for an unknown id (including unsubscribed-and-removed ids)
func (m *Manager) Status(id uint64) (types.Status, bool) {
	rec, ok := m.registry.Get(id)
	if !ok {
		return 0, false
	}

	return rec.Status(), true
}

// ActiveCount returns the number of Active subscriptions.
func (m *Manager) ActiveCount() int {
	return m.registry.CountActive()
}

// Cached returns the last pushed value written through under key, if it is
// still live. Callers use this to read the latest known value without
// waiting for a fresh push.
//
// Returns:
//   - types.Event: The cached event
//   - bool: false on miss (absent or expired)
func (m *Manager) Cached(key string) (types.Event, bool) {
	ev, ok := m.cache.Get(key)
	if ok {
		m.metrics.RecordCacheHit()
	} else {
		m.metrics.RecordCacheMiss()
	}

	return ev, ok
}

// ClearCache empties the push-event cache unconditionally.
func (m *Manager) ClearCache() {
	m.cache.Clear()
}

// register performs the kind-appropriate subscribe call, exhaustively over
// the watch spec variants.
func (m *Manager) register(ctx context.Context, client types.PubSubClient, spec types.WatchSpec) (types.ProviderSubscription, error) {
	switch w := spec.(type) {
	case types.AccountWatch:
		return client.SubscribeAccount(ctx, w.Address, m.commitment(w.Commitment))
	case types.ProgramWatch:
		return client.SubscribeProgram(ctx, w.ProgramID, m.commitment(w.Commitment), w.Filters)
	case types.SignatureWatch:
		return client.SubscribeSignature(ctx, w.Signature, m.commitment(w.Commitment))
	case types.SlotWatch:
		return client.SubscribeSlots(ctx)
	case types.RootWatch:
		return client.SubscribeRoots(ctx)
	default:
		return nil, fmt.Errorf("unsupported watch spec %T", spec)
	}
}

func (m *Manager) commitment(c rpc.CommitmentType) rpc.CommitmentType {
	if c == "" {
		return m.cfg.Commitment
	}

	return c
}

// attemptRegistration runs one registration attempt for id on the throttle
// queue. Success activates the record and starts its receive pump; failure
// schedules a backoff-delayed re-enqueue or, when retries are exhausted,
// marks the record Error.
func (m *Manager) attemptRegistration(ctx context.Context, id uint64) {
	rec, ok := m.registry.Get(id)
	if !ok || rec.Status() != types.StatusPending {
		// Unsubscribed (or already resolved) while queued.
		return
	}

	kind := rec.Spec.Kind().String()
	client := m.clients.Next()

	handle, err := m.register(ctx, client, rec.Spec)
	m.metrics.RecordRegistration(kind, err == nil)

	if err != nil {
		m.handleRegistrationFailure(rec, kind, err)
		return
	}

	if !rec.MarkActive(handle) {
		// Unsubscribed while the call was in flight; release the orphan.
		handle.Unsubscribe()
		return
	}

	m.metrics.SetActiveSubscriptions(m.registry.CountActive())
	m.logger.Info("subscription active", "id", id, "kind", kind)

	if sub, ok := m.subs.Load(id); ok {
		m.wg.Add(1)
		go m.pump(rec, handle, sub)
	}
}

// handleRegistrationFailure applies the retry policy after a failed attempt.
//
// Retries are undifferentiated: a permanently malformed target is retried
// exactly like a transient rate-limit rejection until the ceiling is hit.
func (m *Manager) handleRegistrationFailure(rec *registry.Record, kind string, cause error) {
	retryCount := rec.RetryCount()
	if retryCount >= m.cfg.MaxRetries {
		if rec.MarkError() {
			m.metrics.RecordRetriesExhausted(kind)
			m.logger.Error("registration failed permanently",
				"id", rec.ID, "kind", kind, "attempts", retryCount+1, "err", cause,
			)
			if sub, ok := m.subs.Load(rec.ID); ok {
				sub.closeWith(ErrRetriesExhausted)
			}
		}
		return
	}

	delay := retryDelay(retryCount, m.cfg.RetryBaseDelay, m.cfg.RetryBackoffFactor, m.cfg.RetryMaxDelay)
	if _, ok := rec.IncrementRetry(); !ok {
		return
	}

	m.metrics.RecordRegistrationRetry(kind)
	m.metrics.ObserveRetryBackoff(delay.Seconds())
	m.logger.Warn("registration failed, retrying",
		"id", rec.ID, "kind", kind, "retry", retryCount+1, "delay", delay, "err", cause,
	)

	id := rec.ID
	time.AfterFunc(delay, func() {
		r, ok := m.registry.Get(id)
		if !ok || r.Status() != types.StatusPending {
			return
		}
		// Back of the queue: the retry stays subject to global throttling
		// and never jumps ahead of tasks enqueued while it waited.
		m.scheduler.Enqueue(func(ctx context.Context) {
			m.attemptRegistration(ctx, id)
		})
	})
}

// pump drains push notifications from an active provider handle: touch the
// record, write the value through the cache, then deliver to the subscriber
// channel without blocking.
func (m *Manager) pump(rec *registry.Record, handle types.ProviderSubscription, sub *Subscription) {
	defer m.wg.Done()

	id := rec.ID
	key := rec.Spec.CacheKey()

	for {
		value, err := handle.Recv(m.ctx)
		if err != nil {
			if m.ctx.Err() != nil {
				// Manager shutdown; Stop closes the handles.
				return
			}
			if rec.Status() != types.StatusActive {
				// Unsubscribed; the handle was already released.
				return
			}

			m.logger.Warn("subscription stream ended", "id", id, "err", err)
			m.unsubscribeWith(id, err)

			return
		}

		rec.Touch()

		ev := types.Event{
			SubscriptionID: id,
			Key:            key,
			Value:          value,
			ReceivedAt:     time.Now(),
		}
		m.cache.Set(key, ev)

		if sub.deliver(ev) {
			m.metrics.RecordEventDelivered()
		} else {
			m.metrics.RecordEventDropped()
			m.logger.Debug("event dropped, subscriber not draining", "id", id)
		}
	}
}

// unsubscribeWith terminates id with the given cause, releasing the
// provider handle and closing the caller's channels.
func (m *Manager) unsubscribeWith(id uint64, cause error) bool {
	rec, ok := m.registry.Get(id)
	if !ok {
		return false
	}

	handle, ok := rec.MarkUnsubscribed()
	if !ok {
		return false
	}

	m.registry.Remove(id)
	if handle != nil {
		handle.Unsubscribe()
	}
	if sub, ok := m.subs.LoadAndDelete(id); ok {
		sub.closeWith(cause)
	}

	m.metrics.RecordUnsubscribe()
	m.metrics.SetActiveSubscriptions(m.registry.CountActive())
	m.logger.Debug("subscription removed", "id", id)

	return true
}

// reapOne is the unsubscribe callback handed to the stale reaper.
func (m *Manager) reapOne(id uint64) bool {
	return m.unsubscribeWith(id, nil)
}

// janitorLoop sweeps expired cache entries on a timer so an idle cache does
// not retain stale values until the next read touches them.
func (m *Manager) janitorLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.CacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if removed := m.cache.Cleanup(); removed > 0 {
				m.logger.Debug("cache cleanup", "removed", removed)
			}
		}
	}
}
