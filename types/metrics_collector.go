package types

// MetricsCollector receives instrumentation events from the manager and its
// internal components.
//
// Implementations must be safe for concurrent use. The internal/metrics
// package provides a no-op collector and a Prometheus-backed collector.
type MetricsCollector interface {
	// RecordRegistration records the outcome of one registration attempt
	// against the remote node.
	RecordRegistration(kind string, success bool)

	// RecordRegistrationRetry records that a failed registration was
	// re-enqueued for another attempt.
	RecordRegistrationRetry(kind string)

	// ObserveRetryBackoff observes the backoff delay (seconds) scheduled
	// before a retry attempt.
	ObserveRetryBackoff(seconds float64)

	// RecordRetriesExhausted records a subscription giving up after the
	// final failed attempt.
	RecordRetriesExhausted(kind string)

	// SetActiveSubscriptions sets the current number of Active subscriptions.
	SetActiveSubscriptions(count int)

	// SetThrottleQueueDepth sets the current length of the throttle queue.
	SetThrottleQueueDepth(depth int)

	// ObserveThrottleWait observes the time (seconds) a task spent queued
	// before the throttle dispatched it.
	ObserveThrottleWait(seconds float64)

	// RecordCacheHit records a cache read that returned a live entry.
	RecordCacheHit()

	// RecordCacheMiss records a cache read that found nothing, including
	// reads that found only an expired entry.
	RecordCacheMiss()

	// RecordCacheEviction records an entry leaving the cache. Reason is
	// "lru" for capacity pressure or "ttl" for expiry.
	RecordCacheEviction(reason string)

	// RecordReaped records subscriptions force-unsubscribed by a stale sweep.
	RecordReaped(count int)

	// RecordEventDelivered records a push event handed to a subscriber channel.
	RecordEventDelivered()

	// RecordEventDropped records a push event dropped because the subscriber
	// channel was full.
	RecordEventDropped()

	// RecordUnsubscribe records an explicit or reaper-driven unsubscribe.
	RecordUnsubscribe()
}
