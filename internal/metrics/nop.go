// Package metrics provides the built-in types.MetricsCollector implementations.
package metrics

import "github.com/ssisaa/solwatch/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordRegistration discards the registration outcome.
func (n *NopMetrics) RecordRegistration(_ /* kind */ string, _ /* success */ bool) {
	// No-op
}

// RecordRegistrationRetry discards the retry event.
func (n *NopMetrics) RecordRegistrationRetry(_ /* kind */ string) {
	// No-op
}

// ObserveRetryBackoff discards the backoff observation.
func (n *NopMetrics) ObserveRetryBackoff(_ /* seconds */ float64) {
	// No-op
}

// RecordRetriesExhausted discards the exhaustion event.
func (n *NopMetrics) RecordRetriesExhausted(_ /* kind */ string) {
	// No-op
}

// SetActiveSubscriptions discards the active-subscription gauge.
func (n *NopMetrics) SetActiveSubscriptions(_ /* count */ int) {
	// No-op
}

// SetThrottleQueueDepth discards the queue-depth gauge.
func (n *NopMetrics) SetThrottleQueueDepth(_ /* depth */ int) {
	// No-op
}

// ObserveThrottleWait discards the throttle wait observation.
func (n *NopMetrics) ObserveThrottleWait(_ /* seconds */ float64) {
	// No-op
}

// RecordCacheHit discards the cache hit.
func (n *NopMetrics) RecordCacheHit() {
	// No-op
}

// RecordCacheMiss discards the cache miss.
func (n *NopMetrics) RecordCacheMiss() {
	// No-op
}

// RecordCacheEviction discards the eviction event.
func (n *NopMetrics) RecordCacheEviction(_ /* reason */ string) {
	// No-op
}

// RecordReaped discards the reap count.
func (n *NopMetrics) RecordReaped(_ /* count */ int) {
	// No-op
}

// RecordEventDelivered discards the delivery event.
func (n *NopMetrics) RecordEventDelivered() {
	// No-op
}

// RecordEventDropped discards the drop event.
func (n *NopMetrics) RecordEventDropped() {
	// No-op
}

// RecordUnsubscribe discards the unsubscribe event.
func (n *NopMetrics) RecordUnsubscribe() {
	// No-op
}
