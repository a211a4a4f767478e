package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ssisaa/solwatch/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are registered lazily on first use so that constructing a
// collector never panics on duplicate registration in tests.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	registrations     *prometheus.CounterVec
	retries           *prometheus.CounterVec
	retryBackoff      prometheus.Histogram
	retriesExhausted  *prometheus.CounterVec
	activeGauge       prometheus.Gauge
	queueDepthGauge   prometheus.Gauge
	throttleWait      prometheus.Histogram
	cacheTraffic      *prometheus.CounterVec
	cacheEvictions    *prometheus.CounterVec
	reapedTotal       prometheus.Counter
	eventsDelivered   prometheus.Counter
	eventsDropped     prometheus.Counter
	unsubscribesTotal prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "solwatch" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "solwatch"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.registrations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "subscriptions",
			Name:      "registrations_total",
			Help:      "Registration attempts against the remote node by kind and result.",
		}, []string{"kind", "result"})

		p.retries = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "subscriptions",
			Name:      "registration_retries_total",
			Help:      "Failed registrations re-enqueued for another attempt, by kind.",
		}, []string{"kind"})

		p.retryBackoff = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "subscriptions",
			Name:      "retry_backoff_seconds",
			Help:      "Backoff delays scheduled before retry attempts in seconds.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 30},
		})

		p.retriesExhausted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "subscriptions",
			Name:      "retries_exhausted_total",
			Help:      "Subscriptions that gave up after the final failed attempt, by kind.",
		}, []string{"kind"})

		p.activeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "subscriptions",
			Name:      "active_current",
			Help:      "Current number of Active subscriptions.",
		})

		p.queueDepthGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "throttle",
			Name:      "queue_depth",
			Help:      "Current number of tasks waiting in the throttle queue.",
		})

		p.throttleWait = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "throttle",
			Name:      "wait_seconds",
			Help:      "Time tasks spent queued before the throttle dispatched them.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~20s
		})

		p.cacheTraffic = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache reads by result (hit|miss).",
		}, []string{"result"})

		p.cacheEvictions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Cache evictions by reason (lru|ttl).",
		}, []string{"reason"})

		p.reapedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "subscriptions",
			Name:      "reaped_total",
			Help:      "Subscriptions force-unsubscribed by stale sweeps.",
		})

		p.eventsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "events",
			Name:      "delivered_total",
			Help:      "Push events handed to subscriber channels.",
		})

		p.eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Push events dropped because the subscriber channel was full.",
		})

		p.unsubscribesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "subscriptions",
			Name:      "unsubscribes_total",
			Help:      "Explicit and reaper-driven unsubscribes.",
		})

		p.reg.MustRegister(p.registrations)
		p.reg.MustRegister(p.retries)
		p.reg.MustRegister(p.retryBackoff)
		p.reg.MustRegister(p.retriesExhausted)
		p.reg.MustRegister(p.activeGauge)
		p.reg.MustRegister(p.queueDepthGauge)
		p.reg.MustRegister(p.throttleWait)
		p.reg.MustRegister(p.cacheTraffic)
		p.reg.MustRegister(p.cacheEvictions)
		p.reg.MustRegister(p.reapedTotal)
		p.reg.MustRegister(p.eventsDelivered)
		p.reg.MustRegister(p.eventsDropped)
		p.reg.MustRegister(p.unsubscribesTotal)
	})
}

// RecordRegistration records the outcome of one registration attempt.
func (p *PrometheusCollector) RecordRegistration(kind string, success bool) {
	p.ensureRegistered()
	result := "failure"
	if success {
		result = "success"
	}
	p.registrations.WithLabelValues(kind, result).Inc()
}

// RecordRegistrationRetry increments the retry counter for the kind.
func (p *PrometheusCollector) RecordRegistrationRetry(kind string) {
	p.ensureRegistered()
	p.retries.WithLabelValues(kind).Inc()
}

// ObserveRetryBackoff observes a scheduled backoff delay in seconds.
func (p *PrometheusCollector) ObserveRetryBackoff(seconds float64) {
	p.ensureRegistered()
	p.retryBackoff.Observe(seconds)
}

// RecordRetriesExhausted increments the exhaustion counter for the kind.
func (p *PrometheusCollector) RecordRetriesExhausted(kind string) {
	p.ensureRegistered()
	p.retriesExhausted.WithLabelValues(kind).Inc()
}

// SetActiveSubscriptions sets the active-subscription gauge.
func (p *PrometheusCollector) SetActiveSubscriptions(count int) {
	p.ensureRegistered()
	p.activeGauge.Set(float64(count))
}

// SetThrottleQueueDepth sets the throttle queue depth gauge.
func (p *PrometheusCollector) SetThrottleQueueDepth(depth int) {
	p.ensureRegistered()
	p.queueDepthGauge.Set(float64(depth))
}

// ObserveThrottleWait observes time spent queued in seconds.
func (p *PrometheusCollector) ObserveThrottleWait(seconds float64) {
	p.ensureRegistered()
	p.throttleWait.Observe(seconds)
}

// RecordCacheHit increments the cache hit counter.
func (p *PrometheusCollector) RecordCacheHit() {
	p.ensureRegistered()
	p.cacheTraffic.WithLabelValues("hit").Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (p *PrometheusCollector) RecordCacheMiss() {
	p.ensureRegistered()
	p.cacheTraffic.WithLabelValues("miss").Inc()
}

// RecordCacheEviction increments the eviction counter for the reason.
func (p *PrometheusCollector) RecordCacheEviction(reason string) {
	p.ensureRegistered()
	p.cacheEvictions.WithLabelValues(reason).Inc()
}

// RecordReaped adds reaped subscriptions to the reap counter.
func (p *PrometheusCollector) RecordReaped(count int) {
	p.ensureRegistered()
	p.reapedTotal.Add(float64(count))
}

// RecordEventDelivered increments the delivered-event counter.
func (p *PrometheusCollector) RecordEventDelivered() {
	p.ensureRegistered()
	p.eventsDelivered.Inc()
}

// RecordEventDropped increments the dropped-event counter.
func (p *PrometheusCollector) RecordEventDropped() {
	p.ensureRegistered()
	p.eventsDropped.Inc()
}

// RecordUnsubscribe increments the unsubscribe counter.
func (p *PrometheusCollector) RecordUnsubscribe() {
	p.ensureRegistered()
	p.unsubscribesTotal.Inc()
}
