package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector_RegistersLazily(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "test")

	// Nothing registered until first use.
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Empty(t, families)

	c.RecordRegistration("account", true)
	c.RecordRegistration("account", false)
	c.RecordCacheHit()
	c.RecordCacheMiss()
	c.RecordReaped(3)

	require.Equal(t, float64(1), testutil.ToFloat64(c.registrations.WithLabelValues("account", "success")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.registrations.WithLabelValues("account", "failure")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.cacheTraffic.WithLabelValues("hit")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.cacheTraffic.WithLabelValues("miss")))
	require.Equal(t, float64(3), testutil.ToFloat64(c.reapedTotal))
}

func TestPrometheusCollector_DefaultNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "")

	c.RecordUnsubscribe()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "solwatch_subscriptions_unsubscribes_total" {
			found = true
		}
	}
	require.True(t, found)
}
