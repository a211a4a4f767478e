package solwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryDelay_ExponentialGrowthWithCap(t *testing.T) {
	base := 1000 * time.Millisecond
	maxDelay := 30000 * time.Millisecond

	cases := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, 1000 * time.Millisecond},
		{1, 2000 * time.Millisecond},
		{2, 4000 * time.Millisecond},
		{3, 8000 * time.Millisecond},
		{4, 16000 * time.Millisecond},
		{5, 30000 * time.Millisecond}, // 32000 capped
		{6, 30000 * time.Millisecond}, // still capped
		{20, 30000 * time.Millisecond},
	}

	for _, tc := range cases {
		got := retryDelay(tc.retryCount, base, 2.0, maxDelay)
		require.Equal(t, tc.want, got, "retryCount=%d", tc.retryCount)
	}
}

func TestRetryDelay_Guards(t *testing.T) {
	t.Run("factor below one does not shrink", func(t *testing.T) {
		require.Equal(t, time.Second, retryDelay(3, time.Second, 0.5, time.Minute))
	})

	t.Run("zero base yields zero delay", func(t *testing.T) {
		require.Equal(t, time.Duration(0), retryDelay(2, 0, 2.0, time.Minute))
	})

	t.Run("non-positive max disables the cap", func(t *testing.T) {
		require.Equal(t, 8*time.Second, retryDelay(3, time.Second, 2.0, 0))
	})
}
