package solwatch

import (
	"math"
	"time"
)

// retryDelay computes the capped exponential backoff before the next
// registration retry:
//
//	delay = min(base * factor^retryCount, max)
//
// retryCount is the number of failures so far, so the first retry waits
// exactly base. No jitter is applied; retries re-enter the throttle queue,
// which already spaces outbound calls.
//
// Behavior:
//   - factor < 1.0 falls back to 1.0 (no growth)
//   - max <= 0 disables the cap
func retryDelay(retryCount int, base time.Duration, factor float64, maxDelay time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	if factor < 1.0 {
		factor = 1.0
	}

	delay := float64(base) * math.Pow(factor, float64(retryCount))
	if maxDelay > 0 && delay > float64(maxDelay) {
		return maxDelay
	}

	return time.Duration(delay)
}
