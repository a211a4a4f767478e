package types

import "time"

// Event is a single push notification delivered to a subscription.
type Event struct {
	// SubscriptionID is the local id of the subscription this event belongs to.
	SubscriptionID uint64

	// Key is the cache key the value was written through (WatchSpec.CacheKey).
	Key string

	// Value is the provider's notification payload. The concrete type depends
	// on the watch kind, e.g. *ws.AccountResult for account watches.
	Value any

	// ReceivedAt is when the manager received the notification.
	ReceivedAt time.Time
}
