package types

// Status represents the lifecycle state of a subscription.
//
// Statuses follow a defined progression:
//
//	StatusPending → StatusActive → StatusUnsubscribed
//
// A registration failure keeps the subscription Pending while retries remain:
//
//	StatusPending → StatusPending (retry queued) → StatusError (retries exhausted)
//
// StatusError records are still reachable by Unsubscribe and by the stale
// reaper. StatusUnsubscribed is terminal: no field of a terminal record may
// change, and the record is removed from the registry.
type Status int

const (
	// StatusPending indicates the registration call has not yet succeeded.
	StatusPending Status = iota

	// StatusActive indicates the provider accepted the registration and push
	// events are flowing.
	StatusActive

	// StatusError indicates every retry attempt failed. The subscription never
	// becomes Active without an external re-subscribe.
	StatusError

	// StatusUnsubscribed is the terminal state after an explicit unsubscribe
	// or a stale reap.
	StatusUnsubscribed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusActive:
		return "Active"
	case StatusError:
		return "Error"
	case StatusUnsubscribed:
		return "Unsubscribed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusUnsubscribed
}
