package solwatch

import (
	"sync"

	"github.com/ssisaa/solwatch/types"
)

// Subscription is the caller's handle on one registered watch.
//
// Push events arrive on Events. The channel is bounded; when the caller
// stops draining it, further events are dropped rather than blocking the
// delivery path. Done closes when the subscription reaches a terminal
// state, after which Err reports the cause: nil for a clean unsubscribe
// (explicit, reaped, or manager shutdown), ErrRetriesExhausted when
// registration gave up, or the receive failure that ended an active stream.
type Subscription struct {
	id   uint64
	spec types.WatchSpec

	events chan types.Event
	done   chan struct{}

	mu     sync.Mutex
	closed bool
	err    error
}

func newSubscription(id uint64, spec types.WatchSpec, buffer int) *Subscription {
	return &Subscription{
		id:     id,
		spec:   spec,
		events: make(chan types.Event, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the local subscription id.
func (s *Subscription) ID() uint64 { return s.id }

// Spec returns the watch target this subscription was created with.
func (s *Subscription) Spec() types.WatchSpec { return s.spec }

// Events returns the push event channel. It is closed when the
// subscription terminates.
func (s *Subscription) Events() <-chan types.Event { return s.events }

// Done returns a channel closed when the subscription terminates.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err returns the terminal cause, nil before Done closes and after a clean
// unsubscribe.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// deliver hands an event to the subscriber without blocking. The lock
// orders deliveries against closeWith so a send can never race the close.
//
// Returns:
//   - bool: false if the event was dropped (buffer full or terminated)
func (s *Subscription) deliver(ev types.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// closeWith records the terminal cause and closes both channels. Safe to
// call more than once; only the first cause wins.
func (s *Subscription) closeWith(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.err = err
	s.mu.Unlock()

	close(s.done)
	close(s.events)
}
