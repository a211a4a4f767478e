// Package rotator provides round-robin selection over a fixed set of
// redundant connections.
package rotator

import "sync/atomic"

// Rotator cycles over a fixed, ordered set of items.
//
// Selection is pure round robin with no health awareness or backpressure;
// a dead connection keeps receiving its share of traffic. Callers that need
// failover handle it at the retry layer.
type Rotator[T any] struct {
	items   []T
	counter atomic.Uint64
}

// New creates a rotator over items. The slice is not copied; it must not be
// mutated after construction.
//
// Parameters:
//   - items: Ordered, non-empty set to rotate over
//
// Returns:
//   - *Rotator[T]: A new rotator positioned at the first item
func New[T any](items []T) *Rotator[T] {
	return &Rotator[T]{items: items}
}

// Next returns the next item in round-robin order.
func (r *Rotator[T]) Next() T {
	n := r.counter.Add(1) - 1

	return r.items[n%uint64(len(r.items))]
}

// Size returns the number of items in the rotation.
func (r *Rotator[T]) Size() int {
	return len(r.items)
}

// Requests returns how many selections have been served.
func (r *Rotator[T]) Requests() uint64 {
	return r.counter.Load()
}
