package solwatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscription_DeliverAndClose(t *testing.T) {
	t.Run("drops when the buffer is full", func(t *testing.T) {
		sub := newSubscription(1, SlotWatch{}, 2)

		require.True(t, sub.deliver(Event{SubscriptionID: 1, Value: "a"}))
		require.True(t, sub.deliver(Event{SubscriptionID: 1, Value: "b"}))
		require.False(t, sub.deliver(Event{SubscriptionID: 1, Value: "c"}),
			"third event has nowhere to go")

		ev := <-sub.Events()
		require.Equal(t, "a", ev.Value)
		require.True(t, sub.deliver(Event{SubscriptionID: 1, Value: "d"}),
			"draining frees a slot")
	})

	t.Run("deliver after close is a drop", func(t *testing.T) {
		sub := newSubscription(2, SlotWatch{}, 2)
		sub.closeWith(nil)

		require.False(t, sub.deliver(Event{SubscriptionID: 2, Value: "late"}))
	})

	t.Run("buffered events remain readable after close", func(t *testing.T) {
		sub := newSubscription(3, SlotWatch{}, 2)
		require.True(t, sub.deliver(Event{SubscriptionID: 3, Value: "x"}))
		sub.closeWith(nil)

		ev, ok := <-sub.Events()
		require.True(t, ok)
		require.Equal(t, "x", ev.Value)

		_, ok = <-sub.Events()
		require.False(t, ok, "channel closes once drained")
	})

	t.Run("first terminal cause wins", func(t *testing.T) {
		sub := newSubscription(4, SlotWatch{}, 1)
		require.NoError(t, sub.Err())

		first := errors.New("stream reset")
		sub.closeWith(first)
		sub.closeWith(errors.New("second cause"))

		select {
		case <-sub.Done():
		default:
			t.Fatal("done not closed")
		}
		require.ErrorIs(t, sub.Err(), first)
	})

	t.Run("accessors", func(t *testing.T) {
		spec := SlotWatch{}
		sub := newSubscription(7, spec, 1)
		require.Equal(t, uint64(7), sub.ID())
		require.Equal(t, spec, sub.Spec())
	})
}
