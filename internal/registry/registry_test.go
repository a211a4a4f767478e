package registry

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ssisaa/solwatch/types"
)

func testSpec() types.WatchSpec {
	return types.AccountWatch{
		Address: solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
	}
}

type fakeHandle struct {
	unsubscribed bool
}

func (f *fakeHandle) Recv(_ /* ctx */ context.Context) (any, error) { return nil, nil }
func (f *fakeHandle) Unsubscribe()                                  { f.unsubscribed = true }

func TestRegistry_IDsAreUniqueAndIncreasing(t *testing.T) {
	g := New()

	var prev uint64
	for range 100 {
		rec := g.Create(testSpec())
		require.Greater(t, rec.ID, prev)
		prev = rec.ID
	}
	require.Equal(t, 100, g.Len())
}

func TestRegistry_CreateStoresPendingRecord(t *testing.T) {
	g := New()
	rec := g.Create(testSpec())

	require.Equal(t, types.StatusPending, rec.Status())
	require.Zero(t, rec.RetryCount())
	require.Nil(t, rec.Handle())
	require.False(t, rec.CreatedAt().IsZero())

	got, ok := g.Get(rec.ID)
	require.True(t, ok)
	require.Same(t, rec, got)
}

func TestRecord_StatusTransitions(t *testing.T) {
	t.Run("pending to active", func(t *testing.T) {
		rec := New().Create(testSpec())
		h := &fakeHandle{}

		require.True(t, rec.MarkActive(h))
		require.Equal(t, types.StatusActive, rec.Status())
		require.Same(t, h, rec.Handle())

		// Active records reject a second activation.
		require.False(t, rec.MarkActive(&fakeHandle{}))
	})

	t.Run("pending to error", func(t *testing.T) {
		rec := New().Create(testSpec())

		require.True(t, rec.MarkError())
		require.Equal(t, types.StatusError, rec.Status())

		// Error records cannot become active.
		require.False(t, rec.MarkActive(&fakeHandle{}))
	})

	t.Run("unsubscribed is terminal", func(t *testing.T) {
		rec := New().Create(testSpec())
		h := &fakeHandle{}
		rec.MarkActive(h)

		handle, ok := rec.MarkUnsubscribed()
		require.True(t, ok)
		require.Same(t, h, handle)

		_, ok = rec.MarkUnsubscribed()
		require.False(t, ok, "second unsubscribe must report already-terminal")
		require.False(t, rec.MarkActive(&fakeHandle{}))
		require.False(t, rec.MarkError())
		_, ok = rec.IncrementRetry()
		require.False(t, ok)
	})

	t.Run("error records can be unsubscribed", func(t *testing.T) {
		rec := New().Create(testSpec())
		rec.MarkError()

		handle, ok := rec.MarkUnsubscribed()
		require.True(t, ok)
		require.Nil(t, handle)
		require.Equal(t, types.StatusUnsubscribed, rec.Status())
	})
}

func TestRecord_TouchIsNoOpWhenTerminal(t *testing.T) {
	rec := New().Create(testSpec())
	rec.MarkUnsubscribed()

	before := rec.LastTouched()
	time.Sleep(5 * time.Millisecond)
	rec.Touch()
	require.Equal(t, before, rec.LastTouched())
}

func TestRegistry_ActiveAccounting(t *testing.T) {
	g := New()

	a := g.Create(testSpec())
	b := g.Create(testSpec())
	g.Create(testSpec()) // stays pending

	a.MarkActive(&fakeHandle{})
	b.MarkActive(&fakeHandle{})

	require.Equal(t, 2, g.CountActive())
	require.ElementsMatch(t, []uint64{a.ID, b.ID}, g.ActiveIDs())
}

func TestRegistry_StaleIDs(t *testing.T) {
	g := New()

	stale := g.Create(testSpec())
	stale.MarkActive(&fakeHandle{})

	terminal := g.Create(testSpec())
	terminal.MarkUnsubscribed()

	time.Sleep(30 * time.Millisecond)

	fresh := g.Create(testSpec())
	fresh.MarkActive(&fakeHandle{})

	ids := g.StaleIDs(20 * time.Millisecond)
	require.Equal(t, []uint64{stale.ID}, ids, "only the idle non-terminal record is stale")
}

func TestRegistry_Remove(t *testing.T) {
	g := New()
	rec := g.Create(testSpec())

	got, ok := g.Remove(rec.ID)
	require.True(t, ok)
	require.Same(t, rec, got)

	_, ok = g.Remove(rec.ID)
	require.False(t, ok)
	require.Equal(t, 0, g.Len())
}
