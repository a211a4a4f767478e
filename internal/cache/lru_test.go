package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](4, time.Minute, nil)

	_, ok := c.Get("a")
	require.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	c.Set("a", 2)
	v, ok = c.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, v)
	require.Equal(t, 1, c.Len())
}

func TestCache_CapacityEvictsLeastRecentlyUsed(t *testing.T) {
	var evictions []string
	c := New[string, int](2, time.Minute, func(reason string) {
		evictions = append(evictions, reason)
	})

	c.Set("a", 1)
	c.Set("b", 2)

	// Reading a makes b the least recently used.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	require.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	require.True(t, ok, "a was refreshed by Get and must survive")
	_, ok = c.Get("c")
	require.True(t, ok)
	require.Equal(t, []string{EvictLRU}, evictions)
}

func TestCache_TTLExpiryIsIndependentOfRecency(t *testing.T) {
	var evictions []string
	c := New[string, int](2, 40*time.Millisecond, func(reason string) {
		evictions = append(evictions, reason)
	})

	c.Set("a", 1)

	// Keep a most recently used the whole time.
	_, ok := c.Get("a")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)

	_, ok = c.Get("a")
	require.False(t, ok, "expired entry must read as a miss despite being most recently used")
	require.Equal(t, []string{EvictTTL}, evictions)
	require.Equal(t, 0, c.Len())
}

func TestCache_SetRestartsTTL(t *testing.T) {
	c := New[string, int](2, 50*time.Millisecond, nil)

	c.Set("a", 1)
	time.Sleep(30 * time.Millisecond)
	c.Set("a", 2)
	time.Sleep(30 * time.Millisecond)

	// 60ms after first Set but only 30ms after refresh.
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestCache_Cleanup(t *testing.T) {
	c := New[string, int](8, 30*time.Millisecond, nil)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(50 * time.Millisecond)
	c.Set("c", 3)

	removed := c.Cleanup()
	require.Equal(t, 2, removed)
	require.Equal(t, 1, c.Len())

	_, ok := c.Get("c")
	require.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := New[string, int](4, time.Minute, nil)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	require.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	require.False(t, ok)

	// Cache remains usable after Clear.
	c.Set("a", 3)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 3, v)
}
