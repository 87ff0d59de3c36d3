package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func TestStore_HitWithinTTL(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[string](5*time.Minute, clock.Now)

	s.Set("plans", "v1")
	clock.Advance(5*time.Minute - time.Millisecond)

	v, ok := s.Get("plans")
	require.True(t, ok)
	assert.Equal(t, "v1", v)
}

func TestStore_MissAfterTTL(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[string](5*time.Minute, clock.Now)

	s.Set("plans", "v1")
	clock.Advance(5 * time.Minute)

	_, ok := s.Get("plans")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "expired entry should be dropped on read")
}

func TestStore_MissForUnknownKey(t *testing.T) {
	s := NewStore[int](time.Minute, nil)
	v, ok := s.Get("nothing")
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestStore_SetOverwritesAndRestampsEntry(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[string](time.Minute, clock.Now)

	s.Set("k", "old")
	clock.Advance(50 * time.Second)
	s.Set("k", "new")
	clock.Advance(50 * time.Second)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestStore_InvalidatePrefixRespectsSegments(t *testing.T) {
	s := NewStore[int](time.Minute, nil)
	for i, key := range []string{
		"plans",
		"plans?status=active",
		"plans/p1",
		"plans/p1/weeks",
		"plans/p1/weeks/w1/goals",
		"plans/p10",
		"stats",
	} {
		s.Set(key, i)
	}

	n := s.InvalidatePrefix("plans/p1")
	assert.Equal(t, 3, n)

	_, ok := s.Get("plans/p10")
	assert.True(t, ok, "sibling identity must survive")
	_, ok = s.Get("plans")
	assert.True(t, ok)

	n = s.InvalidatePrefix("plans")
	assert.Equal(t, 3, n, "plans, plans?status=active, plans/p10")
	_, ok = s.Get("stats")
	assert.True(t, ok)
}

func TestStore_SweepDropsOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[int](time.Minute, clock.Now)

	s.Set("old", 1)
	clock.Advance(2 * time.Minute)
	s.Set("fresh", 2)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("fresh")
	assert.True(t, ok)
}

func TestStore_ClearAndDelete(t *testing.T) {
	s := NewStore[int](time.Minute, nil)
	s.Set("a", 1)
	s.Set("b", 2)

	s.Delete("a")
	assert.Equal(t, 1, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStore_RunJanitorStopsOnCancel(t *testing.T) {
	s := NewStore[int](time.Nanosecond, nil)
	s.Set("a", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestMatchesIdentity(t *testing.T) {
	assert.True(t, MatchesIdentity("plans", "plans"))
	assert.True(t, MatchesIdentity("plans/x", "plans"))
	assert.True(t, MatchesIdentity("plans?year=2026", "plans"))
	assert.False(t, MatchesIdentity("plansx", "plans"))
	assert.False(t, MatchesIdentity("stats", "plans"))
	assert.True(t, MatchesIdentity("anything", ""))
}
