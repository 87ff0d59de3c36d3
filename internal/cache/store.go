package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

type entry[V any] struct {
	value V
	ts    time.Time
}

// Store is an in-memory key/value cache where every entry expires a fixed
// TTL after it was written. There is no size bound; expired entries are
// dropped lazily on Get or in bulk by Sweep.
type Store[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]entry[V]
}

// NewStore creates a Store with the given TTL. A nil clock uses time.Now.
func NewStore[V any](ttl time.Duration, clock Clock) *Store[V] {
	if clock == nil {
		clock = time.Now
	}
	return &Store[V]{
		ttl:     ttl,
		now:     clock,
		entries: make(map[string]entry[V]),
	}
}

// TTL returns the configured time-to-live.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}

// Get returns the value stored under key if it was written less than TTL ago.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if s.now().Sub(e.ts) >= s.ttl {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key stamped with the current time, replacing any
// previous entry.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, ts: s.now()}
}

func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidatePrefix removes the entry for identity and every entry nested
// under it. A key is nested when it continues identity with '/' or '?', so
// "plans/p1" covers "plans/p1/weeks" and "plans/p1?full=1" but not "plans/p10".
// Returns the number of removed entries.
func (s *Store[V]) InvalidatePrefix(identity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key := range s.entries {
		if MatchesIdentity(key, identity) {
			delete(s.entries, key)
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry[V])
}

func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for key, e := range s.entries {
		if now.Sub(e.ts) >= s.ttl {
			delete(s.entries, key)
			n++
		}
	}
	return n
}

// RunJanitor sweeps the store every interval until ctx is done.
func (s *Store[V]) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// MatchesIdentity reports whether key names identity or a resource nested
// under it.
func MatchesIdentity(key, identity string) bool {
	if identity == "" {
		return true
	}
	if !strings.HasPrefix(key, identity) {
		return false
	}
	if len(key) == len(identity) {
		return true
	}
	switch key[len(identity)] {
	case '/', '?':
		return true
	}
	return false
}
