package cache

import "context"

// Origin tells where a loaded value came from.
type Origin string

const (
	OriginCache   Origin = "cache"
	OriginNetwork Origin = "network"
	OriginShared  Origin = "shared"
)

// Loader puts a Store in front of a Group: fresh entries are served from
// the store, misses are collapsed into one call per key, and only
// successful results are stored.
type Loader[V any] struct {
	store *Store[V]
	group Group[V]
}

func NewLoader[V any](store *Store[V]) *Loader[V] {
	return &Loader[V]{store: store}
}

// Store exposes the underlying cache for invalidation.
func (l *Loader[V]) Store() *Store[V] {
	return l.store
}

// Load returns the cached value for key or calls fetch to produce it.
func (l *Loader[V]) Load(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, Origin, error) {
	if v, ok := l.store.Get(key); ok {
		return v, OriginCache, nil
	}

	v, shared, err := l.group.Do(ctx, key, func(ctx context.Context) (V, error) {
		// A call that finished just before this one may have filled the entry.
		if v, ok := l.store.Get(key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return v, err
		}
		l.store.Set(key, v)
		return v, nil
	})
	if err != nil {
		return v, OriginNetwork, err
	}
	if shared {
		return v, OriginShared, nil
	}
	return v, OriginNetwork, nil
}
