package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Group collapses concurrent calls that share a key into a single
// invocation. Callers that arrive while a call is in flight wait for it and
// receive the same value or the same error. The key is released as soon as
// the call returns, so a failed call is retried by the next caller.
//
// The function runs under a context owned by the group. It is cancelled
// once every waiter has given up, which aborts an abandoned HTTP request
// instead of letting it run to completion in the background.
type Group[V any] struct {
	sf singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Do runs fn once per key among concurrent callers. shared reports whether
// the result was delivered to more than one caller.
func (g *Group[V]) Do(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (v V, shared bool, err error) {
	// Joining and registering with singleflight happen under one lock so
	// that a flight and its singleflight call never drift apart.
	g.mu.Lock()
	f := g.join(ctx, key)
	ch := g.sf.DoChan(key, func() (any, error) {
		defer g.finish(key, f)
		return fn(f.ctx)
	})
	g.mu.Unlock()

	select {
	case res := <-ch:
		g.leave(key, f, false)
		if res.Err != nil {
			return v, res.Shared, res.Err
		}
		v, _ = res.Val.(V)
		return v, res.Shared, nil
	case <-ctx.Done():
		g.leave(key, f, true)
		return v, false, ctx.Err()
	}
}

// InFlight reports whether a call for key is currently running.
func (g *Group[V]) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.flights[key]
	return ok
}

// join must be called with g.mu held.
func (g *Group[V]) join(ctx context.Context, key string) *flight {
	if g.flights == nil {
		g.flights = make(map[string]*flight)
	}
	f, ok := g.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		g.flights[key] = f
	}
	f.waiters++
	return f
}

// finish runs when fn returns.
func (g *Group[V]) finish(key string, f *flight) {
	g.mu.Lock()
	if g.flights[key] == f {
		delete(g.flights, key)
	}
	g.mu.Unlock()
	f.cancel()
}

func (g *Group[V]) leave(key string, f *flight, abandoned bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	// The last waiter retires the flight. A flight registered while an
	// earlier call was winding down joined that call, so its own fn never
	// ran and finish never saw it.
	if g.flights[key] == f {
		delete(g.flights, key)
		if abandoned {
			// The next caller must start a fresh call instead of joining
			// the cancelled one.
			g.sf.Forget(key)
		}
	}
	f.cancel()
}

func (g *Group[V]) waiting(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if f, ok := g.flights[key]; ok {
		return f.waiters
	}
	return 0
}
