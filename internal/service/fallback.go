package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/twelveweeks/internal/cache"
)

// Source names the step of a fallback chain that produced a value.
type Source string

const (
	SourceCache    Source = "cache"
	SourceAPI      Source = "api"
	SourceShared   Source = "shared"
	SourceDemo     Source = "demo"
	SourceComputed Source = "computed"
)

func sourceOf(o cache.Origin) Source {
	switch o {
	case cache.OriginCache:
		return SourceCache
	case cache.OriginShared:
		return SourceShared
	default:
		return SourceAPI
	}
}

// Result is a value with the step that produced it. Cause is the error that
// made the chain fall back, nil when the first step answered.
type Result[T any] struct {
	Value  T
	Source Source
	Cause  error
}

// Fallback reports whether the value did not come from the first step.
func (r Result[T]) Fallback() bool {
	return r.Cause != nil
}

// fallbackStep is one way of producing a value.
type fallbackStep[T any] struct {
	// when decides whether the step may handle the first step's error. Nil
	// accepts any error.
	when func(err error) bool
	run  func(ctx context.Context) (T, Source, error)
}

// runChain tries steps in order until one succeeds. Caller cancellation
// stops the chain. When every eligible step fails, the first error is
// returned since it names the primary source's failure.
func runChain[T any](ctx context.Context, steps ...fallbackStep[T]) (Result[T], error) {
	var cause error
	for i, st := range steps {
		if i > 0 && st.when != nil && !st.when(cause) {
			continue
		}
		v, src, err := st.run(ctx)
		if err == nil {
			return Result[T]{Value: v, Source: src, Cause: cause}, nil
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return Result[T]{}, err
		}
		if cause == nil {
			cause = err
		}
	}
	return Result[T]{}, cause
}
