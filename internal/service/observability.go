package service

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Err       error

	// Fields holds call-specific attributes such as plan_id or the source
	// a fallback chain answered from.
	Fields map[string]any
}

func (e UseCaseEvent) Success() bool { return e.Err == nil }

// UseCaseObserver receives an event for every service call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes one "service_use_case" record per call.
// Failed calls log at warn, so they surface only under --verbose or a
// lowered log level; successful calls log at debug.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, e UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", e.Name),
		slog.Int64("duration_ms", e.Duration.Milliseconds()),
		slog.Bool("success", e.Success()),
	}
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		attrs = append(attrs, slog.Any(k, e.Fields[k]))
	}

	level := slog.LevelDebug
	if e.Err != nil {
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("error", e.Err.Error()),
			slog.Bool("unavailable", api.IsUnavailable(e.Err)),
		)
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// track times a call. Defer the returned func with the address of the named
// error result; fields may still be filled in before the call returns.
func track(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any) func(errp *error) {
	started := time.Now()
	return func(errp *error) {
		e := UseCaseEvent{
			Name:      name,
			StartedAt: started,
			Duration:  time.Since(started),
			Fields:    fields,
		}
		if errp != nil {
			e.Err = *errp
		}
		obs.ObserveUseCase(ctx, e)
	}
}
