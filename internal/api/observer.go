package api

import (
	"context"
	"log/slog"
)

// RequestEvent records metadata about a single API call.
type RequestEvent struct {
	Method    string
	Path      string
	RequestID string
	Status    int // 0 when no response arrived
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about API calls for logging and metrics.
type Observer interface {
	OnRequestComplete(ctx context.Context, event RequestEvent)
}

// LogObserver writes API call events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnRequestComplete(ctx context.Context, event RequestEvent) {
	attrs := []any{
		"method", event.Method,
		"path", event.Path,
		"request_id", event.RequestID,
		"status", event.Status,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.logger.WarnContext(ctx, "api_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.DebugContext(ctx, "api_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnRequestComplete(context.Context, RequestEvent) {}
