package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds operation-scoped logging context. Components pass the
// correlation ID explicitly through every call per spec; this type exists
// so logging adapters can additionally mirror it into context for
// automatic enrichment of DebugCtx/InfoCtx/WarnCtx/ErrorCtx calls.
type LogContext struct {
	CorrelationID string    // tracing ID of the operation in progress
	TraceID       string    // OpenTelemetry trace ID, if tracing is wired in
	SpanID        string    // OpenTelemetry span ID, if tracing is wired in
	Component     string    // component name emitting the log (chunkmanager, scanner, ...)
	StartTime     time.Time // for duration calculation
}

// WithContext returns a new context carrying the given LogContext.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given correlation ID.
func NewLogContext(correlationID string) *LogContext {
	return &LogContext{
		CorrelationID: correlationID,
		StartTime:     time.Now(),
	}
}

// Clone creates a copy of the LogContext.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		CorrelationID: lc.CorrelationID,
		TraceID:       lc.TraceID,
		SpanID:        lc.SpanID,
		Component:     lc.Component,
		StartTime:     lc.StartTime,
	}
}

// WithComponent returns a copy with the component name set.
func (lc *LogContext) WithComponent(component string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Component = component
	}
	return clone
}

// WithTrace returns a copy with trace info set.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
