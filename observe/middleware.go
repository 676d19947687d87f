package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// CallMeta identifies one tool call for telemetry purposes.
type CallMeta struct {
	Tool     string // tool name, e.g. "list_boards" (required)
	Instance string // resolved connection profile name (may be empty)
	ReadOnly bool   // whether the serving instance is read-only
}

// SpanName returns the deterministic span name for this call:
// board.tool.<tool>.
func (m CallMeta) SpanName() string {
	return "board.tool." + m.Tool
}

// callAttrs converts call metadata to span and metric attributes. Empty
// instance and writable calls carry no attribute at all rather than an
// empty one.
func callAttrs(meta CallMeta) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	attrs = append(attrs, attribute.String("tool.name", meta.Tool))
	if meta.Instance != "" {
		attrs = append(attrs, attribute.String("instance", meta.Instance))
	}
	if meta.ReadOnly {
		attrs = append(attrs, attribute.Bool("read_only", true))
	}
	return attrs
}

// CallFunc is the tool call handler signature that Middleware wraps.
type CallFunc func(ctx context.Context, meta CallMeta, args any) (any, error)

// Middleware surrounds tool calls with tracing, metrics, and a completion
// log line.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe CallFunc.
//   - Context: the span context is propagated into the wrapped function.
//   - Errors: errors from the wrapped function are recorded and returned
//     unchanged.
//   - Ownership: argument and result values pass through unmodified.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware assembles a Middleware from its three components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// Wrap returns fn surrounded by span start/end, call metrics, and an
// outcome log entry.
func (m *Middleware) Wrap(fn CallFunc) CallFunc {
	return func(ctx context.Context, meta CallMeta, args any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		result, err := fn(ctx, meta, args)
		elapsed := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordCall(ctx, meta, elapsed, err)

		log := m.logger.WithCall(meta)
		fields := []Field{{Key: "duration_ms", Value: float64(elapsed.Milliseconds())}}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			log.Error(ctx, "tool call failed", fields...)
		} else {
			log.Info(ctx, "tool call completed", fields...)
		}

		return result, err
	}
}

// NoopMiddleware returns a Middleware whose components all discard their
// input. Wrapped functions run unobserved.
func NoopMiddleware() *Middleware {
	return NewMiddleware(newNoopTracer(), NoopMetrics(), NoopLogger())
}

// MiddlewareFromObserver wires a Middleware to the observer's tracer,
// meter, and logger.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
