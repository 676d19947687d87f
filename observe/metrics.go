package observe

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records telemetry for tool calls, upstream API requests, and
// response-cache lookups.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one tool call with its duration and outcome.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordAPIRequest records one upstream API request.
	RecordAPIRequest(ctx context.Context, instance, operation string, status int, duration time.Duration)

	// RecordCacheLookup records a response-cache lookup outcome.
	RecordCacheLookup(ctx context.Context, prefix string, hit bool)
}

type otelMetrics struct {
	calls      metric.Int64Counter
	errs       metric.Int64Counter
	latency    metric.Float64Histogram
	apiCalls   metric.Int64Counter
	apiLatency metric.Float64Histogram
	lookups    metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*otelMetrics, error) {
	var err error
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, cerr := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err == nil {
			err = cerr
		}
		return c
	}
	histogram := func(name, desc string) metric.Float64Histogram {
		h, herr := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("ms"))
		if err == nil {
			err = herr
		}
		return h
	}

	m := &otelMetrics{
		calls:      counter("board.tool.total", "Total number of tool calls", "{call}"),
		errs:       counter("board.tool.errors", "Total number of failed tool calls", "{error}"),
		latency:    histogram("board.tool.duration_ms", "Tool call duration in milliseconds"),
		apiCalls:   counter("board.api.requests", "Upstream API requests by instance, operation, and status", "{request}"),
		apiLatency: histogram("board.api.duration_ms", "Upstream API request duration in milliseconds"),
		lookups:    counter("board.cache.lookups", "Response cache lookups by key prefix and result", "{lookup}"),
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *otelMetrics) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(callAttrs(meta)...)

	m.calls.Add(ctx, 1, opt)
	if err != nil {
		m.errs.Add(ctx, 1, opt)
	}
	m.latency.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *otelMetrics) RecordAPIRequest(ctx context.Context, instance, operation string, status int, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("instance", instance),
		attribute.String("operation", operation),
		attribute.String("status", strconv.Itoa(status)),
	)

	m.apiCalls.Add(ctx, 1, opt)
	m.apiLatency.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *otelMetrics) RecordCacheLookup(ctx context.Context, prefix string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("prefix", prefix),
		attribute.String("result", result),
	))
}

// NewMetrics creates a Metrics recorder on the observer's meter.
func NewMetrics(obs Observer) (Metrics, error) {
	return newMetrics(obs.Meter())
}

// NoopMetrics returns a Metrics recorder that does nothing.
func NoopMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
}

func (noopMetrics) RecordAPIRequest(ctx context.Context, instance, operation string, status int, duration time.Duration) {
}

func (noopMetrics) RecordCacheLookup(ctx context.Context, prefix string, hit bool) {}
