package observe

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"
)

func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "iteration", Value: i})
	}
}

func BenchmarkLogger_WithCallThenLog(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	meta := CallMeta{Tool: "bench_tool", Instance: "prod"}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.WithCall(meta).Info(ctx, "tool call", Field{Key: "iteration", Value: i})
	}
}

// Filtered-out entries should cost almost nothing.
func BenchmarkLogger_BelowThreshold(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "filtered debug")
		logger.Info(ctx, "filtered info")
	}
}

func BenchmarkMetrics_RecordCall(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		b.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(ctx)

	metrics, err := NewMetrics(obs)
	if err != nil {
		b.Fatalf("NewMetrics() error = %v", err)
	}
	meta := CallMeta{Tool: "bench_tool", Instance: "prod"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics.RecordCall(ctx, meta, 100*time.Millisecond, nil)
	}
}

func BenchmarkMiddleware_Wrap(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		b.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(ctx)

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("MiddlewareFromObserver() error = %v", err)
	}

	wrapped := mw.Wrap(func(ctx context.Context, meta CallMeta, args any) (any, error) {
		return "result", nil
	})
	meta := CallMeta{Tool: "bench_tool", Instance: "prod"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = wrapped(ctx, meta, nil)
	}
}

func BenchmarkMiddleware_WrapWithLogging(b *testing.B) {
	metrics := NoopMetrics()
	logger := NewLoggerWithWriter("info", io.Discard)
	mw := NewMiddleware(newNoopTracer(), metrics, logger)

	wrapped := mw.Wrap(func(ctx context.Context, meta CallMeta, args any) (any, error) {
		return "result", nil
	})
	ctx := context.Background()
	meta := CallMeta{Tool: "bench_tool", Instance: "prod"}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = wrapped(ctx, meta, nil)
	}
}

func BenchmarkMiddleware_Concurrent(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		b.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(ctx)

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("MiddlewareFromObserver() error = %v", err)
	}
	wrapped := mw.Wrap(func(ctx context.Context, meta CallMeta, args any) (any, error) {
		return "result", nil
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			meta := CallMeta{
				Tool:     fmt.Sprintf("tool_%d", i%100),
				Instance: fmt.Sprintf("inst_%d", i%10),
			}
			_, _ = wrapped(ctx, meta, nil)
			i++
		}
	})
}

func BenchmarkConfig_Validate(b *testing.B) {
	cfg := Config{
		ServiceName: "bench-service",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}
