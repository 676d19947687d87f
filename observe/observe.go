package observe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Config selects which telemetry subsystems are active and how they export.
// The zero value is valid except for ServiceName, which is required.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig
}

// TracingConfig configures span export. Exporter is one of
// otlp|jaeger|stdout|none; SamplePct is the head-sampling ratio in [0, 1].
type TracingConfig struct {
	Enabled   bool
	Exporter  string
	SamplePct float64
}

// MetricsConfig configures metric export. Exporter is one of
// otlp|prometheus|stdout|none.
type MetricsConfig struct {
	Enabled  bool
	Exporter string
}

// LoggingConfig configures the structured logger. Level is one of
// debug|info|warn|error.
type LoggingConfig struct {
	Enabled bool
	Level   string
}

// Validate reports the first configuration problem found. Subsystem
// settings are only checked when that subsystem is enabled, so a disabled
// section may hold leftover values without failing validation.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}
	if c.Tracing.Enabled {
		if err := c.Tracing.validate(); err != nil {
			return err
		}
	}
	if c.Metrics.Enabled {
		if err := c.Metrics.validate(); err != nil {
			return err
		}
	}
	if c.Logging.Enabled {
		if err := c.Logging.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c TracingConfig) validate() error {
	if !oneOf(c.Exporter, "otlp", "jaeger", "stdout", "none", "") {
		return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Exporter)
	}
	if c.SamplePct < 0 || c.SamplePct > 1.0 {
		return fmt.Errorf("%w, got: %f", ErrInvalidSamplePct, c.SamplePct)
	}
	return nil
}

func (c MetricsConfig) validate() error {
	if !oneOf(c.Exporter, "otlp", "prometheus", "stdout", "none", "") {
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Exporter)
	}
	return nil
}

func (c LoggingConfig) validate() error {
	if !oneOf(c.Level, "debug", "info", "warn", "error", "") {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Level)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Observer bundles the tracer, meter, and logger for one process.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Shutdown must honor cancellation/deadlines.
// - Errors: Shutdown is idempotent and returns the first run's errors.
type Observer interface {
	// Tracer returns the configured tracer.
	Tracer() trace.Tracer

	// Meter returns the configured meter.
	Meter() metric.Meter

	// Logger returns the configured logger.
	Logger() Logger

	// Shutdown flushes and stops every active exporter.
	Shutdown(ctx context.Context) error
}

type telemetry struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger Logger

	closers  []func(context.Context) error
	stopOnce sync.Once
	stopErr  error
}

// NewObserver builds an Observer from cfg. Disabled subsystems get no-op
// implementations, so callers never need nil checks. Enabled subsystems
// that export over the network read their collector endpoint from the
// standard OTEL_EXPORTER_* environment variables.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tel := &telemetry{
		tracer: tracenoop.NewTracerProvider().Tracer("noop"),
		meter:  metricnoop.NewMeterProvider().Meter("noop"),
		logger: NoopLogger(),
	}

	if cfg.Tracing.Enabled {
		tracer, stop, err := initTracing(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("failed to setup tracing: %w", err)
		}
		tel.tracer = tracer
		tel.closers = append(tel.closers, stop)
	}

	if cfg.Metrics.Enabled {
		meter, stop, err := initMetrics(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("failed to setup metrics: %w", err)
		}
		tel.meter = meter
		tel.closers = append(tel.closers, stop)
	}

	if cfg.Logging.Enabled {
		tel.logger = NewLogger(cfg.Logging.Level)
	}

	return tel, nil
}

func initTracing(ctx context.Context, cfg Config, res *resource.Resource) (trace.Tracer, func(context.Context) error, error) {
	exporter, err := newTraceExporter(ctx, cfg.Tracing.Exporter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.Tracing.SamplePct)),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return tp.Tracer(cfg.ServiceName), tp.Shutdown, nil
}

func initMetrics(ctx context.Context, cfg Config, res *resource.Resource) (metric.Meter, func(context.Context) error, error) {
	reader, err := newMetricsReader(ctx, cfg.Metrics.Exporter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create metrics reader: %w", err)
	}

	opts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}
	if reader != nil {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	return mp.Meter(cfg.ServiceName), mp.Shutdown, nil
}

// samplerFor maps a ratio to a sampler, clamping the endpoints to the
// cheaper always/never implementations.
func samplerFor(pct float64) sdktrace.Sampler {
	switch {
	case pct >= 1.0:
		return sdktrace.AlwaysSample()
	case pct <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(pct)
	}
}

func (t *telemetry) Tracer() trace.Tracer { return t.tracer }
func (t *telemetry) Meter() metric.Meter  { return t.meter }
func (t *telemetry) Logger() Logger       { return t.logger }

func (t *telemetry) Shutdown(ctx context.Context) error {
	t.stopOnce.Do(func() {
		var errs []error
		for _, stop := range t.closers {
			if err := stop(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		t.stopErr = errors.Join(errs...)
	})
	return t.stopErr
}
