package observe

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewTraceExporter_LocalNames(t *testing.T) {
	for _, name := range []string{"stdout", "none", ""} {
		t.Run("name="+name, func(t *testing.T) {
			exp, err := newTraceExporter(context.Background(), name)
			if err != nil {
				t.Fatalf("newTraceExporter(%q) error = %v", name, err)
			}
			if exp == nil {
				t.Fatalf("newTraceExporter(%q) = nil", name)
			}
		})
	}
}

func TestNewTraceExporter_UnknownName(t *testing.T) {
	_, err := newTraceExporter(context.Background(), "graphite")
	if err == nil {
		t.Fatal("expected error for unknown exporter name")
	}
	if !strings.Contains(err.Error(), "unknown exporter") {
		t.Errorf("error = %v, want it to say 'unknown exporter'", err)
	}
}

// Network exporters refuse to start without a collector endpoint in the
// environment; the misconfiguration must surface at startup.
func TestNewTraceExporter_EndpointRequired(t *testing.T) {
	tests := []struct {
		exporter string
		vars     []string
	}{
		{"otlp", []string{"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"}},
		{"jaeger", []string{"OTEL_EXPORTER_JAEGER_ENDPOINT"}},
	}

	for _, tc := range tests {
		t.Run(tc.exporter, func(t *testing.T) {
			for _, v := range tc.vars {
				t.Setenv(v, "")
			}

			_, err := newTraceExporter(context.Background(), tc.exporter)
			if !errors.Is(err, ErrEndpointNotConfigured) {
				t.Fatalf("error = %v, want ErrEndpointNotConfigured", err)
			}
			for _, v := range tc.vars {
				if !strings.Contains(err.Error(), v) {
					t.Errorf("error should name %s, got: %v", v, err)
				}
			}
		})
	}
}

func TestNewTraceExporter_OtlpWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317")

	exp, err := newTraceExporter(context.Background(), "otlp")
	if err != nil {
		t.Fatalf("newTraceExporter(otlp) error = %v", err)
	}
	if exp == nil {
		t.Fatal("newTraceExporter(otlp) = nil")
	}
}

func TestNewMetricsReader_LocalNames(t *testing.T) {
	for _, name := range []string{"stdout", "prometheus", "none", ""} {
		t.Run("name="+name, func(t *testing.T) {
			reader, err := newMetricsReader(context.Background(), name)
			if err != nil {
				t.Fatalf("newMetricsReader(%q) error = %v", name, err)
			}
			if reader == nil {
				t.Fatalf("newMetricsReader(%q) = nil", name)
			}
		})
	}
}

func TestNewMetricsReader_EndpointRequired(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	_, err := newMetricsReader(context.Background(), "otlp")
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Fatalf("error = %v, want ErrEndpointNotConfigured", err)
	}
}

func TestNewMetricsReader_UnknownName(t *testing.T) {
	_, err := newMetricsReader(context.Background(), "statsd")
	if err == nil {
		t.Fatal("expected error for unknown metrics exporter name")
	}
	if !strings.Contains(err.Error(), "unknown metrics exporter") {
		t.Errorf("error = %v, want it to say 'unknown metrics exporter'", err)
	}
}
