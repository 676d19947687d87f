package observe

import "errors"

var (
	// ErrMissingServiceName is returned by Config.Validate when ServiceName
	// is empty. Every exported span and metric carries the service name, so
	// there is no usable default.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidTracingExporter is returned for a tracing exporter name
	// outside otlp|jaeger|stdout|none.
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")

	// ErrInvalidMetricsExporter is returned for a metrics exporter name
	// outside otlp|prometheus|stdout|none.
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")

	// ErrInvalidSamplePct is returned when the trace sampling ratio falls
	// outside [0.0, 1.0].
	ErrInvalidSamplePct = errors.New("observe: sample percentage must be between 0.0 and 1.0")

	// ErrInvalidLogLevel is returned for a log level outside
	// debug|info|warn|error.
	ErrInvalidLogLevel = errors.New("observe: invalid log level")

	// ErrEndpointNotConfigured is returned when a network exporter is
	// selected but no collector endpoint is present in the environment.
	ErrEndpointNotConfigured = errors.New("observe: endpoint not configured")
)
