// Package observe instruments tool calls and upstream Businessmap API
// traffic with OpenTelemetry tracing, metrics, and JSON line logging.
//
// The package is pure instrumentation: it executes nothing and owns no
// transport. NewObserver builds the providers from configuration, the
// tool layer wraps its handlers with Middleware, and the API client
// records request metrics directly. Subsystems left disabled resolve to
// no-op implementations so call sites never branch on configuration.
//
// Log entries pass through credential redaction (see RedactedFields)
// before serialization; token values never reach an exporter.
package observe
