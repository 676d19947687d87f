// Package health reports the serving readiness of a boardops process.
//
// A Checker probes one component: the instance configuration, a single
// Businessmap instance's credential and circuit state, or anything else
// registered with an Aggregator. The Aggregator fans the checks out in
// parallel with a shared deadline and folds the results into an overall
// Status: Healthy, Degraded, or Unhealthy.
//
// The HTTP handlers expose the usual probe surface when boardops serves
// over HTTP:
//
//	mux.HandleFunc("/healthz", health.LivenessHandler())
//	mux.HandleFunc("/readyz", health.ReadinessHandler(agg))
//	mux.HandleFunc("/health", health.DetailedHandler(agg))
//
// Liveness only proves the process is up; readiness and the detailed
// endpoint run every registered check. Degraded still serves traffic
// (HTTP 200), Unhealthy does not (HTTP 503).
package health
