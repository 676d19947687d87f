// Package businessmap is a client for Businessmap (Kanbanize) API v2
// compatible backends.
//
// A Client authenticates with an instance API key, serves reads through an
// in-process response cache keyed by operation prefix, and invalidates the
// affected prefixes on every mutation. Read-only instances reject mutations
// before any request is sent. A Factory hands out one Client per configured
// instance, resolved through the instance configuration manager.
package businessmap
