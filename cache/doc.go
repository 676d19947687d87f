// Package cache provides an in-process response cache for API lookups.
//
// A Manager deduplicates concurrent fetches for the same key, expires
// entries lazily on read, supports prefix-based bulk invalidation, and
// bounds memory with LRU eviction. Per-key generation counters detect
// results that arrive after their key was invalidated mid-flight, so a
// slow fetch can never resurrect data that was explicitly thrown away.
package cache
