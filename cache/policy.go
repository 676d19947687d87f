package cache

import "time"

// Defaults applied by DefaultPolicy. Five minutes keeps board and card
// listings reasonably fresh; the one-hour ceiling stops a caller-supplied
// TTL from pinning stale data for a whole session.
const (
	DefaultEntryTTL   = 5 * time.Minute
	DefaultMaxTTL     = 1 * time.Hour
	DefaultMaxEntries = 1000
)

// Policy controls whether and how long responses are cached.
type Policy struct {
	// DefaultTTL applies when a lookup supplies no TTL of its own.
	// Zero disables caching entirely.
	DefaultTTL time.Duration

	// MaxTTL caps every TTL, including overrides. Zero means uncapped.
	MaxTTL time.Duration

	// MaxEntries bounds how many values the cache holds before evicting
	// the least recently used. Zero means unbounded.
	MaxEntries int
}

// DefaultPolicy returns the standard caching policy.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: DefaultEntryTTL,
		MaxTTL:     DefaultMaxTTL,
		MaxEntries: DefaultMaxEntries,
	}
}

// NoCachePolicy disables caching: every lookup misses and nothing is
// stored.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache reports whether this policy stores anything at all.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL resolves the TTL for one entry. A zero or negative
// override falls back to DefaultTTL, and the result never exceeds MaxTTL
// when one is set.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := p.DefaultTTL
	if override > 0 {
		ttl = override
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		return p.MaxTTL
	}
	return ttl
}
