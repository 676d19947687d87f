package cache

import (
	"context"
	"errors"
	"strings"
)

// FetchFunc produces the value for a cache key on miss.
//
// Contract:
// - Context: detached from the triggering caller's cancellation; the fetch
//   runs to completion even if every waiter gives up (see Manager.GetOrFetch).
// - Errors: a returned error propagates unchanged to every waiter and
//   nothing is cached.
type FetchFunc func(ctx context.Context) (any, error)

// MaxKeyLength bounds cache keys. Keys embed serialized call arguments,
// so a runaway argument object would otherwise bloat the key space.
const MaxKeyLength = 512

var (
	ErrClosed     = errors.New("cache: manager is closed")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// ValidateKey rejects empty, oversized, and multi-line keys. Newlines are
// refused because keys appear verbatim in log fields.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return ErrInvalidKey
	case len(key) > MaxKeyLength:
		return ErrKeyTooLong
	case strings.ContainsAny(key, "\n\r"):
		return ErrInvalidKey
	}
	return nil
}
