package cache

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Stats is a point-in-time snapshot of cache effectiveness counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	HitRate   float64
}

// Manager is an in-process response cache.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Dedup: concurrent GetOrFetch calls for one key share a single fetch.
// - Expiration: lazy; entries are checked against their deadline on read,
//   never by a background timer.
// - Errors: fetch errors pass through unchanged and are never cached.
type Manager struct {
	policy Policy

	mu     sync.Mutex
	st     *store
	closed bool

	hits      uint64
	misses    uint64
	evictions uint64

	flights singleflight.Group

	// cleanup holds deferred index-release work for evicted and expired
	// slots, drained by the janitor goroutine.
	cleanup []task
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

// NewManager creates a cache manager with the given policy and starts its
// cleanup goroutine. Call Close to release it.
func NewManager(policy Policy) *Manager {
	m := &Manager{
		policy: policy,
		st:     newStore(),
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go m.janitor()
	return m
}

// GetOrFetch returns the cached value for key, or runs fetch to produce it.
//
// Concurrent calls for the same key share one fetch; every waiter receives
// the same value or the same error. The fetch runs detached from ctx: a
// caller that stops waiting (ctx canceled) gets ctx.Err() back, but the
// fetch completes and its result is still cached for later readers.
//
// ttl bounds how long a successful result stays readable; zero selects the
// policy default, and values above the policy maximum are clamped.
func (m *Manager) GetOrFetch(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if !m.policy.ShouldCache() {
		return fetch(ctx)
	}
	ttl = m.policy.EffectiveTTL(ttl)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if id, ok := m.st.byKey[key]; ok {
		s := &m.st.slots[id]
		switch {
		case s.hasValue && time.Now().Before(s.expiresAt):
			m.hits++
			m.st.lruMoveToFront(id)
			v := s.value
			m.mu.Unlock()
			return v, nil
		case s.hasValue:
			// Expired: drop it now, release indexes off the hot path.
			m.expireLocked(id)
			m.misses++
			m.st.alloc(key)
		default:
			// A fetch for this key is already in flight; join it below
			// without counting another miss.
		}
	} else {
		m.misses++
		m.st.alloc(key)
	}
	m.mu.Unlock()

	ch := m.flights.DoChan(key, func() (any, error) {
		return m.runFetch(ctx, key, fetch, ttl)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// runFetch is the single-flight body: it pins the pending slot, runs the
// fetch without holding the lock, and commits the result only if the key's
// generation is unchanged when the fetch settles.
func (m *Manager) runFetch(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) (any, error) {
	m.mu.Lock()
	id, ok := m.st.byKey[key]
	if ok && m.st.slots[id].hasValue {
		s := &m.st.slots[id]
		if time.Now().Before(s.expiresAt) {
			// An earlier flight committed between our miss and now.
			v := s.value
			m.mu.Unlock()
			return v, nil
		}
		m.expireLocked(id)
		ok = false
	}
	if !ok {
		id = m.st.alloc(key)
	}
	startGen := m.st.slots[id].gen
	startSeq := m.st.slots[id].seq
	m.mu.Unlock()

	// Detached from the triggering caller: if it stops waiting, the fetch
	// still completes and later readers get the result.
	v, err := fetch(context.WithoutCancel(ctx))

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.st.byKey[key]; !ok || cur != id || m.st.slots[id].seq != startSeq {
		// The slot vanished under us (Clear); deliver without committing.
		return v, err
	}
	if err != nil || m.st.slots[id].gen != startGen {
		// Failed fetch, or the key was invalidated mid-flight: the result
		// must not land in the store. Waiters already queued on this
		// flight still receive it.
		m.st.detach(id)
		m.st.free(id)
		return v, err
	}
	s := &m.st.slots[id]
	s.value = v
	s.hasValue = true
	s.expiresAt = time.Now().Add(ttl)
	m.st.lruPushFront(id)
	m.evictLocked()
	return v, nil
}

// Invalidate removes entries matching pattern and marks matching in-flight
// fetches stale. A pattern of the form "^<literal>" is treated as an
// anchored prefix and takes the indexed path, costing only the matching
// keys. Any other pattern compiles as a regular expression and scans every
// key; keep that form out of hot paths. Returns the number of keys
// invalidated.
func (m *Manager) Invalidate(pattern string) (int, error) {
	if lit, ok := literalPrefix(pattern); ok {
		return m.InvalidatePrefix(lit), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("cache: invalid invalidation pattern %q: %w", pattern, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []int
	for key, id := range m.st.byKey {
		if re.MatchString(key) {
			matched = append(matched, id)
		}
	}
	for _, id := range matched {
		m.invalidateSlotLocked(id)
	}
	return len(matched), nil
}

// InvalidatePrefix removes every cached entry whose key starts with prefix
// and marks matching in-flight fetches stale. Returns the number of keys
// invalidated.
func (m *Manager) InvalidatePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := strings.IndexByte(prefix, ':'); i >= 0 {
		return m.invalidateBucketLocked(prefix[:i+1], prefix)
	}
	// No colon to anchor on: the prefix may span several buckets.
	n := 0
	var buckets []string
	for b := range m.st.byPrefix {
		if strings.HasPrefix(b, prefix) {
			buckets = append(buckets, b)
		}
	}
	for _, b := range buckets {
		n += m.invalidateBucketLocked(b, prefix)
	}
	return n
}

// invalidateBucketLocked invalidates every key in one prefix bucket that
// starts with prefix.
func (m *Manager) invalidateBucketLocked(bucket, prefix string) int {
	ids := m.st.byPrefix[bucket]
	if len(ids) == 0 {
		return 0
	}
	// Collect first: invalidation mutates the bucket set.
	matched := make([]int, 0, len(ids))
	for id := range ids {
		if !m.st.current(id) {
			// Detached, awaiting janitor cleanup.
			continue
		}
		if strings.HasPrefix(m.st.slots[id].key, prefix) {
			matched = append(matched, id)
		}
	}
	for _, id := range matched {
		m.invalidateSlotLocked(id)
	}
	return len(matched)
}

// invalidateSlotLocked bumps the key's generation so any in-flight fetch
// discards its result, and removes the stored value if there is one.
// Pending slots stay allocated: the flight that owns them frees them when
// it settles and sees the generation mismatch.
func (m *Manager) invalidateSlotLocked(id int) {
	s := &m.st.slots[id]
	s.gen++
	if s.hasValue {
		m.st.detach(id)
		m.st.free(id)
	}
}

// literalPrefix reports whether pattern is a prefix-anchored literal, like
// "^boards:", and returns the literal part.
func literalPrefix(pattern string) (string, bool) {
	if !strings.HasPrefix(pattern, "^") {
		return "", false
	}
	lit := pattern[1:]
	if regexp.QuoteMeta(lit) != lit {
		return "", false
	}
	return lit, true
}

// Clear drops every entry, in-flight marker, index entry, and generation.
// Fetches already in flight complete and deliver to their waiters, but
// commit nothing; the next read starts fresh. Hit and miss counters are
// cumulative and survive Clear.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, id := range m.st.byKey {
		if !m.st.slots[id].hasValue {
			// Detach the flight so post-Clear readers start a fresh
			// fetch instead of adopting the doomed one.
			m.flights.Forget(key)
		}
	}
	m.st = newStore()
	m.cleanup = nil
}

// Stats returns a snapshot of cache counters. Side-effect-free.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
		Entries:   m.st.live,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// Close stops the cleanup goroutine and makes further GetOrFetch calls fail
// with ErrClosed. Fetches already in flight complete and deliver to their
// waiters. Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.stop)
	<-m.done
	// Release whatever cleanup was still queued so the indexes stay
	// consistent if inspected after shutdown.
	m.drainCleanup()
	return nil
}

// expireLocked drops an expired entry from the key index and LRU order.
// Prefix-index and slot release run on the janitor goroutine, so the read
// that noticed the stale entry never pays for bookkeeping.
func (m *Manager) expireLocked(id int) {
	seq := m.st.slots[id].seq
	m.st.detach(id)
	m.scheduleCleanupLocked(id, seq)
}

// evictLocked enforces the MaxEntries bound, dropping least-recently-used
// entries. Index release is deferred like expiry, so an eviction triggered
// inside a hot write path never blocks its caller.
func (m *Manager) evictLocked() {
	if m.policy.MaxEntries <= 0 {
		return
	}
	for m.st.live > m.policy.MaxEntries && m.st.tail != noSlot {
		id := m.st.tail
		seq := m.st.slots[id].seq
		m.st.detach(id)
		m.scheduleCleanupLocked(id, seq)
		m.evictions++
	}
}
