package businessmap

import (
	"sync"
	"time"
)

// breakerState is the upstream breaker state.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case breakerClosed:
		return "closed"
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// breaker fails calls fast once the upstream looks down: after threshold
// consecutive failed requests it rejects everything for cooldown, then lets
// a single probe through. A successful probe closes it again; a failed
// probe re-opens the cooldown window.
//
// Only outcomes the client reports via record count: transport errors and
// server-side statuses. Caller errors (4xx) never trip it.
type breaker struct {
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
	probing  bool

	// onStateChange is invoked under the lock with the old and new state.
	onStateChange func(from, to breakerState)
}

func newBreaker(threshold int, cooldown time.Duration, onStateChange func(from, to breakerState)) *breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &breaker{
		threshold:     threshold,
		cooldown:      cooldown,
		state:         breakerClosed,
		onStateChange: onStateChange,
	}
}

// allow reports whether a call may proceed. In the open state it returns
// ErrUpstreamUnavailable until the cooldown elapses, then admits one probe.
func (b *breaker) allow() error {
	b.mu.Lock()

	switch b.state {
	case breakerClosed:
		b.mu.Unlock()
		return nil

	case breakerOpen:
		if time.Since(b.openedAt) < b.cooldown {
			b.mu.Unlock()
			return ErrUpstreamUnavailable
		}
		b.setStateLocked(breakerHalfOpen)
		b.probing = true
		b.mu.Unlock()
		return nil

	case breakerHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return ErrUpstreamUnavailable
		}
		b.probing = true
		b.mu.Unlock()
		return nil

	default:
		b.mu.Unlock()
		return nil
	}
}

// record feeds the outcome of an admitted call back into the breaker.
func (b *breaker) record(failed bool) {
	b.mu.Lock()

	switch b.state {
	case breakerClosed:
		if failed {
			b.failures++
			if b.failures >= b.threshold {
				b.openedAt = time.Now()
				b.setStateLocked(breakerOpen)
			}
		} else {
			b.failures = 0
		}

	case breakerHalfOpen:
		b.probing = false
		if failed {
			b.openedAt = time.Now()
			b.setStateLocked(breakerOpen)
		} else {
			b.failures = 0
			b.setStateLocked(breakerClosed)
		}

	case breakerOpen:
		// A call admitted before the breaker opened settled late. Its
		// outcome adds nothing: the cooldown window is already running.
	}

	b.mu.Unlock()
}

// currentState returns the state for introspection.
func (b *breaker) currentState() breakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// setStateLocked transitions state and notifies. The callback runs under
// the lock and must not call back into the breaker.
func (b *breaker) setStateLocked(to breakerState) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}
