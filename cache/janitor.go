package cache

// task identifies one deferred slot release. seq pins the allocation the
// task was scheduled for, so a slot recycled in the meantime is left alone.
type task struct {
	id  int
	seq uint64
}

// scheduleCleanupLocked queues prefix-index and slot release for a detached
// slot. The janitor goroutine runs it after the current operation returns.
func (m *Manager) scheduleCleanupLocked(id int, seq uint64) {
	m.cleanup = append(m.cleanup, task{id: id, seq: seq})
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// janitor drains deferred cleanup until Close.
func (m *Manager) janitor() {
	defer close(m.done)
	for {
		select {
		case <-m.stop:
			return
		case <-m.wake:
			m.drainCleanup()
		}
	}
}

// drainCleanup releases every queued slot whose allocation still matches
// the one its task was scheduled for.
func (m *Manager) drainCleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := m.cleanup
	m.cleanup = nil
	for _, t := range tasks {
		if t.id >= len(m.st.slots) {
			// The arena was cleared after this task was scheduled.
			continue
		}
		if m.st.slots[t.id].seq != t.seq {
			// Freed or recycled since scheduling.
			continue
		}
		m.st.free(t.id)
	}
}
