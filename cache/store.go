package cache

import (
	"strings"
	"time"
)

// noSlot marks an empty LRU link.
const noSlot = -1

// slot is one arena entry. A slot is allocated while its key holds a cached
// value or has a fetch in flight; byKey points at exactly one slot per live
// key. Keeping everything for a key in one slot lets the secondary indexes
// work on integer ids instead of repeated string hashing.
type slot struct {
	key       string
	prefix    string
	value     any
	hasValue  bool
	expiresAt time.Time

	// gen increments once per invalidation of the key. A fetch captures
	// gen when it starts and commits only if gen is unchanged when it
	// settles.
	gen uint64

	// seq is the allocation sequence number, set on alloc and zeroed on
	// free. Deferred cleanup tasks carry the seq they were scheduled with,
	// so a recycled slot is never freed by a stale task.
	seq uint64

	// LRU links. Only slots holding a value participate in eviction
	// order; pending slots are never evicted.
	prev, next int
}

// store is the slot arena plus its indexes. All access is guarded by the
// owning Manager's mutex.
type store struct {
	slots    []slot
	freeList []int

	// byKey maps a live key to its slot id.
	byKey map[string]int

	// byPrefix maps a key's bucket (everything through the first colon) to
	// the slot ids sharing it. It is what makes prefix invalidation cost
	// proportional to the matching keys rather than the whole cache.
	byPrefix map[string]map[int]struct{}

	// LRU list over value-holding slots, most recently used at head.
	head, tail int
	live       int

	nextSeq uint64
}

func newStore() *store {
	return &store{
		byKey:    make(map[string]int),
		byPrefix: make(map[string]map[int]struct{}),
		head:     noSlot,
		tail:     noSlot,
		nextSeq:  1,
	}
}

// keyPrefix returns the index bucket for a key: everything through the first
// colon, or the whole key when it has none.
func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i+1]
	}
	return key
}

// alloc creates a pending slot for key and indexes it. The caller must have
// verified that byKey holds no entry for key.
func (st *store) alloc(key string) int {
	var id int
	if n := len(st.freeList); n > 0 {
		id = st.freeList[n-1]
		st.freeList = st.freeList[:n-1]
	} else {
		st.slots = append(st.slots, slot{})
		id = len(st.slots) - 1
	}
	st.slots[id] = slot{
		key:    key,
		prefix: keyPrefix(key),
		seq:    st.nextSeq,
		prev:   noSlot,
		next:   noSlot,
	}
	st.nextSeq++
	st.byKey[key] = id

	bucket := st.byPrefix[st.slots[id].prefix]
	if bucket == nil {
		bucket = make(map[int]struct{})
		st.byPrefix[st.slots[id].prefix] = bucket
	}
	bucket[id] = struct{}{}
	return id
}

// detach unlinks a slot from the key index and eviction order. The slot and
// its prefix-index entry stay allocated until free runs.
func (st *store) detach(id int) {
	s := &st.slots[id]
	if cur, ok := st.byKey[s.key]; ok && cur == id {
		delete(st.byKey, s.key)
	}
	if s.hasValue {
		st.lruRemove(id)
	}
}

// free drops a slot's prefix-index entry and returns it to the free list.
// The slot must already be detached.
func (st *store) free(id int) {
	s := &st.slots[id]
	if bucket, ok := st.byPrefix[s.prefix]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(st.byPrefix, s.prefix)
		}
	}
	st.slots[id] = slot{prev: noSlot, next: noSlot}
	st.freeList = append(st.freeList, id)
}

// current reports whether id is still the slot byKey points at for its key.
// False for detached slots awaiting deferred cleanup.
func (st *store) current(id int) bool {
	cur, ok := st.byKey[st.slots[id].key]
	return ok && cur == id
}

func (st *store) lruPushFront(id int) {
	s := &st.slots[id]
	s.prev = noSlot
	s.next = st.head
	if st.head != noSlot {
		st.slots[st.head].prev = id
	}
	st.head = id
	if st.tail == noSlot {
		st.tail = id
	}
	st.live++
}

func (st *store) lruRemove(id int) {
	s := &st.slots[id]
	if s.prev == noSlot {
		st.head = s.next
	} else {
		st.slots[s.prev].next = s.next
	}
	if s.next == noSlot {
		st.tail = s.prev
	} else {
		st.slots[s.next].prev = s.prev
	}
	s.prev, s.next = noSlot, noSlot
	st.live--
}

func (st *store) lruMoveToFront(id int) {
	if st.head == id {
		return
	}
	st.lruRemove(id)
	st.lruPushFront(id)
}
