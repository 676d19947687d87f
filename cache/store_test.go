package cache

import "testing"

func TestKeyPrefix(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"boards:abc", "boards:"},
		{"boards:a:b", "boards:"},
		{"plain", "plain"},
		{":leading", ":"},
	}
	for _, tt := range tests {
		if got := keyPrefix(tt.key); got != tt.want {
			t.Errorf("keyPrefix(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestStore_AllocIndexesSlot(t *testing.T) {
	st := newStore()

	id := st.alloc("boards:1")
	if got := st.byKey["boards:1"]; got != id {
		t.Errorf("byKey[boards:1] = %d, want %d", got, id)
	}
	if _, ok := st.byPrefix["boards:"][id]; !ok {
		t.Error("alloc did not index the slot under its prefix")
	}
	if st.slots[id].seq == 0 {
		t.Error("alloc left seq zero; deferred cleanup cannot tell allocations apart")
	}
	if st.slots[id].hasValue {
		t.Error("fresh slot should be pending, not value-holding")
	}
}

func TestStore_FreeRecyclesSlot(t *testing.T) {
	st := newStore()

	a := st.alloc("a:1")
	seqA := st.slots[a].seq
	st.detach(a)
	st.free(a)

	if len(st.freeList) != 1 {
		t.Fatalf("free list length = %d, want 1", len(st.freeList))
	}
	if st.slots[a].seq != 0 {
		t.Error("free should zero seq so stale cleanup tasks never match")
	}
	if len(st.byPrefix) != 0 {
		t.Error("free left a prefix bucket behind")
	}

	b := st.alloc("b:1")
	if b != a {
		t.Errorf("alloc after free = slot %d, want recycled slot %d", b, a)
	}
	if st.slots[b].seq == seqA {
		t.Error("recycled slot kept its old seq")
	}
}

func TestStore_LRUOrder(t *testing.T) {
	st := newStore()
	add := func(key string) int {
		id := st.alloc(key)
		st.slots[id].hasValue = true
		st.lruPushFront(id)
		return id
	}

	a := add("a:1")
	b := add("b:1")
	c := add("c:1")

	if st.head != c || st.tail != a {
		t.Fatalf("head/tail = %d/%d, want %d/%d", st.head, st.tail, c, a)
	}
	if st.live != 3 {
		t.Fatalf("live = %d, want 3", st.live)
	}

	st.lruMoveToFront(a)
	if st.head != a || st.tail != b {
		t.Errorf("after move: head/tail = %d/%d, want %d/%d", st.head, st.tail, a, b)
	}

	st.lruRemove(b)
	if st.tail != c {
		t.Errorf("after removing tail: tail = %d, want %d", st.tail, c)
	}
	if st.live != 2 {
		t.Errorf("live = %d, want 2", st.live)
	}

	st.lruRemove(a)
	st.lruRemove(c)
	if st.head != noSlot || st.tail != noSlot {
		t.Errorf("emptied list head/tail = %d/%d, want %d/%d", st.head, st.tail, noSlot, noSlot)
	}
	if st.live != 0 {
		t.Errorf("live = %d, want 0", st.live)
	}
}

func TestStore_CurrentDetectsDetachedSlots(t *testing.T) {
	st := newStore()

	id := st.alloc("a:1")
	if !st.current(id) {
		t.Error("freshly allocated slot should be current")
	}

	st.detach(id)
	if st.current(id) {
		t.Error("detached slot should not be current")
	}

	// Reallocating the key points byKey at the new slot; the old one stays
	// stale until freed.
	id2 := st.alloc("a:1")
	if !st.current(id2) {
		t.Error("replacement slot should be current")
	}
	if id2 == id {
		t.Fatal("detached slot must not be recycled before free")
	}
	if st.current(id) {
		t.Error("superseded slot should not be current")
	}
}
