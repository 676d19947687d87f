package cache_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/boardops/cache"
)

func ExampleNewManager() {
	m := cache.NewManager(cache.DefaultPolicy())
	defer m.Close()

	ctx := context.Background()
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return "board list", nil
	}

	// First read runs the fetch; the second is served from cache.
	v1, _ := m.GetOrFetch(ctx, "boards:all", fetch, time.Minute)
	v2, _ := m.GetOrFetch(ctx, "boards:all", fetch, time.Minute)

	fmt.Println("Value:", v1)
	fmt.Println("Same value:", v1 == v2)
	fmt.Println("Fetch calls:", calls)
	// Output:
	// Value: board list
	// Same value: true
	// Fetch calls: 1
}

func ExampleManager_InvalidatePrefix() {
	m := cache.NewManager(cache.DefaultPolicy())
	defer m.Close()
	ctx := context.Background()

	fetch := func(v string) cache.FetchFunc {
		return func(ctx context.Context) (any, error) { return v, nil }
	}
	_, _ = m.GetOrFetch(ctx, "boards:1", fetch("board one"), 0)
	_, _ = m.GetOrFetch(ctx, "boards:2", fetch("board two"), 0)
	_, _ = m.GetOrFetch(ctx, "cards:1", fetch("card one"), 0)

	// Drop everything under boards: and leave other prefixes alone.
	n := m.InvalidatePrefix("boards:")
	fmt.Println("Invalidated:", n)
	fmt.Println("Entries left:", m.Stats().Entries)
	// Output:
	// Invalidated: 2
	// Entries left: 1
}

func ExampleManager_Invalidate() {
	m := cache.NewManager(cache.DefaultPolicy())
	defer m.Close()
	ctx := context.Background()

	fetch := func(ctx context.Context) (any, error) { return "v", nil }
	_, _ = m.GetOrFetch(ctx, "boards:1", fetch, 0)
	_, _ = m.GetOrFetch(ctx, "cards:1", fetch, 0)

	// Prefix-anchored patterns use the index; other patterns scan all keys.
	n, _ := m.Invalidate("^boards:")
	fmt.Println("By prefix:", n)

	n, _ = m.Invalidate(":1$")
	fmt.Println("By scan:", n)
	// Output:
	// By prefix: 1
	// By scan: 1
}

func ExampleManager_Stats() {
	m := cache.NewManager(cache.DefaultPolicy())
	defer m.Close()
	ctx := context.Background()

	fetch := func(ctx context.Context) (any, error) { return 42, nil }
	_, _ = m.GetOrFetch(ctx, "cards:42", fetch, 0) // miss
	_, _ = m.GetOrFetch(ctx, "cards:42", fetch, 0) // hit
	_, _ = m.GetOrFetch(ctx, "cards:42", fetch, 0) // hit

	stats := m.Stats()
	fmt.Println("Hits:", stats.Hits)
	fmt.Println("Misses:", stats.Misses)
	fmt.Println("Entries:", stats.Entries)
	// Output:
	// Hits: 2
	// Misses: 1
	// Entries: 1
}

func ExampleKey() {
	key1, _ := cache.Key("boards", map[string]any{"workspace": 7, "archived": false})
	key2, _ := cache.Key("boards", map[string]any{"archived": false, "workspace": 7})

	// Map ordering doesn't matter: inputs canonicalize before hashing.
	fmt.Println("Deterministic:", key1 == key2)
	fmt.Println("Prefix:", strings.HasPrefix(key1, "boards:"))
	// Output:
	// Deterministic: true
	// Prefix: true
}
