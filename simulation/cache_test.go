package simulation

import (
	"context"
	"testing"
)

func TestRunCache(t *testing.T) {
	sn, snap := transfer(t, 5)
	sim := New(sn, nil).WithSeed(42)
	if err := sim.Initialize(snap); err != nil {
		t.Fatal(err)
	}
	result, err := sim.RunToCompletion(context.Background(), 0, 10)
	if err != nil {
		t.Fatal(err)
	}

	cache := NewRunCache(10)
	key := Key(snap, 42, 0, 10)
	if cache.Get(key) != nil {
		t.Error("empty cache must miss")
	}
	cache.Put(key, result)
	if got := cache.Get(key); got != result {
		t.Error("cache must return the stored result")
	}

	hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}
}

func TestCacheKeySensitivity(t *testing.T) {
	_, snap := transfer(t, 5)
	base := Key(snap, 42, 0, 10)

	if Key(snap, 43, 0, 10) == base {
		t.Error("seed must change the key")
	}
	if Key(snap, 42, 0, 11) == base {
		t.Error("step limit must change the key")
	}

	other := snap.Copy()
	other.Markings.Set("P1", 4)
	if Key(other, 42, 0, 10) == base {
		t.Error("marking must change the key")
	}
	if Key(snap.Copy(), 42, 0, 10) != base {
		t.Error("an identical snapshot must produce the same key")
	}
}

func TestRunCacheEviction(t *testing.T) {
	cache := NewRunCache(1)
	cache.Put("a", &Result{})
	cache.Put("b", &Result{})
	found := 0
	if cache.Get("a") != nil {
		found++
	}
	if cache.Get("b") != nil {
		found++
	}
	if found != 1 {
		t.Errorf("cache of size 1 holds %d entries", found)
	}
}

func TestRunCacheRunMemoizesSeededRuns(t *testing.T) {
	sn, snap := transfer(t, 5)
	cache := NewRunCache(10)

	first, err := cache.Run(context.Background(), sn, snap, nil, 42, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Run(context.Background(), sn, snap, nil, 42, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("identical seeded runs must return the cached result")
	}
	if hits, misses := cache.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}

	// Unseeded runs are independent by contract and bypass the cache.
	if _, err := cache.Run(context.Background(), sn, snap, nil, 0, 0, 10); err != nil {
		t.Fatal(err)
	}
	if hits, misses := cache.Stats(); hits != 1 || misses != 1 {
		t.Errorf("unseeded run touched the cache: %d hits, %d misses", hits, misses)
	}
}
