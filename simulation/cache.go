package simulation

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/simao-eugenio/shypn-sub018/config"
	"github.com/simao-eugenio/shypn-sub018/experiment"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// RunCache memoizes run results keyed by snapshot content, seed and
// limits, so repeated what-if previews over the same parameters skip
// re-simulation. Only seeded runs should be cached; unseeded runs are
// independent by contract.
type RunCache struct {
	mu      sync.RWMutex
	cache   map[string]*Result
	maxSize int
	hits    int64
	misses  int64
}

// NewRunCache creates a cache with the specified maximum size.
// When full, an arbitrary entry is evicted. Zero means unlimited.
func NewRunCache(maxSize int) *RunCache {
	return &RunCache{
		cache:   make(map[string]*Result),
		maxSize: maxSize,
	}
}

// Key builds the cache key for a snapshot and run parameters.
func Key(snap *experiment.Snapshot, seed int64, maxTime float64, maxSteps int) string {
	h := sha256.New()
	buf := make([]byte, 8)

	writeInt := func(v int64) {
		binary.BigEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	}
	writeFloat := func(v float64) {
		binary.BigEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}

	for _, k := range snap.Markings.SortedKeys() {
		h.Write([]byte(k))
		writeInt(int64(snap.Markings.Get(k)))
	}
	for _, k := range sortedKeys(snap.Weights) {
		h.Write([]byte(k))
		writeInt(int64(snap.Weights[k]))
	}
	for _, k := range sortedKeys(snap.Rates) {
		h.Write([]byte(k))
		writeFloat(snap.Rates[k])
	}
	writeInt(seed)
	writeFloat(maxTime)
	writeInt(int64(maxSteps))

	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get retrieves a cached result, nil when absent.
func (c *RunCache) Get(key string) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.cache[key]; ok {
		c.hits++
		return r
	}
	c.misses++
	return nil
}

// Put stores a result.
func (c *RunCache) Put(key string, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			break
		}
	}
	c.cache[key] = r
}

// Run returns the memoized result for the given parameters when one
// exists, otherwise simulates and stores the outcome. Only seeded runs
// are memoized; a zero seed always simulates afresh.
func (c *RunCache) Run(ctx context.Context, sn *subnet.Subnet, snap *experiment.Snapshot, cfg *config.Config, seed int64, maxTime float64, maxSteps int) (*Result, error) {
	if seed == 0 {
		return execute(ctx, sn, snap, cfg, 0, maxTime, maxSteps)
	}
	key := Key(snap, seed, maxTime, maxSteps)
	if r := c.Get(key); r != nil {
		return r, nil
	}
	r, err := execute(ctx, sn, snap, cfg, seed, maxTime, maxSteps)
	if err != nil {
		return nil, err
	}
	c.Put(key, r)
	return r, nil
}

func execute(ctx context.Context, sn *subnet.Subnet, snap *experiment.Snapshot, cfg *config.Config, seed int64, maxTime float64, maxSteps int) (*Result, error) {
	sim := New(sn, cfg)
	if seed != 0 {
		sim.WithSeed(seed)
	}
	if err := sim.Initialize(snap); err != nil {
		return nil, err
	}
	return sim.RunToCompletion(ctx, maxTime, maxSteps)
}

// Stats returns hit and miss counts.
func (c *RunCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
