package synth

import "sync"

// HarmonicCache keeps raw partial buffers of notes that occur more than once
// in a score. It lives for a single render.
type HarmonicCache struct {
	mu     sync.Mutex
	counts map[string]int
	waves  map[string][]float64
}

// NewHarmonicCache builds a cache from per-name occurrence counts. Only names
// with a count above one are stored.
func NewHarmonicCache(counts map[string]int) *HarmonicCache {
	return &HarmonicCache{counts: counts, waves: make(map[string][]float64)}
}

// Wants reports whether name is worth storing.
func (c *HarmonicCache) Wants(name string) bool {
	if c == nil {
		return false
	}
	return c.counts[name] > 1
}

// Get returns the stored buffer for name. Callers must not modify it.
func (c *HarmonicCache) Get(name string) ([]float64, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.waves[name]
	return w, ok
}

// Put stores buf under name when the name recurs.
func (c *HarmonicCache) Put(name string, buf []float64) {
	if !c.Wants(name) {
		return
	}
	c.mu.Lock()
	c.waves[name] = buf
	c.mu.Unlock()
}

// Len returns the number of stored buffers.
func (c *HarmonicCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waves)
}
