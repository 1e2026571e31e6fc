package fft

import "sync"

// PermutationCache memoizes bit-reversal permutation tables by length.
//
// Tables are computed on first use and never modified afterwards. Two
// goroutines asking for a new length at the same time may both compute it;
// the first insert wins and both receive that table.
type PermutationCache struct {
	mu     sync.RWMutex
	tables map[int][]int
}

// NewPermutationCache returns an empty cache.
func NewPermutationCache() *PermutationCache {
	return &PermutationCache{tables: make(map[int][]int)}
}

// Get returns the bit-reversal permutation for n. The returned slice is
// shared and must not be modified.
func (c *PermutationCache) Get(n int) ([]int, error) {
	if err := validateLength(n); err != nil {
		return nil, err
	}

	c.mu.RLock()
	table, ok := c.tables[n]
	c.mu.RUnlock()
	if ok {
		return table, nil
	}

	computed := BitReversal(n)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tables == nil {
		c.tables = make(map[int][]int)
	}
	if table, ok := c.tables[n]; ok {
		return table, nil
	}
	c.tables[n] = computed
	return computed, nil
}

// Len returns the number of cached lengths.
func (c *PermutationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// BitReversal computes the permutation mapping each index in [0, n) to the
// index with its log2(n) low bits reversed. n must be a power of two.
func BitReversal(n int) []int {
	bits := 0
	for 1<<bits < n {
		bits++
	}

	table := make([]int, n)
	for i := range table {
		r := 0
		v := i
		for b := 0; b < bits; b++ {
			r = r<<1 | v&1
			v >>= 1
		}
		table[i] = r
	}
	return table
}
