// Package selection derives per-event category membership from named cuts.
// It provides the standard AND-of-cuts selection, the cartesian multi-axis
// selection, and subsample refinements, all storing their results in the
// packed extended bitmask.
//
// Selections are immutable after construction and shared read-only across
// workers; the per-batch Cache is the only mutable state and each worker
// owns its own.
package selection

import "github.com/hepstack/cutflow/internal/domain"

// Cache memoizes cut evaluations for the lifetime of one batch. Cuts are
// keyed by Cut.Key(), so identically-parameterized cuts reused across
// categories, axes and subsamples evaluate exactly once per batch.
type Cache struct {
	cols map[string][]bool
}

// NewCache creates an empty per-batch cut cache.
func NewCache() *Cache {
	return &Cache{cols: make(map[string][]bool)}
}

// Evaluate returns the cut's column for the batch, computing it on first
// use and serving the memoized column afterwards.
func (c *Cache) Evaluate(cut *domain.Cut, batch domain.EventBatch) ([]bool, error) {
	key := cut.Key()
	if col, ok := c.cols[key]; ok {
		return col, nil
	}

	col, err := cut.Evaluate(batch)
	if err != nil {
		return nil, err
	}
	c.cols[key] = col
	return col, nil
}

// Size returns the number of distinct cuts evaluated so far.
func (c *Cache) Size() int { return len(c.cols) }

// andCuts evaluates an ordered cut list through the cache and ANDs the
// columns. An empty list yields an all-true column, the baseline "no cut"
// semantic.
func andCuts(cuts []*domain.Cut, batch domain.EventBatch, cache *Cache) ([]bool, error) {
	out := make([]bool, batch.Len())
	for i := range out {
		out[i] = true
	}
	for _, cut := range cuts {
		col, err := cache.Evaluate(cut, batch)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = out[i] && col[i]
		}
	}
	return out, nil
}
