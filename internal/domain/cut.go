package domain

import (
	"fmt"
	"sort"
	"strings"
)

// CutFunc computes one boolean per event for a batch. It must be
// deterministic and side-effect-free: the same batch and params always
// produce the same column, which is what makes per-batch memoization and
// cross-selection deduplication sound.
type CutFunc func(batch EventBatch, params map[string]any) ([]bool, error)

// Cut is a named, parameterized boolean predicate over a batch.
// Two cuts with the same name and params are considered identical and are
// evaluated once per batch regardless of how many categories or axes
// reference them.
type Cut struct {
	Name   string
	Params map[string]any
	Fn     CutFunc
}

// NewCut creates a cut. Params may be nil for parameterless cuts.
func NewCut(name string, params map[string]any, fn CutFunc) *Cut {
	return &Cut{Name: name, Params: params, Fn: fn}
}

// Key returns the memoization and deduplication identity of the cut:
// its name plus a canonical rendering of its params. Params are rendered
// in sorted key order so identically-parameterized cuts built
// independently share a key.
func (c *Cut) Key() string {
	if len(c.Params) == 0 {
		return c.Name
	}
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(c.Name)
	for _, k := range keys {
		fmt.Fprintf(&sb, "|%s=%v", k, c.Params[k])
	}
	return sb.String()
}

// Evaluate runs the cut on a batch and checks the result length.
func (c *Cut) Evaluate(batch EventBatch) ([]bool, error) {
	col, err := c.Fn(batch, c.Params)
	if err != nil {
		return nil, fmt.Errorf("cut %q: %w", c.Name, err)
	}
	if len(col) != batch.Len() {
		return nil, NewShapeError("cut "+c.Name, len(col), batch.Len())
	}
	return col, nil
}

// Passthrough is the baseline no-cut predicate: every event passes.
// Categories and subsamples with no real selection use it, matching the
// "baseline" semantics of an empty cut list.
var Passthrough = NewCut("passthrough", nil, func(batch EventBatch, _ map[string]any) ([]bool, error) {
	col := make([]bool, batch.Len())
	for i := range col {
		col[i] = true
	}
	return col, nil
})
