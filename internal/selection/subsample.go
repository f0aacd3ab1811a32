package selection

import (
	"fmt"

	"github.com/hepstack/cutflow/internal/domain"
)

// Subsample is a named refinement of a sample, defined by an AND of cuts.
// Subsamples of one parent need not be exclusive or exhaustive; the mask
// narrows only that subsample's exported products, never the parent's own.
type Subsample struct {
	Name string
	Cuts []*domain.Cut
}

// Mask computes the subsample membership column for a batch.
func (s *Subsample) Mask(batch domain.EventBatch, cache *Cache) ([]bool, error) {
	col, err := andCuts(s.Cuts, batch, cache)
	if err != nil {
		return nil, fmt.Errorf("subsample %q: %w", s.Name, err)
	}
	return col, nil
}

// DefaultSubsamples returns the subsample list for a sample with no
// configured refinement: the full sample becomes its own subsample under
// a passthrough cut.
func DefaultSubsamples(sample string) []Subsample {
	return []Subsample{{Name: sample, Cuts: []*domain.Cut{domain.Passthrough}}}
}
