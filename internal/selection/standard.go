package selection

import (
	"fmt"

	"github.com/hepstack/cutflow/internal/domain"
	"github.com/hepstack/cutflow/internal/mask"
)

// Selection is the common contract of the standard and cartesian
// selections: a deterministic list of category names and a per-batch
// application producing one membership column per category.
type Selection interface {
	// CategoryNames returns the produced category names in deterministic
	// declaration order.
	CategoryNames() []string

	// Apply evaluates the selection on a batch, storing one membership
	// column per category in the returned mask.
	Apply(batch domain.EventBatch, cache *Cache) (*mask.Mask, error)
}

// Category pairs a name with the ordered cut list whose AND defines
// membership. An empty cut list yields an all-true baseline category.
type Category struct {
	Name string
	Cuts []*domain.Cut
}

// Standard maps category names to AND-combined cut lists. Categories need
// not be mutually exclusive; names must be unique within one selection.
type Standard struct {
	categories []Category
	names      []string
}

// NewStandard builds a standard selection from ordered categories.
// Duplicate category names are rejected.
func NewStandard(categories []Category) (*Standard, error) {
	seen := make(map[string]struct{}, len(categories))
	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("selection: category with empty name")
		}
		if _, ok := seen[cat.Name]; ok {
			return nil, fmt.Errorf("selection: category %q: %w", cat.Name, domain.ErrDuplicateName)
		}
		seen[cat.Name] = struct{}{}
		names = append(names, cat.Name)
	}
	return &Standard{categories: categories, names: names}, nil
}

// CategoryNames returns the category names in declaration order.
func (s *Standard) CategoryNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Apply computes every category's membership column. Cuts shared between
// categories evaluate once through the cache.
func (s *Standard) Apply(batch domain.EventBatch, cache *Cache) (*mask.Mask, error) {
	m := mask.New(batch.Len())
	for _, cat := range s.categories {
		col, err := andCuts(cat.Cuts, batch, cache)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", cat.Name, err)
		}
		if err := m.Add(cat.Name, col); err != nil {
			return nil, err
		}
	}
	return m, nil
}
