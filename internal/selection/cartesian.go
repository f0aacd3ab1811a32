package selection

import (
	"fmt"
	"strings"

	"github.com/hepstack/cutflow/internal/domain"
	"github.com/hepstack/cutflow/internal/mask"
)

// Separator joins axis bin labels into compound category names.
const Separator = "__"

// Bin is one labeled cut on a multi-cut axis.
type Bin struct {
	Label string
	Cut   *domain.Cut
}

// MultiCut is one independent partitioning axis: an ordered set of labeled
// bins. The engine does not enforce mutual exclusivity between bins;
// overlapping bins simply yield overlapping compound memberships.
type MultiCut struct {
	Name string
	Bins []Bin
}

// Cartesian composes independent axes into the explicit cross product of
// their bins, one compound category per bin tuple, optionally merged with
// a standard selection of common categories that bypass the cross product.
//
// Axis order and bin order within an axis fix the compound naming and
// iteration order: the first axis varies slowest. The produced category
// count is product(bin counts) + common count, which routinely exceeds a
// native word width — the packed mask's word chaining exists for exactly
// this consumer.
type Cartesian struct {
	axes   []MultiCut
	common *Standard

	compound []string // compound names, cross-product order
	tuples   [][]int  // per compound category, the bin index chosen on each axis
	names    []string // compound then common, the full category space
}

// NewCartesian builds the cross product of the given axes, merged with an
// optional common selection. Axes must be non-empty and bin labels unique
// within an axis; common category names must not collide with compound
// names. Zero axes degenerates to the pure common selection.
func NewCartesian(axes []MultiCut, common *Standard) (*Cartesian, error) {
	for _, axis := range axes {
		if len(axis.Bins) == 0 {
			return nil, fmt.Errorf("selection: axis %q has no bins", axis.Name)
		}
		seen := make(map[string]struct{}, len(axis.Bins))
		for _, bin := range axis.Bins {
			if bin.Label == "" {
				return nil, fmt.Errorf("selection: axis %q has a bin with empty label", axis.Name)
			}
			if _, ok := seen[bin.Label]; ok {
				return nil, fmt.Errorf("selection: axis %q bin %q: %w", axis.Name, bin.Label, domain.ErrDuplicateName)
			}
			seen[bin.Label] = struct{}{}
		}
	}

	c := &Cartesian{axes: axes, common: common}
	c.enumerate()

	// Bin labels containing the separator can make distinct tuples join to
	// the same compound name; reject that here rather than mid-batch.
	nameSet := make(map[string]struct{}, len(c.compound))
	for _, name := range c.compound {
		if _, ok := nameSet[name]; ok {
			return nil, fmt.Errorf("selection: compound category %q produced by more than one bin tuple: %w",
				name, domain.ErrDuplicateName)
		}
		nameSet[name] = struct{}{}
	}
	c.names = append(c.names, c.compound...)
	if common != nil {
		for _, name := range common.CategoryNames() {
			if _, ok := nameSet[name]; ok {
				return nil, fmt.Errorf("selection: common category %q collides with a compound category: %w",
					name, domain.ErrDuplicateName)
			}
			c.names = append(c.names, name)
		}
	}
	return c, nil
}

// enumerate walks the cross product in declared order, first axis
// outermost, recording the compound name and bin tuple of every cell.
func (c *Cartesian) enumerate() {
	if len(c.axes) == 0 {
		return
	}

	total := 1
	for _, axis := range c.axes {
		total *= len(axis.Bins)
	}
	c.compound = make([]string, 0, total)
	c.tuples = make([][]int, 0, total)

	idx := make([]int, len(c.axes))
	labels := make([]string, len(c.axes))
	for {
		for a, i := range idx {
			labels[a] = c.axes[a].Bins[i].Label
		}
		c.compound = append(c.compound, strings.Join(labels, Separator))
		tuple := make([]int, len(idx))
		copy(tuple, idx)
		c.tuples = append(c.tuples, tuple)

		// Odometer increment, last axis fastest.
		a := len(idx) - 1
		for a >= 0 {
			idx[a]++
			if idx[a] < len(c.axes[a].Bins) {
				break
			}
			idx[a] = 0
			a--
		}
		if a < 0 {
			return
		}
	}
}

// CategoryNames returns every produced category name: compound categories
// in cross-product order followed by common categories in their declared
// order.
func (c *Cartesian) CategoryNames() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Apply evaluates every bin's cut once, ANDs the chosen bins per compound
// tuple, and merges the independently evaluated common categories.
func (c *Cartesian) Apply(batch domain.EventBatch, cache *Cache) (*mask.Mask, error) {
	// One evaluation per bin regardless of how many tuples reference it.
	binCols := make([][][]bool, len(c.axes))
	for a, axis := range c.axes {
		binCols[a] = make([][]bool, len(axis.Bins))
		for b, bin := range axis.Bins {
			col, err := cache.Evaluate(bin.Cut, batch)
			if err != nil {
				return nil, fmt.Errorf("axis %q bin %q: %w", axis.Name, bin.Label, err)
			}
			binCols[a][b] = col
		}
	}

	m := mask.New(batch.Len())
	for t, name := range c.compound {
		col := make([]bool, batch.Len())
		for i := range col {
			col[i] = true
		}
		for a, b := range c.tuples[t] {
			bc := binCols[a][b]
			for i := range col {
				col[i] = col[i] && bc[i]
			}
		}
		if err := m.Add(name, col); err != nil {
			return nil, err
		}
	}

	if c.common != nil {
		cm, err := c.common.Apply(batch, cache)
		if err != nil {
			return nil, err
		}
		for _, name := range cm.Names() {
			col, err := cm.Get(name)
			if err != nil {
				return nil, err
			}
			if err := m.Add(name, col); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
