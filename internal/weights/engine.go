package weights

import (
	"fmt"
	"sort"

	"github.com/hepstack/cutflow/internal/domain"
)

// NominalModifier keys the unvaried total weight in resolution output.
const NominalModifier = "nominal"

// Engine resolves and evaluates weights per sample/category pair. It is
// built once from a registry, a weight tree and a variation tree, and is
// immutable and safe for concurrent use afterwards.
//
// The variation tree is scoped exactly like the weight tree but its
// identifiers name the providers whose emitted variations should produce
// varied totals. Requested providers that do not apply to a pair, or that
// emit no variations for the current metadata, are skipped for that pair.
type Engine struct {
	registry   *Registry
	weights    *Tree
	variations *Tree
}

// NewEngine validates both trees against the registry and builds the
// engine. Every identifier referenced anywhere in either tree must
// resolve to a registered provider; all failures are collected into one
// ConfigError so a misconfigured run is rejected in a single pass, before
// any batch is processed.
func NewEngine(registry *Registry, weightTree, variationTree *Tree) (*Engine, error) {
	if variationTree == nil {
		variationTree = &Tree{}
	}

	var issues []error
	check := func(kind string, tree *Tree) {
		ids := tree.Identifiers()
		sort.Strings(ids)
		for _, id := range ids {
			if _, ok := registry.Lookup(id); !ok {
				issues = append(issues, fmt.Errorf("%s identifier %q: %w", kind, id, domain.ErrUnknownWeight))
			}
		}
	}
	check("weight", weightTree)
	check("variation", variationTree)
	if len(issues) > 0 {
		return nil, &domain.ConfigError{Issues: issues}
	}

	return &Engine{registry: registry, weights: weightTree, variations: variationTree}, nil
}

// ResolveNames returns the ordered, deduplicated weight identifiers
// applying to a sample/category pair.
func (e *Engine) ResolveNames(sample, category string) []string {
	return e.weights.Resolve(sample, category)
}

// NewResolution opens a per-batch resolution session. The session owns
// the provider evaluation cache: each provider computes once per batch
// even when many categories share it. Sessions are not safe for
// concurrent use; each worker opens its own.
func (e *Engine) NewResolution(batch domain.EventBatch, meta domain.Metadata) *Resolution {
	return &Resolution{
		engine: e,
		batch:  batch,
		meta:   meta,
		cache:  make(map[string]*Values),
	}
}

// Resolution evaluates weights for one batch under one metadata record.
type Resolution struct {
	engine *Engine
	batch  domain.EventBatch
	meta   domain.Metadata
	cache  map[string]*Values
}

// values returns the provider's (cached) output for this batch, shape-checked.
func (r *Resolution) values(name string) (*Values, error) {
	if v, ok := r.cache[name]; ok {
		return v, nil
	}

	p, ok := r.engine.registry.Lookup(name)
	if !ok {
		// Unreachable for tree-resolved names; guards direct misuse.
		return nil, fmt.Errorf("weights: provider %q: %w", name, domain.ErrUnknownWeight)
	}
	v, err := p.Compute(r.batch, r.meta)
	if err != nil {
		return nil, fmt.Errorf("weights: provider %q: %w", name, err)
	}
	// Providers are identified by their registered name; the self-reported
	// one is not part of the contract and substitution keys on Name.
	v.Name = name
	if err := v.checkShape(r.batch.Len()); err != nil {
		return nil, err
	}
	r.cache[name] = v
	return v, nil
}

// Weights computes the total weights for one category: the nominal
// elementwise product of every resolved provider, plus one varied total
// per emitted variation of each requested provider, substituting that
// provider's shifted array while holding all others nominal.
func (r *Resolution) Weights(category string) (*CategoryWeights, error) {
	names := r.engine.weights.Resolve(r.meta.Sample, category)

	resolved := make([]*Values, len(names))
	inSet := make(map[string]struct{}, len(names))
	for i, name := range names {
		v, err := r.values(name)
		if err != nil {
			return nil, err
		}
		resolved[i] = v
		inSet[name] = struct{}{}
	}

	size := r.batch.Len()
	nominal := constant(size, 1.0)
	for _, v := range resolved {
		for i := range nominal {
			nominal[i] *= v.Nominal[i]
		}
	}

	cw := &CategoryWeights{
		Category: category,
		Nominal:  nominal,
		varied:   make(map[string][]float64),
	}

	for _, requested := range r.engine.variations.Resolve(r.meta.Sample, category) {
		if _, ok := inSet[requested]; !ok {
			// Requested provider does not apply to this pair.
			continue
		}
		v := r.cache[requested]
		for _, variation := range v.Variations {
			up := r.substitute(resolved, requested, variation.Up)
			if err := cw.add(variation.Name+"Up", up); err != nil {
				return nil, err
			}
			if variation.Down != nil {
				down := r.substitute(resolved, requested, variation.Down)
				if err := cw.add(variation.Name+"Down", down); err != nil {
					return nil, err
				}
			}
		}
	}
	return cw, nil
}

// substitute re-multiplies the resolved set with one provider's array
// replaced. Re-multiplication avoids dividing the nominal total, which
// would be unstable around zero weights.
func (r *Resolution) substitute(resolved []*Values, name string, replacement []float64) []float64 {
	out := constant(r.batch.Len(), 1.0)
	for _, v := range resolved {
		arr := v.Nominal
		if v.Name == name {
			arr = replacement
		}
		for i := range out {
			out[i] *= arr[i]
		}
	}
	return out
}

// CategoryWeights holds the total weights of one category: the nominal
// array and the varied totals keyed by modifier (<variation>Up/Down).
type CategoryWeights struct {
	Category string
	Nominal  []float64

	modifiers []string
	varied    map[string][]float64
}

func (cw *CategoryWeights) add(modifier string, arr []float64) error {
	if _, ok := cw.varied[modifier]; ok {
		return fmt.Errorf("weights: modifier %q in category %q emitted by more than one provider: %w",
			modifier, cw.Category, domain.ErrDuplicateName)
	}
	cw.modifiers = append(cw.modifiers, modifier)
	cw.varied[modifier] = arr
	return nil
}

// Modifiers returns the available variation modifiers in deterministic
// resolution order.
func (cw *CategoryWeights) Modifiers() []string {
	out := make([]string, len(cw.modifiers))
	copy(out, cw.modifiers)
	return out
}

// Varied returns the total weights under the given modifier.
// NominalModifier returns the nominal total.
func (cw *CategoryWeights) Varied(modifier string) ([]float64, error) {
	if modifier == NominalModifier {
		return cw.Nominal, nil
	}
	arr, ok := cw.varied[modifier]
	if !ok {
		return nil, fmt.Errorf("weights: modifier %q not available in category %q: %w",
			modifier, cw.Category, domain.ErrUnknownName)
	}
	return arr, nil
}
