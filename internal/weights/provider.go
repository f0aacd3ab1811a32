// Package weights implements the weight-resolution engine: a registry of
// weight providers (built-in and custom), the 4-level additive assignment
// tree scoping providers to sample/category pairs, and the per-batch
// resolution producing nominal and systematically varied total weights.
package weights

import (
	"fmt"

	"github.com/hepstack/cutflow/internal/domain"
)

// Variation is one named systematic shift emitted alongside a provider's
// nominal array. Up is required; Down may be nil for one-sided shifts.
type Variation struct {
	Name string
	Up   []float64
	Down []float64
}

// Values is a provider's output for one batch: the nominal per-event
// weight array plus zero or more named variations.
type Values struct {
	Name       string
	Nominal    []float64
	Variations []Variation
}

// checkShape verifies every array in the values matches the batch length.
// A mismatch is a ShapeError: the batch is aborted, never padded.
func (v *Values) checkShape(size int) error {
	if len(v.Nominal) != size {
		return domain.NewShapeError("weight "+v.Name, len(v.Nominal), size)
	}
	for _, variation := range v.Variations {
		if len(variation.Up) != size {
			return domain.NewShapeError(fmt.Sprintf("weight %s variation %sUp", v.Name, variation.Name), len(variation.Up), size)
		}
		if variation.Down != nil && len(variation.Down) != size {
			return domain.NewShapeError(fmt.Sprintf("weight %s variation %sDown", v.Name, variation.Name), len(variation.Down), size)
		}
	}
	return nil
}

// Provider computes a per-event weight array (and optional variations)
// for a batch. Implementations must be deterministic and side-effect-free;
// the resolution engine evaluates each provider once per batch and caches
// the result across categories.
type Provider interface {
	// Name returns the identifier the assignment tree references.
	Name() string

	// Compute produces the weight values for a batch under the given
	// run metadata (year, sample, working points).
	Compute(batch domain.EventBatch, meta domain.Metadata) (*Values, error)
}

// ComputeFunc is the functional form of a provider's computation.
type ComputeFunc func(batch domain.EventBatch, meta domain.Metadata) (*Values, error)

// custom adapts a user-supplied function to the Provider contract.
type custom struct {
	name string
	fn   ComputeFunc
}

// NewCustom wraps a user-supplied weight function under the given
// identifier. The function must honor the same contract as built-in
// providers: nominal array of batch length plus optional variations.
func NewCustom(name string, fn ComputeFunc) Provider {
	return &custom{name: name, fn: fn}
}

func (c *custom) Name() string { return c.name }

func (c *custom) Compute(batch domain.EventBatch, meta domain.Metadata) (*Values, error) {
	return c.fn(batch, meta)
}
