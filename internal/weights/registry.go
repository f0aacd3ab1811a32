package weights

import (
	"fmt"

	"github.com/hepstack/cutflow/internal/domain"
)

// Registry maps weight identifiers to evaluable providers. It is
// populated once at configuration time and read-only afterwards;
// completeness against the assignment tree is checked by the engine
// before any batch is processed.
type Registry struct {
	providers map[string]Provider
	names     []string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under its identifier. Registering the same
// identifier twice is rejected.
func (r *Registry) Register(p Provider) error {
	name := p.Name()
	if _, ok := r.providers[name]; ok {
		return fmt.Errorf("weights: provider %q: %w", name, domain.ErrDuplicateName)
	}
	r.providers[name] = p
	r.names = append(r.names, name)
	return nil
}

// Lookup resolves an identifier to its provider.
func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered identifiers in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
