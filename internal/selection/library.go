package selection

import (
	"fmt"

	"github.com/hepstack/cutflow/internal/domain"
)

// Library resolves the cut names used in configuration files to cut
// objects defined in code. Like the weight registry, it is populated once
// before validation and read-only afterwards.
type Library struct {
	cuts  map[string]*domain.Cut
	names []string
}

// NewLibrary creates a cut library seeded with the passthrough cut.
func NewLibrary() *Library {
	lib := &Library{cuts: make(map[string]*domain.Cut)}
	// Registration of the seed cut cannot collide.
	_ = lib.Register("passthrough", domain.Passthrough)
	return lib
}

// Register adds a cut under a configuration-facing name.
func (l *Library) Register(name string, cut *domain.Cut) error {
	if _, ok := l.cuts[name]; ok {
		return fmt.Errorf("selection: cut %q: %w", name, domain.ErrDuplicateName)
	}
	l.cuts[name] = cut
	l.names = append(l.names, name)
	return nil
}

// Lookup resolves a configuration name to its cut.
func (l *Library) Lookup(name string) (*domain.Cut, bool) {
	cut, ok := l.cuts[name]
	return cut, ok
}

// Names returns the registered cut names in registration order.
func (l *Library) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}
