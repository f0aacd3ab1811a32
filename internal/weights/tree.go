package weights

// Scope is one half of the assignment tree: identifiers applying to every
// category plus identifiers applying only to named categories.
type Scope struct {
	Inclusive  []string
	ByCategory map[string][]string
}

// Tree is the 4-level additive override structure scoping weight (or
// variation) identifiers to sample/category pairs:
//
//	common.inclusive
//	common.bycategory[category]
//	bysample[sample].inclusive
//	bysample[sample].bycategory[category]
//
// Resolution is a precedence-free union across the four scopes: no level
// removes entries from another, and duplicate identifiers across levels
// apply once.
type Tree struct {
	Common   Scope
	BySample map[string]Scope
}

// Resolve returns the ordered, deduplicated identifier list applying to a
// sample/category pair. Order is the fixed scope order above, with each
// scope's declared order preserved and first occurrence winning.
func (t *Tree) Resolve(sample, category string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(ids []string) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	add(t.Common.Inclusive)
	add(t.Common.ByCategory[category])
	if scope, ok := t.BySample[sample]; ok {
		add(scope.Inclusive)
		add(scope.ByCategory[category])
	}
	return out
}

// Identifiers returns every identifier the tree references anywhere,
// deduplicated, for configuration-time completeness checks.
func (t *Tree) Identifiers() []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(ids []string) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	add(t.Common.Inclusive)
	for _, ids := range t.Common.ByCategory {
		add(ids)
	}
	for _, scope := range t.BySample {
		add(scope.Inclusive)
		for _, ids := range scope.ByCategory {
			add(ids)
		}
	}
	return out
}
