package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/hepstack/cutflow/internal/domain"
	"github.com/hepstack/cutflow/internal/selection"
	"github.com/hepstack/cutflow/internal/weights"
)

// Validate checks a configuration against the cut library and the weight
// registry, returning every detected issue. An empty result means the
// configuration can be built and no batch will fail for configuration
// reasons. Callers must not process any batch when issues are returned.
func Validate(cfg *Config, cuts *selection.Library, registry *weights.Registry) []error {
	var issues []error

	if err := domain.Validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				issues = append(issues, fmt.Errorf("field %s fails %q", ve.Namespace(), ve.Tag()))
			}
		} else {
			issues = append(issues, err)
		}
	}

	categories, catIssues := collectCategoryNames(cfg)
	issues = append(issues, catIssues...)

	issues = append(issues, checkCutNames(cfg, cuts)...)
	issues = append(issues, checkTree("weights", &cfg.Weights, cfg, categories, registry)...)
	issues = append(issues, checkTree("variations", &cfg.Variations.Weights, cfg, categories, registry)...)
	issues = append(issues, checkSubsamples(cfg, cuts)...)

	return issues
}

// collectCategoryNames enumerates the full category space the selection
// will produce, reporting duplicates along the way.
func collectCategoryNames(cfg *Config) (map[string]struct{}, []error) {
	var issues []error
	names := make(map[string]struct{})
	add := func(name, where string) {
		if _, ok := names[name]; ok {
			issues = append(issues, fmt.Errorf("%s: category %q declared twice", where, name))
			return
		}
		names[name] = struct{}{}
	}

	cats := cfg.Categories
	if len(cats.Standard) > 0 && cats.Cartesian != nil {
		issues = append(issues, fmt.Errorf("categories: standard and cartesian are mutually exclusive"))
	}

	switch {
	case cats.Cartesian != nil:
		for _, axis := range cats.Cartesian.Axes {
			seen := make(map[string]struct{}, len(axis.Bins))
			for _, bin := range axis.Bins {
				if _, ok := seen[bin.Label]; ok {
					issues = append(issues, fmt.Errorf("axis %q: bin %q declared twice", axis.Name, bin.Label))
				}
				seen[bin.Label] = struct{}{}
			}
		}
		for _, name := range compoundNames(cats.Cartesian.Axes) {
			add(name, "cartesian")
		}
		for _, cat := range cats.Cartesian.Common {
			add(cat.Name, "cartesian common")
		}
	case len(cats.Standard) > 0:
		for _, cat := range cats.Standard {
			add(cat.Name, "standard")
		}
	default:
		names["baseline"] = struct{}{}
	}
	return names, issues
}

// compoundNames enumerates compound category names without building the
// selection, mirroring the cartesian naming order.
func compoundNames(axes []AxisEntry) []string {
	names := []string{""}
	for a, axis := range axes {
		next := make([]string, 0, len(names)*len(axis.Bins))
		for _, prefix := range names {
			for _, bin := range axis.Bins {
				if a == 0 {
					next = append(next, bin.Label)
				} else {
					next = append(next, prefix+selection.Separator+bin.Label)
				}
			}
		}
		names = next
	}
	if len(axes) == 0 {
		return nil
	}
	return names
}

func checkCutNames(cfg *Config, cuts *selection.Library) []error {
	var issues []error
	check := func(names []string, where string) {
		for _, name := range names {
			if _, ok := cuts.Lookup(name); !ok {
				issues = append(issues, fmt.Errorf("%s: cut %q: %w", where, name, domain.ErrUnknownCut))
			}
		}
	}

	for _, cat := range cfg.Categories.Standard {
		check(cat.Cuts, fmt.Sprintf("category %q", cat.Name))
	}
	if cart := cfg.Categories.Cartesian; cart != nil {
		for _, axis := range cart.Axes {
			for _, bin := range axis.Bins {
				check([]string{bin.Cut}, fmt.Sprintf("axis %q bin %q", axis.Name, bin.Label))
			}
		}
		for _, cat := range cart.Common {
			check(cat.Cuts, fmt.Sprintf("common category %q", cat.Name))
		}
	}
	return issues
}

func checkTree(kind string, tree *TreeEntry, cfg *Config, categories map[string]struct{}, registry *weights.Registry) []error {
	var issues []error

	checkIDs := func(ids []string, where string) {
		for _, id := range ids {
			if _, ok := registry.Lookup(id); !ok {
				issues = append(issues, fmt.Errorf("%s %s: identifier %q: %w", kind, where, id, domain.ErrUnknownWeight))
			}
		}
	}
	checkScope := func(scope *ScopeEntry, where string) {
		checkIDs(scope.Inclusive, where+" inclusive")
		for _, cat := range sortedKeys(scope.ByCategory) {
			if _, ok := categories[cat]; !ok {
				issues = append(issues, fmt.Errorf("%s %s: %w %q", kind, where, domain.ErrUnknownCategory, cat))
			}
			checkIDs(scope.ByCategory[cat], fmt.Sprintf("%s bycategory %q", where, cat))
		}
	}

	checkScope(&tree.Common, "common")
	knownSamples := sampleSet(cfg)
	for _, sample := range sortedKeys(tree.BySample) {
		if knownSamples != nil {
			if _, ok := knownSamples[sample]; !ok {
				issues = append(issues, fmt.Errorf("%s bysample: unknown sample %q", kind, sample))
			}
		}
		scope := tree.BySample[sample]
		checkScope(&scope, fmt.Sprintf("bysample %q", sample))
	}
	return issues
}

func checkSubsamples(cfg *Config, cuts *selection.Library) []error {
	var issues []error
	knownSamples := sampleSet(cfg)

	for _, sample := range sortedKeys(cfg.Subsamples) {
		if knownSamples != nil {
			if _, ok := knownSamples[sample]; !ok {
				issues = append(issues, fmt.Errorf("subsamples: unknown sample %q", sample))
			}
		}
		seen := make(map[string]struct{})
		for _, sub := range cfg.Subsamples[sample] {
			if _, ok := seen[sub.Name]; ok {
				issues = append(issues, fmt.Errorf("subsamples of %q: %q declared twice", sample, sub.Name))
			}
			seen[sub.Name] = struct{}{}
			for _, name := range sub.Cuts {
				if _, ok := cuts.Lookup(name); !ok {
					issues = append(issues, fmt.Errorf("subsample %q: cut %q: %w", sub.Name, name, domain.ErrUnknownCut))
				}
			}
		}
	}
	return issues
}

// sampleSet returns the declared sample set, or nil when the
// configuration does not pin one (bysample scopes are then unrestricted).
func sampleSet(cfg *Config) map[string]struct{} {
	if len(cfg.Samples) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(cfg.Samples))
	for _, s := range cfg.Samples {
		out[s] = struct{}{}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
