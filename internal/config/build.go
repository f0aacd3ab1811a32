package config

import (
	"fmt"

	"github.com/hepstack/cutflow/internal/domain"
	"github.com/hepstack/cutflow/internal/selection"
	"github.com/hepstack/cutflow/internal/weights"
)

// Analysis is the immutable object tree built from a validated
// configuration: the categorization, the per-sample subsamples, and the
// weight-resolution engine. It is constructed once per run and shared
// read-only across batch workers.
type Analysis struct {
	Selection  selection.Selection
	Subsamples map[string][]selection.Subsample
	Engine     *weights.Engine
}

// SubsamplesFor returns the subsample list for a sample, defaulting to
// the sample itself under a passthrough cut when none is configured.
func (a *Analysis) SubsamplesFor(sample string) []selection.Subsample {
	if subs, ok := a.Subsamples[sample]; ok {
		return subs
	}
	return selection.DefaultSubsamples(sample)
}

// Build validates the configuration and constructs the analysis objects.
// Any validation issue aborts the build with a ConfigError listing every
// problem found.
func Build(cfg *Config, cuts *selection.Library, registry *weights.Registry) (*Analysis, error) {
	if issues := Validate(cfg, cuts, registry); len(issues) > 0 {
		return nil, &domain.ConfigError{Issues: issues}
	}

	sel, err := buildSelection(cfg, cuts)
	if err != nil {
		return nil, err
	}

	subsamples := make(map[string][]selection.Subsample, len(cfg.Subsamples))
	for sample, entries := range cfg.Subsamples {
		subs := make([]selection.Subsample, 0, len(entries))
		for _, entry := range entries {
			subCuts, err := resolveCuts(entry.Cuts, cuts)
			if err != nil {
				return nil, fmt.Errorf("subsample %q: %w", entry.Name, err)
			}
			subs = append(subs, selection.Subsample{Name: entry.Name, Cuts: subCuts})
		}
		subsamples[sample] = subs
	}

	engine, err := weights.NewEngine(registry, buildTree(&cfg.Weights), buildTree(&cfg.Variations.Weights))
	if err != nil {
		return nil, err
	}

	return &Analysis{Selection: sel, Subsamples: subsamples, Engine: engine}, nil
}

func buildSelection(cfg *Config, cuts *selection.Library) (selection.Selection, error) {
	cats := cfg.Categories
	switch {
	case cats.Cartesian != nil:
		axes := make([]selection.MultiCut, 0, len(cats.Cartesian.Axes))
		for _, axis := range cats.Cartesian.Axes {
			bins := make([]selection.Bin, 0, len(axis.Bins))
			for _, bin := range axis.Bins {
				cut, _ := cuts.Lookup(bin.Cut)
				bins = append(bins, selection.Bin{Label: bin.Label, Cut: cut})
			}
			axes = append(axes, selection.MultiCut{Name: axis.Name, Bins: bins})
		}
		var common *selection.Standard
		if len(cats.Cartesian.Common) > 0 {
			var err error
			common, err = buildStandard(cats.Cartesian.Common, cuts)
			if err != nil {
				return nil, err
			}
		}
		return selection.NewCartesian(axes, common)

	case len(cats.Standard) > 0:
		return buildStandard(cats.Standard, cuts)

	default:
		// No categorization configured: single all-true baseline.
		return selection.NewStandard([]selection.Category{{Name: "baseline"}})
	}
}

func buildStandard(entries []CategoryEntry, cuts *selection.Library) (*selection.Standard, error) {
	categories := make([]selection.Category, 0, len(entries))
	for _, entry := range entries {
		catCuts, err := resolveCuts(entry.Cuts, cuts)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", entry.Name, err)
		}
		categories = append(categories, selection.Category{Name: entry.Name, Cuts: catCuts})
	}
	return selection.NewStandard(categories)
}

func resolveCuts(names []string, cuts *selection.Library) ([]*domain.Cut, error) {
	out := make([]*domain.Cut, 0, len(names))
	for _, name := range names {
		cut, ok := cuts.Lookup(name)
		if !ok {
			// Validate reports these first; this guards direct Build misuse.
			return nil, fmt.Errorf("cut %q: %w", name, domain.ErrUnknownCut)
		}
		out = append(out, cut)
	}
	return out, nil
}

func buildTree(entry *TreeEntry) *weights.Tree {
	tree := &weights.Tree{
		Common: weights.Scope{
			Inclusive:  entry.Common.Inclusive,
			ByCategory: entry.Common.ByCategory,
		},
	}
	if len(entry.BySample) > 0 {
		tree.BySample = make(map[string]weights.Scope, len(entry.BySample))
		for sample, scope := range entry.BySample {
			tree.BySample[sample] = weights.Scope{
				Inclusive:  scope.Inclusive,
				ByCategory: scope.ByCategory,
			}
		}
	}
	return tree
}
