package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepstack/cutflow/internal/domain"
	"github.com/hepstack/cutflow/internal/selection"
	"github.com/hepstack/cutflow/internal/weights"
)

const cartesianYAML = `
samples: [ttbar, wjets]
categories:
  cartesian:
    axes:
      - name: Njets
        bins:
          - {label: 4j, cut: njets_eq4}
          - {label: 5j, cut: njets_eq5}
          - {label: 6j+, cut: njets_ge6}
      - name: Nbjets
        bins:
          - {label: 3b, cut: nbjets_eq3}
          - {label: 4b, cut: nbjets_eq4}
          - {label: 5b, cut: nbjets_eq5}
          - {label: 6b+, cut: nbjets_ge6}
    common:
      - {name: inclusive, cuts: [passthrough]}
      - {name: 4jets_40pt, cuts: [njets_ge4, lead_pt_40]}
subsamples:
  ttbar:
    - {name: ttbar_4j, cuts: [njets_ge4]}
weights:
  common:
    inclusive: [genWeight, lumi]
    bycategory:
      inclusive: [pileup]
  bysample:
    ttbar:
      inclusive: [pileup]
variations:
  weights:
    common:
      inclusive: [pileup]
`

func testLibrary(t *testing.T) *selection.Library {
	t.Helper()
	lib := selection.NewLibrary()

	intCut := func(name, field string, min, max int64) {
		cut := domain.NewCut(name, map[string]any{"field": field, "min": min, "max": max},
			func(batch domain.EventBatch, params map[string]any) ([]bool, error) {
				col, err := batch.Ints(params["field"].(string))
				if err != nil {
					return nil, err
				}
				lo, hi := params["min"].(int64), params["max"].(int64)
				out := make([]bool, len(col))
				for i, v := range col {
					out[i] = v >= lo && (hi < 0 || v <= hi)
				}
				return out, nil
			})
		require.NoError(t, lib.Register(name, cut))
	}

	intCut("njets_eq4", "njets", 4, 4)
	intCut("njets_eq5", "njets", 5, 5)
	intCut("njets_ge6", "njets", 6, -1)
	intCut("njets_ge4", "njets", 4, -1)
	intCut("nbjets_eq3", "nbjets", 3, 3)
	intCut("nbjets_eq4", "nbjets", 4, 4)
	intCut("nbjets_eq5", "nbjets", 5, 5)
	intCut("nbjets_ge6", "nbjets", 6, -1)

	leadPt := domain.NewCut("lead_pt_40", nil,
		func(batch domain.EventBatch, _ map[string]any) ([]bool, error) {
			col, err := batch.Floats("lead_jet_pt")
			if err != nil {
				return nil, err
			}
			out := make([]bool, len(col))
			for i, v := range col {
				out[i] = v > 40
			}
			return out, nil
		})
	require.NoError(t, lib.Register("lead_pt_40", leadPt))
	return lib
}

func testWeightRegistry(t *testing.T) *weights.Registry {
	t.Helper()
	reg, err := weights.NewBuiltinRegistry(weights.CatalogData{
		Lumi: map[string]float64{"2018": 59.7},
		XSec: map[string]float64{"ttbar": 831.76, "wjets": 61526.7},
		Corrections: map[string]weights.Correction{
			weights.Pileup: weights.CorrectionFunc(func(batch domain.EventBatch, _ domain.Metadata) (*weights.Values, error) {
				nominal := make([]float64, batch.Len())
				up := make([]float64, batch.Len())
				down := make([]float64, batch.Len())
				for i := range nominal {
					nominal[i], up[i], down[i] = 1.0, 1.04, 0.97
				}
				return &weights.Values{
					Name:       weights.Pileup,
					Nominal:    nominal,
					Variations: []weights.Variation{{Name: weights.Pileup, Up: up, Down: down}},
				}, nil
			}),
		},
	})
	require.NoError(t, err)
	return reg
}

func TestParse_Cartesian(t *testing.T) {
	cfg, err := Parse([]byte(cartesianYAML))
	require.NoError(t, err)

	require.NotNil(t, cfg.Categories.Cartesian)
	assert.Len(t, cfg.Categories.Cartesian.Axes, 2)
	assert.Equal(t, []string{"genWeight", "lumi"}, cfg.Weights.Common.Inclusive)
	assert.Equal(t, []string{"pileup"}, cfg.Weights.BySample["ttbar"].Inclusive)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("wieghts:\n  common: {}\n"))
	assert.Error(t, err)
}

func TestValidate_CleanConfig(t *testing.T) {
	cfg, err := Parse([]byte(cartesianYAML))
	require.NoError(t, err)

	issues := Validate(cfg, testLibrary(t), testWeightRegistry(t))
	assert.Empty(t, issues)
}

func TestValidate_CollectsEveryIssue(t *testing.T) {
	cfg, err := Parse([]byte(`
samples: [ttbar]
categories:
  standard:
    - {name: cat1, cuts: [no_such_cut]}
    - {name: cat1}
weights:
  common:
    inclusive: [sf_typo]
    bycategory:
      ghost_cat: [lumi]
  bysample:
    not_a_sample:
      inclusive: [genWeight]
`))
	require.NoError(t, err)

	issues := Validate(cfg, testLibrary(t), testWeightRegistry(t))
	require.NotEmpty(t, issues)

	text := make([]string, 0, len(issues))
	for _, issue := range issues {
		text = append(text, issue.Error())
	}
	joined := ""
	for _, s := range text {
		joined += s + "\n"
	}

	assert.Contains(t, joined, "cat1")          // duplicate category
	assert.Contains(t, joined, "no_such_cut")   // unknown cut
	assert.Contains(t, joined, "sf_typo")       // unknown weight
	assert.Contains(t, joined, "ghost_cat")     // unknown category scope
	assert.Contains(t, joined, "not_a_sample")  // unknown sample
	assert.GreaterOrEqual(t, len(issues), 5)
}

func TestValidate_StandardAndCartesianAreExclusive(t *testing.T) {
	cfg, err := Parse([]byte(`
categories:
  standard:
    - {name: a}
  cartesian:
    axes:
      - name: x
        bins:
          - {label: b, cut: passthrough}
weights:
  common: {}
`))
	require.NoError(t, err)

	issues := Validate(cfg, testLibrary(t), testWeightRegistry(t))
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Error(), "mutually exclusive")
}

func TestBuild_Cartesian(t *testing.T) {
	cfg, err := Parse([]byte(cartesianYAML))
	require.NoError(t, err)

	analysis, err := Build(cfg, testLibrary(t), testWeightRegistry(t))
	require.NoError(t, err)

	names := analysis.Selection.CategoryNames()
	assert.Len(t, names, 3*4+2)
	assert.Contains(t, names, "5j__4b")
	assert.Contains(t, names, "inclusive")

	subs := analysis.SubsamplesFor("ttbar")
	require.Len(t, subs, 1)
	assert.Equal(t, "ttbar_4j", subs[0].Name)

	// Unconfigured samples default to themselves under passthrough.
	subs = analysis.SubsamplesFor("wjets")
	require.Len(t, subs, 1)
	assert.Equal(t, "wjets", subs[0].Name)

	resolved := analysis.Engine.ResolveNames("ttbar", "inclusive")
	assert.Equal(t, []string{"genWeight", "lumi", "pileup"}, resolved)
}

func TestBuild_RejectsInvalidConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
categories:
  standard:
    - {name: a}
weights:
  common:
    inclusive: [sf_typo]
`))
	require.NoError(t, err)

	_, err = Build(cfg, testLibrary(t), testWeightRegistry(t))
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, cfgErr.Issues[0], domain.ErrUnknownWeight)
}

func TestBuild_DefaultBaselineCategory(t *testing.T) {
	cfg, err := Parse([]byte("weights:\n  common: {}\n"))
	require.NoError(t, err)

	analysis, err := Build(cfg, testLibrary(t), testWeightRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"baseline"}, analysis.Selection.CategoryNames())
}
