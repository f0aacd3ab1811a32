package weights

import (
	"fmt"

	"github.com/hepstack/cutflow/internal/domain"
)

// Built-in weight identifiers. Each is backed by correction data loaded
// by external collaborators and handed in through CatalogData; the
// numeric definitions themselves are opaque to this engine.
const (
	GenWeight    = "genWeight"
	Lumi         = "lumi"
	XS           = "XS"
	Pileup       = "pileup"
	SFEleReco    = "sf_ele_reco"
	SFEleID      = "sf_ele_id"
	SFEleTrigger = "sf_ele_trigger"
	SFMuID       = "sf_mu_id"
	SFMuIso      = "sf_mu_iso"
	SFBtag       = "sf_btag"
	SFJetPuID    = "sf_jet_puId"
)

// BuiltinNames returns the fixed catalog of built-in identifiers.
func BuiltinNames() []string {
	return []string{
		GenWeight, Lumi, XS, Pileup,
		SFEleReco, SFEleID, SFEleTrigger,
		SFMuID, SFMuIso,
		SFBtag, SFJetPuID,
	}
}

// Correction is a pre-loaded, opaque scale-factor evaluator. Correction
// tables are loaded before any batch enters the engine; Evaluate must not
// block on I/O.
type Correction interface {
	Evaluate(batch domain.EventBatch, meta domain.Metadata) (*Values, error)
}

// CorrectionFunc adapts a function to the Correction interface.
type CorrectionFunc func(batch domain.EventBatch, meta domain.Metadata) (*Values, error)

// Evaluate calls the wrapped function.
func (f CorrectionFunc) Evaluate(batch domain.EventBatch, meta domain.Metadata) (*Values, error) {
	return f(batch, meta)
}

// CatalogData carries the pre-loaded inputs backing the built-in
// providers: per-year luminosity, per-sample cross-sections, and the
// correction evaluators for the scale-factor weights.
type CatalogData struct {
	// Lumi maps year to the integrated-luminosity weight.
	Lumi map[string]float64

	// XSec maps sample name to the cross-section weight.
	XSec map[string]float64

	// GenWeightField is the batch field read by the generator-weight
	// provider. Defaults to "genWeight".
	GenWeightField string

	// Corrections maps built-in identifiers (pileup, sf_*) to their
	// pre-loaded evaluators. Identifiers without an entry are simply not
	// registered, so referencing them fails configuration validation.
	Corrections map[string]Correction
}

// NewBuiltinRegistry builds a registry holding every built-in provider
// the catalog data can back. Custom providers are registered on top by
// the caller.
func NewBuiltinRegistry(data CatalogData) (*Registry, error) {
	genField := data.GenWeightField
	if genField == "" {
		genField = "genWeight"
	}

	reg := NewRegistry()

	err := reg.Register(NewCustom(GenWeight, func(batch domain.EventBatch, _ domain.Metadata) (*Values, error) {
		col, err := batch.Floats(genField)
		if err != nil {
			return nil, err
		}
		nominal := make([]float64, len(col))
		copy(nominal, col)
		return &Values{Name: GenWeight, Nominal: nominal}, nil
	}))
	if err != nil {
		return nil, err
	}

	if data.Lumi != nil {
		err = reg.Register(NewCustom(Lumi, func(batch domain.EventBatch, meta domain.Metadata) (*Values, error) {
			w, ok := data.Lumi[meta.Year]
			if !ok {
				return nil, fmt.Errorf("weights: no luminosity for year %q", meta.Year)
			}
			return &Values{Name: Lumi, Nominal: constant(batch.Len(), w)}, nil
		}))
		if err != nil {
			return nil, err
		}
	}

	if data.XSec != nil {
		err = reg.Register(NewCustom(XS, func(batch domain.EventBatch, meta domain.Metadata) (*Values, error) {
			w, ok := data.XSec[meta.Sample]
			if !ok {
				return nil, fmt.Errorf("weights: no cross-section for sample %q", meta.Sample)
			}
			return &Values{Name: XS, Nominal: constant(batch.Len(), w)}, nil
		}))
		if err != nil {
			return nil, err
		}
	}

	for _, name := range BuiltinNames() {
		corr, ok := data.Corrections[name]
		if !ok {
			continue
		}
		if _, exists := reg.Lookup(name); exists {
			return nil, fmt.Errorf("weights: correction %q shadows a catalog provider: %w", name, domain.ErrDuplicateName)
		}
		err = reg.Register(NewCustom(name, corr.Evaluate))
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
