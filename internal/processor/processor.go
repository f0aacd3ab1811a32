// Package processor runs the per-batch pipeline: predicate evaluation,
// categorization, weight resolution, and the per-subsample narrowing of
// exported products. Batches are processed independently; the processor
// itself holds only immutable configuration and is safe for concurrent
// use, with all per-batch state (cut cache, provider cache, masks) owned
// by the call.
package processor

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hepstack/cutflow/internal/config"
	"github.com/hepstack/cutflow/internal/domain"
	"github.com/hepstack/cutflow/internal/mask"
	"github.com/hepstack/cutflow/internal/selection"
	"github.com/hepstack/cutflow/internal/weights"
)

// Processor applies a built analysis to event batches.
type Processor struct {
	analysis *config.Analysis
	log      *slog.Logger
}

// New creates a processor over a built analysis. A nil logger falls back
// to the default slog logger.
func New(analysis *config.Analysis, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{analysis: analysis, log: log}
}

// CategoryNames returns the full category space of the configured selection.
func (p *Processor) CategoryNames() []string {
	return p.analysis.Selection.CategoryNames()
}

// Categorize evaluates the configured selection on a batch, returning
// one membership column per category.
func (p *Processor) Categorize(batch domain.EventBatch) (*mask.Mask, error) {
	return p.analysis.Selection.Apply(batch, selection.NewCache())
}

// SampleView is the exported product set of one subsample (or of the
// sample itself when no subsamples are configured): the subsample mask
// and, per category and modifier, the weight arrays narrowed to the
// events passing the subsample mask.
type SampleView struct {
	// Name is the subsample name (the sample name for the default view).
	Name string

	// Selected is the subsample membership over the full parent batch.
	Selected []bool

	// Categories holds per-category membership narrowed to Selected.
	Categories map[string][]bool

	// Weights maps category -> modifier -> total weights narrowed to
	// Selected. Modifier "nominal" is always present.
	Weights map[string]map[string][]float64
}

// BatchResult is the outcome of processing one batch.
type BatchResult struct {
	// BatchID identifies this batch in logs and error reports.
	BatchID string

	// Sample is the parent sample the batch belongs to.
	Sample string

	// Events is the batch length.
	Events int

	// Categories lists the produced category names in deterministic order.
	Categories []string

	// Cutflow counts, per category, the events of the full batch passing it.
	Cutflow map[string]int

	// Views holds one exported view per subsample, in configured order.
	Views []SampleView
}

// Process runs the full pipeline on one batch. Providers always evaluate
// on the full parent batch; only exported arrays are narrowed per
// subsample. Any schema, shape, or evaluation error aborts this batch
// and is returned with batch context attached; sibling batches are
// unaffected.
func (p *Processor) Process(batch domain.EventBatch, meta domain.Metadata) (*BatchResult, error) {
	if err := domain.Validate.Struct(&meta); err != nil {
		return nil, fmt.Errorf("batch metadata: %w", err)
	}

	batchID := uuid.NewString()
	cache := selection.NewCache()

	masks, err := p.analysis.Selection.Apply(batch, cache)
	if err != nil {
		return nil, fmt.Errorf("batch %s sample %s: categorize: %w", batchID, meta.Sample, err)
	}
	categories := p.analysis.Selection.CategoryNames()

	cutflow := make(map[string]int, len(categories))
	for _, category := range categories {
		n, err := masks.CountTrue(category)
		if err != nil {
			return nil, err
		}
		cutflow[category] = n
	}

	resolution := p.analysis.Engine.NewResolution(batch, meta)
	totals := make(map[string]*weights.CategoryWeights, len(categories))
	for _, category := range categories {
		cw, err := resolution.Weights(category)
		if err != nil {
			return nil, fmt.Errorf("batch %s sample %s category %s: %w", batchID, meta.Sample, category, err)
		}
		totals[category] = cw
	}

	subsamples := p.analysis.SubsamplesFor(meta.Sample)
	views := make([]SampleView, 0, len(subsamples))
	for _, sub := range subsamples {
		selected, err := sub.Mask(batch, cache)
		if err != nil {
			return nil, fmt.Errorf("batch %s sample %s: %w", batchID, meta.Sample, err)
		}

		view := SampleView{
			Name:       sub.Name,
			Selected:   selected,
			Categories: make(map[string][]bool, len(categories)),
			Weights:    make(map[string]map[string][]float64, len(categories)),
		}
		for _, category := range categories {
			col, err := masks.Get(category)
			if err != nil {
				return nil, err
			}
			view.Categories[category] = filterBools(col, selected)

			cw := totals[category]
			byModifier := make(map[string][]float64, len(cw.Modifiers())+1)
			byModifier[weights.NominalModifier] = filterFloats(cw.Nominal, selected)
			for _, modifier := range cw.Modifiers() {
				arr, err := cw.Varied(modifier)
				if err != nil {
					return nil, err
				}
				byModifier[modifier] = filterFloats(arr, selected)
			}
			view.Weights[category] = byModifier
		}
		views = append(views, view)
	}

	p.log.Debug("batch processed",
		"batch_id", batchID,
		"sample", meta.Sample,
		"events", batch.Len(),
		"categories", len(categories),
		"subsamples", len(views))

	return &BatchResult{
		BatchID:    batchID,
		Sample:     meta.Sample,
		Events:     batch.Len(),
		Categories: categories,
		Cutflow:    cutflow,
		Views:      views,
	}, nil
}

// filterBools narrows a column to the events passing the mask.
func filterBools(col, keep []bool) []bool {
	out := make([]bool, 0, len(col))
	for i, k := range keep {
		if k {
			out = append(out, col[i])
		}
	}
	return out
}

// filterFloats narrows an array to the events passing the mask.
func filterFloats(arr []float64, keep []bool) []float64 {
	out := make([]float64, 0, len(arr))
	for i, k := range keep {
		if k {
			out = append(out, arr[i])
		}
	}
	return out
}
