package worker

import (
	"fmt"
	"log/slog"

	"github.com/hepstack/cutflow/internal/activity"
	"github.com/hepstack/cutflow/internal/config"
	"github.com/hepstack/cutflow/internal/processor"
	"github.com/hepstack/cutflow/internal/selection"
	"github.com/hepstack/cutflow/internal/weights"
)

// InitializeProcessor loads and validates the analysis configuration and
// builds the batch processor over the given cut library and weight
// registry. Returns the processor for dependency injection rather than
// setting global state.
func InitializeProcessor(
	path string,
	cuts *selection.Library,
	registry *weights.Registry,
	log *slog.Logger,
) (*processor.Processor, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading analysis config: %w", err)
	}
	analysis, err := config.Build(cfg, cuts, registry)
	if err != nil {
		return nil, fmt.Errorf("building analysis: %w", err)
	}
	return processor.New(analysis, log), nil
}

// InitializeBatchSource creates the batch source activities read from.
// Returns an in-memory source for development/testing; production
// deployments provide a source backed by columnar file storage.
func InitializeBatchSource() activity.BatchSource {
	return activity.NewMemorySource()
}
