package activity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hepstack/cutflow/internal/domain"
	"github.com/hepstack/cutflow/internal/processor"
)

// PartitionRef identifies one partition of a dataset: a contiguous slice
// of events sharing the same sample metadata.
type PartitionRef struct {
	// ID names the partition within its dataset (file path, chunk key).
	ID string `json:"id" validate:"required"`

	// Sample is the sample every batch in the partition belongs to.
	Sample string `json:"sample" validate:"required"`

	Dataset string `json:"dataset,omitempty"`
	Year    string `json:"year,omitempty"`
	Era     string `json:"era,omitempty"`
	IsMC    bool   `json:"is_mc,omitempty"`
}

// Metadata converts the reference into batch metadata.
func (r PartitionRef) Metadata() domain.Metadata {
	return domain.Metadata{
		Sample:  r.Sample,
		Dataset: r.Dataset,
		Year:    r.Year,
		Era:     r.Era,
		IsMC:    r.IsMC,
	}
}

// ProcessPartitionRequest is the input to the ProcessPartition activity.
type ProcessPartitionRequest struct {
	Partition PartitionRef `json:"partition" validate:"required"`

	// Workers bounds batch-level parallelism inside the activity.
	// Zero means one goroutine per available CPU.
	Workers int `json:"workers,omitempty" validate:"min=0"`
}

// ProcessPartitionResult summarizes one processed partition. Per-batch
// failures are reported here rather than failing the activity: a broken
// batch must not take down its siblings, and re-running the whole
// partition would not fix a deterministic computation error.
type ProcessPartitionResult struct {
	PartitionID string `json:"partition_id"`
	Sample      string `json:"sample"`

	// Batches is the number of batches the source produced.
	Batches int `json:"batches"`

	// FailedBatches counts batches aborted by a computation error.
	FailedBatches int `json:"failed_batches"`

	// Events is the total event count across successful batches.
	Events int `json:"events"`

	// Categories is the category space applied to the partition.
	Categories []string `json:"categories"`

	// Failures carries one message per failed batch for diagnostics.
	Failures []string `json:"failures,omitempty"`
}

// BatchSource loads the event batches of a partition. Implementations
// wrap columnar file readers or remote object stores; transient failures
// should be returned as-is so the activity can classify them retryable.
type BatchSource interface {
	Batches(ctx context.Context, ref PartitionRef) ([]domain.EventBatch, error)
}

// MemorySource is an in-memory BatchSource keyed by partition ID, used in
// development and tests.
type MemorySource struct {
	mu         sync.RWMutex
	partitions map[string][]domain.EventBatch
}

// NewMemorySource returns an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{partitions: make(map[string][]domain.EventBatch)}
}

// Add appends batches to a partition.
func (s *MemorySource) Add(id string, batches ...domain.EventBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitions[id] = append(s.partitions[id], batches...)
}

// Batches implements BatchSource.
func (s *MemorySource) Batches(_ context.Context, ref PartitionRef) ([]domain.EventBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	batches, ok := s.partitions[ref.ID]
	if !ok {
		return nil, fmt.Errorf("partition %q: %w", ref.ID, ErrUnknownPartition)
	}
	return batches, nil
}

// Activities bundles the batch pipeline behind Temporal activity methods.
type Activities struct {
	source BatchSource
	proc   *processor.Processor
}

// NewActivities creates the activity set over a batch source and a built
// processor.
func NewActivities(source BatchSource, proc *processor.Processor) *Activities {
	return &Activities{source: source, proc: proc}
}

// ProcessPartition loads one partition from the source and runs the full
// batch pipeline over it. Input validation failures and unknown
// partitions are non-retryable; source failures are retryable under the
// workflow's retry policy. Per-batch computation errors are recorded in
// the result, never retried.
func (a *Activities) ProcessPartition(
	ctx context.Context,
	req ProcessPartitionRequest,
) (*ProcessPartitionResult, error) {
	if err := domain.Validate.Struct(&req); err != nil {
		return nil, nonRetryable("Validation", fmt.Errorf("%w: %w", ErrActivityValidation, err),
			"invalid partition request")
	}

	ref := req.Partition
	SafeLog(ctx, "processing partition", "partition_id", ref.ID, "sample", ref.Sample)

	batches, err := a.source.Batches(ctx, ref)
	if err != nil {
		if errors.Is(err, ErrUnknownPartition) {
			return nil, nonRetryable("UnknownPartition", err, "partition not found")
		}
		return nil, retryable("Source", fmt.Errorf("%w: %w", ErrSourceUnavailable, err),
			"loading partition batches failed")
	}

	meta := ref.Metadata()
	in := make(chan processor.Batch)
	go func() {
		defer close(in)
		for i, batch := range batches {
			RecordHeartbeat(ctx, ref.ID, i)
			select {
			case in <- processor.Batch{Events: batch, Meta: meta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	outcomes, err := a.proc.Run(ctx, in, req.Workers)
	if err != nil {
		// Only context cancellation reaches here; let Temporal see it as-is.
		return nil, err
	}

	result := &ProcessPartitionResult{
		PartitionID: ref.ID,
		Sample:      ref.Sample,
		Batches:     len(outcomes),
		Categories:  a.proc.CategoryNames(),
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			result.FailedBatches++
			result.Failures = append(result.Failures, outcome.Err.Error())
			continue
		}
		result.Events += outcome.Result.Events
	}

	SafeLog(ctx, "partition processed",
		"partition_id", ref.ID,
		"batches", result.Batches,
		"failed_batches", result.FailedBatches,
		"events", result.Events)
	return result, nil
}
