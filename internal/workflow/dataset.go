// Package workflow orchestrates dataset processing with Temporal.
// A dataset run fans out one ProcessPartition activity per partition,
// tolerating individual partition failures, and folds the per-partition
// summaries into a dataset-level one. Workflow code uses workflow-safe
// APIs only; all I/O happens in activities.
package workflow

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/hepstack/cutflow/internal/activity"
	"github.com/hepstack/cutflow/internal/domain"
)

// ErrNoPartitions indicates a dataset request without any partitions.
var ErrNoPartitions = errors.New("dataset request has no partitions")

// DatasetRequest describes one dataset run.
type DatasetRequest struct {
	// Dataset names the run for logs and summaries.
	Dataset string `json:"dataset" validate:"required"`

	// Partitions lists the partitions to process.
	Partitions []activity.PartitionRef `json:"partitions" validate:"required,min=1,dive"`

	// Workers bounds batch parallelism inside each activity.
	Workers int `json:"workers,omitempty" validate:"min=0"`

	// ActivityTimeout caps a single partition activity. Zero selects a
	// ten minute default.
	ActivityTimeout time.Duration `json:"activity_timeout,omitempty"`
}

// Validate checks the request before any activity is scheduled.
func (r *DatasetRequest) Validate() error {
	if len(r.Partitions) == 0 {
		return ErrNoPartitions
	}
	return domain.Validate.Struct(r)
}

// PartitionFailure records a partition whose activity failed after
// exhausting retries.
type PartitionFailure struct {
	PartitionID string `json:"partition_id"`
	Sample      string `json:"sample"`
	Error       string `json:"error"`
}

// DatasetSummary aggregates the per-partition results of one run.
type DatasetSummary struct {
	Dataset string `json:"dataset"`

	// Partitions is the total number of partitions requested.
	Partitions int `json:"partitions"`

	// Events and FailedBatches are summed over completed partitions.
	Events        int `json:"events"`
	FailedBatches int `json:"failed_batches"`

	// Failed lists partitions whose activities failed outright.
	Failed []PartitionFailure `json:"failed,omitempty"`
}

// DatasetWorkflow runs every partition of a dataset through the
// ProcessPartition activity and aggregates the summaries. Activities run
// concurrently; a partition that fails after retries is recorded in the
// summary and does not abort its siblings. The workflow itself fails only
// on invalid input.
func DatasetWorkflow(ctx workflow.Context, req DatasetRequest) (*DatasetSummary, error) {
	// Version gate enables safe evolution of the fan-out logic.
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "dataset.v", workflow.DefaultVersion, currentVersion)

	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid dataset request",
			"Validation",
			err,
		)
	}

	timeout := req.ActivityTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	logger := workflow.GetLogger(ctx)
	logger.Info("dataset run started", "dataset", req.Dataset, "partitions", len(req.Partitions))

	var acts *activity.Activities
	futures := make([]workflow.Future, len(req.Partitions))
	for i, ref := range req.Partitions {
		futures[i] = workflow.ExecuteActivity(ctx, acts.ProcessPartition, activity.ProcessPartitionRequest{
			Partition: ref,
			Workers:   req.Workers,
		})
	}

	summary := &DatasetSummary{Dataset: req.Dataset, Partitions: len(req.Partitions)}
	for i, future := range futures {
		var result activity.ProcessPartitionResult
		if err := future.Get(ctx, &result); err != nil {
			ref := req.Partitions[i]
			logger.Error("partition failed", "partition_id", ref.ID, "error", err)
			summary.Failed = append(summary.Failed, PartitionFailure{
				PartitionID: ref.ID,
				Sample:      ref.Sample,
				Error:       err.Error(),
			})
			continue
		}
		summary.Events += result.Events
		summary.FailedBatches += result.FailedBatches
	}

	logger.Info("dataset run finished",
		"dataset", req.Dataset,
		"events", summary.Events,
		"failed_partitions", len(summary.Failed))
	return summary, nil
}
