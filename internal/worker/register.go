// Package worker exposes helpers to register workflows/activities with a
// Temporal worker, plus the initialization that builds their dependencies
// during startup.
package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/hepstack/cutflow/internal/activity"
	"github.com/hepstack/cutflow/internal/workflow"
)

// TaskQueue is the default task queue dataset runs are scheduled on.
const TaskQueue = "cutflow"

// RegisterAll registers all workflows and activities with the Temporal
// worker. Must be called once during worker initialization, before the
// worker starts; registration is not thread-safe.
func RegisterAll(w sdkworker.Worker, acts *activity.Activities) {
	w.RegisterWorkflow(workflow.DatasetWorkflow)
	w.RegisterActivity(acts.ProcessPartition)
}
