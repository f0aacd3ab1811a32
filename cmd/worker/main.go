// Command worker runs a Temporal worker serving dataset workflows and
// partition-processing activities.
package main

import (
	"flag"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/hepstack/cutflow/internal/activity"
	"github.com/hepstack/cutflow/internal/selection"
	"github.com/hepstack/cutflow/internal/weights"
	"github.com/hepstack/cutflow/internal/worker"
)

func main() {
	var (
		hostPort   = flag.String("temporal", client.DefaultHostPort, "Temporal frontend host:port")
		namespace  = flag.String("namespace", client.DefaultNamespace, "Temporal namespace")
		taskQueue  = flag.String("task-queue", worker.TaskQueue, "Task queue to poll")
		configPath = flag.String("config", "analysis.yaml", "Path to the analysis configuration file")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	if err := run(*hostPort, *namespace, *taskQueue, *configPath, log); err != nil {
		log.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(hostPort, namespace, taskQueue, configPath string, log *slog.Logger) error {
	// The analysis catalog compiled into this binary: built-in cuts and
	// weights only. Analyses with custom cuts or providers build their own
	// worker binary and register them here.
	cuts := selection.NewLibrary()
	registry, err := weights.NewBuiltinRegistry(weights.CatalogData{})
	if err != nil {
		return err
	}

	proc, err := worker.InitializeProcessor(configPath, cuts, registry, log)
	if err != nil {
		return err
	}
	acts := activity.NewActivities(worker.InitializeBatchSource(), proc)

	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	w := sdkworker.New(c, taskQueue, sdkworker.Options{})
	worker.RegisterAll(w, acts)

	log.Info("worker starting", "task_queue", taskQueue, "namespace", namespace)
	return w.Run(sdkworker.InterruptCh())
}
