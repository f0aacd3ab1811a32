package processor

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hepstack/cutflow/internal/domain"
)

// Batch pairs one chunk of events with its metadata for the runner.
type Batch struct {
	Events domain.EventBatch
	Meta   domain.Metadata
}

// Outcome is the per-batch result of a parallel run: either a result or
// the error that aborted that batch. A failed batch never blocks or
// corrupts its siblings; computation errors are deterministic and are
// not retried.
type Outcome struct {
	Sample string
	Result *BatchResult
	Err    error
}

// Run processes batches from the channel with up to workers concurrent
// goroutines, each owning its per-batch state. Outcomes are returned in
// completion order; there is no ordering guarantee between batches, as
// downstream reducers aggregate commutatively.
//
// Run stops early only on context cancellation, which it returns after
// draining in-flight work.
func (p *Processor) Run(ctx context.Context, batches <-chan Batch, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu       sync.Mutex
		outcomes []Outcome
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return outcomes, ctx.Err()
		case batch, ok := <-batches:
			if !ok {
				if err := g.Wait(); err != nil {
					return outcomes, err
				}
				return outcomes, nil
			}
			g.Go(func() error {
				result, err := p.Process(batch.Events, batch.Meta)
				if err != nil {
					p.log.Error("batch aborted", "sample", batch.Meta.Sample, "error", err)
				}
				mu.Lock()
				outcomes = append(outcomes, Outcome{Sample: batch.Meta.Sample, Result: result, Err: err})
				mu.Unlock()
				return nil
			})
		}
	}
}
