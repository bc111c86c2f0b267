package network

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchRunner runs independent jobs on a bounded number of goroutines
type BatchRunner struct {
	workers int
}

func NewBatchRunner(workers int) *BatchRunner {
	if workers <= 0 {
		workers = 1
	}
	return &BatchRunner{workers: workers}
}

// Run calls job for every index in [0, count) and returns the per-index
// errors in input order. A failing job does not stop the others. Jobs not
// yet started when ctx is done report ctx.Err().
func (b *BatchRunner) Run(ctx context.Context, count int, job func(ctx context.Context, i int) error) []error {
	errs := make([]error, count)

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = job(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}
