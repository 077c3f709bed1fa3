package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// BatchResult pairs a job with its outcome or error.
type BatchResult struct {
	Job     Job
	Outcome *Outcome
	Err     error
}

// RunBatch runs jobs concurrently with at most workers in flight. A failing
// job does not stop the others. Results are returned in job order.
func (p *Pipeline) RunBatch(ctx context.Context, jobs []Job, workers int) []BatchResult {
	results := make([]BatchResult, len(jobs))
	if workers <= 0 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			results[i].Job = job
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Outcome, results[i].Err = p.Run(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Info("batch complete", "jobs", len(jobs), "failed", failed, "workers", workers)
	return results
}

// BatchError joins the errors of failed results, or returns nil when every
// job succeeded.
func BatchError(results []BatchResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
