// Package scheduler fans out independent render jobs across a bounded
// worker pool and collects results in completion order.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/internal/metrics"
	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

// progressEvery controls how often a progress line is emitted. The final
// completion always emits one.
const progressEvery = 10

// JobRunner runs one job to its terminal result. Retry is entirely inside
// the runner; the scheduler never re-submits.
type JobRunner interface {
	Run(ctx context.Context, spec pipeline.JobSpec) pipeline.JobResult
}

// Scheduler executes N independent jobs on min(Workers, N) workers. Each
// worker owns at most one renderer subprocess at a time; jobs share no
// mutable state, so no locking beyond result collection is needed.
type Scheduler struct {
	workers int
	runner  JobRunner
	log     *zerolog.Logger
}

// New creates a scheduler with the given worker concurrency bound.
func New(workers int, runner JobRunner, logger *zerolog.Logger) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	schedLog := logger.With().Str("component", "JobScheduler").Logger()
	return &Scheduler{workers: workers, runner: runner, log: &schedLog}
}

// Run executes every spec to completion and returns exactly one result per
// spec, in completion order. Per-job failures are absorbed into the result
// stream; nothing here halts the batch.
func (s *Scheduler) Run(ctx context.Context, specs []pipeline.JobSpec) []pipeline.JobResult {
	n := len(specs)
	if n == 0 {
		return nil
	}
	workers := s.workers
	if workers > n {
		workers = n
	}

	jobs := make(chan pipeline.JobSpec)
	out := make(chan pipeline.JobResult)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for spec := range jobs {
				out <- s.runner.Run(ctx, spec)
			}
		}()
	}

	// Every spec is submitted even after cancellation: the runner fails
	// fast once the context is gone, so each job still yields a result.
	go func() {
		defer close(jobs)
		for _, spec := range specs {
			jobs <- spec
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	s.log.Info().Int("jobs", n).Int("workers", workers).Msg("dispatching render jobs")

	results := make([]pipeline.JobResult, 0, n)
	ok, fail := 0, 0
	start := time.Now()
	for res := range out {
		if res.Success {
			ok++
		} else {
			fail++
		}
		metrics.IncJobResult(res.Kind, res.Success)
		results = append(results, res)

		done := ok + fail
		if done%progressEvery == 0 || done == n {
			s.reportProgress(done, n, ok, fail, start)
		}
	}

	s.log.Info().
		Int("ok", ok).
		Int("fail", fail).
		Dur("elapsed", time.Since(start)).
		Msg("all jobs complete")
	return results
}

func (s *Scheduler) reportProgress(done, total, ok, fail int, start time.Time) {
	elapsed := time.Since(start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(done) / elapsed.Seconds()
	}
	eta := time.Duration(0)
	if rate > 0 {
		eta = time.Duration(float64(total-done) / rate * float64(time.Second))
	}
	s.log.Info().
		Int("done", done).
		Int("total", total).
		Int("ok", ok).
		Int("fail", fail).
		Float64("rate_per_sec", rate).
		Dur("eta", eta).
		Msg("progress")
}
