// Package runner ties the generation pipeline together: resolve assets
// once, schedule render jobs, assemble and persist the dataset.
package runner

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/internal/assets"
	"github.com/tendant/simple-render-pipeline/internal/config"
	"github.com/tendant/simple-render-pipeline/internal/dataset"
	"github.com/tendant/simple-render-pipeline/internal/ledger"
	"github.com/tendant/simple-render-pipeline/internal/metrics"
	"github.com/tendant/simple-render-pipeline/internal/render"
	"github.com/tendant/simple-render-pipeline/internal/scheduler"
	"github.com/tendant/simple-render-pipeline/internal/tasks"
	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

// Summary reports one task kind's generation outcome.
type Summary struct {
	Kind      string
	Total     int
	Succeeded int
	Failed    int
	Written   int
}

// Runner executes generation runs. Asset resolution and renderer discovery
// happen once at construction; the resulting pool is immutable and shared
// read-only by every job.
type Runner struct {
	cfg     *config.Config
	runID   string
	pool    []string
	invoker *render.Invoker
	tracker *ledger.Tracker
	log     *zerolog.Logger
}

// New resolves the asset pool and locates the renderer binary. Both are
// fatal on failure: nothing is scheduled without usable assets and a
// renderer.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Runner, error) {
	metrics.MustRegister()

	binary, err := render.FindRenderer(cfg.Render.BinaryPath)
	if err != nil {
		return nil, err
	}

	var resolver assets.Resolver
	if cfg.Resolver.URL != "" {
		resolver = assets.NewHTTPResolver(cfg.Resolver.URL)
	}
	pool, err := assets.NewLoader(resolver, logger).Load(ctx, cfg.ObjectList)
	if err != nil {
		return nil, err
	}
	metrics.AddAssetsResolved(len(pool))

	var tracker *ledger.Tracker
	if cfg.Ledger.DatabaseURL != "" {
		tracker, err = ledger.NewTracker(cfg.Ledger.DatabaseURL)
		if err != nil {
			return nil, err
		}
	}

	runID := uuid.New().String()
	runLog := logger.With().Str("run_id", runID).Logger()
	runLog.Info().
		Str("renderer", binary).
		Int("assets", len(pool)).
		Msg("runner initialized")

	return &Runner{
		cfg:     cfg,
		runID:   runID,
		pool:    pool,
		invoker: render.NewInvoker(binary, cfg.Render.ScriptPath, &runLog),
		tracker: tracker,
		log:     &runLog,
	}, nil
}

// Run generates the configured task kind, or all kinds with the sample
// count split evenly when the task is "all".
func (r *Runner) Run(ctx context.Context) ([]Summary, error) {
	if r.cfg.Task != "all" {
		s, err := r.Generate(ctx, r.cfg.Task, r.cfg.NumSamples)
		if err != nil {
			return nil, err
		}
		return []Summary{s}, nil
	}

	perKind := r.cfg.NumSamples / len(pipeline.TaskKinds)
	summaries := make([]Summary, 0, len(pipeline.TaskKinds))
	for _, kind := range pipeline.TaskKinds {
		s, err := r.Generate(ctx, kind, perKind)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Generate runs n jobs of one task kind to completion and persists one
// dataset record per job, placeholders included.
func (r *Runner) Generate(ctx context.Context, kindName string, n int) (Summary, error) {
	kind, err := tasks.Get(kindName)
	if err != nil {
		return Summary{}, err
	}

	workDir, err := os.MkdirTemp("", kindName+"_")
	if err != nil {
		return Summary{}, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	params := kind.RenderParams(r.cfg.Resolution, r.cfg.FPS, r.cfg.Duration)
	rng := rand.New(rand.NewSource(r.cfg.Seed))

	specs := make([]pipeline.JobSpec, 0, n)
	for i := 0; i < n; i++ {
		jobID := fmt.Sprintf("%s_%06d", kindName, i)
		specs = append(specs, pipeline.JobSpec{
			JobID:        jobID,
			Kind:         kindName,
			RenderParams: params,
			Objects:      render.SampleObjects(rng, r.pool, kind.NumObjects),
			OutputDir:    filepath.Join(workDir, jobID),
			Seed:         rng.Int63(),
		})
	}

	retrier := render.NewRetrier(r.invoker, r.pool, render.RetryConfig{
		MinVideoSize: r.cfg.Render.MinVideoSize,
		MaxRetries:   r.cfg.Render.MaxRetries,
		Timeout:      r.cfg.Render.Timeout,
	}, r.log)

	results := scheduler.New(r.cfg.Workers, retrier, r.log).Run(ctx, specs)
	r.recordOutcomes(ctx, results)

	pairs := dataset.NewAssembler(r.cfg.Resolution, r.log).Assemble(results)
	written, err := dataset.NewWriter(r.cfg.OutputDir, r.log).WriteDataset(pairs)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Kind: kindName, Total: n, Written: written}
	for _, res := range results {
		if res.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary, nil
}

// recordOutcomes appends job outcomes to the run ledger when configured.
// Ledger failures never fail the run.
func (r *Runner) recordOutcomes(ctx context.Context, results []pipeline.JobResult) {
	if r.tracker == nil {
		return
	}
	for _, res := range results {
		if err := r.tracker.Record(ctx, r.runID, res.JobID, res.Kind, res.Success, res.Attempts); err != nil {
			r.log.Warn().Err(err).Str("job_id", res.JobID).Msg("ledger record failed")
		}
	}
}

// RunID identifies this generation run in logs and the ledger.
func (r *Runner) RunID() string {
	return r.runID
}

// Close releases the ledger connection when one is open.
func (r *Runner) Close() error {
	if r.tracker != nil {
		return r.tracker.Close()
	}
	return nil
}
