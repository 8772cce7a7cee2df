package render

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/internal/metrics"
	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

// JobInvoker is the subprocess boundary the retry loop drives.
type JobInvoker interface {
	Invoke(ctx context.Context, params map[string]any, objectPaths []string, outputDir string, timeout time.Duration) bool
}

// RetryConfig bounds one job's retry loop.
type RetryConfig struct {
	// MinVideoSize is the minimum byte size of the output video for an
	// attempt to count as valid. Optional. Defaults to 50_000.
	MinVideoSize int64

	// MaxRetries is the attempt budget per job. Optional. Defaults to 3.
	MaxRetries int

	// Timeout is the wall-clock budget per attempt, not per job.
	// Optional. Defaults to 10 minutes.
	Timeout time.Duration
}

// WithDefaults fills in default values for optional fields
func (c *RetryConfig) WithDefaults() {
	if c.MinVideoSize == 0 {
		c.MinVideoSize = 50_000
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Minute
	}
}

// Retrier runs one render job to a terminal result. Render failures are
// frequently asset-specific rather than systemic, so each retry redraws a
// fresh object subset from the shared pool instead of repeating the same
// call.
type Retrier struct {
	invoker JobInvoker
	pool    []string // shared read-only asset pool
	cfg     RetryConfig
	log     *zerolog.Logger
}

// NewRetrier creates a retrier over the shared asset pool.
func NewRetrier(invoker JobInvoker, pool []string, cfg RetryConfig, logger *zerolog.Logger) *Retrier {
	cfg.WithDefaults()
	retLog := logger.With().Str("component", "RetryingRenderJob").Logger()
	return &Retrier{invoker: invoker, pool: pool, cfg: cfg, log: &retLog}
}

// Run executes the job's retry loop and always returns exactly one result.
// No error escapes; exhaustion is a failed result.
func (r *Retrier) Run(ctx context.Context, spec pipeline.JobSpec) pipeline.JobResult {
	result := pipeline.JobResult{
		JobID:     spec.JobID,
		Kind:      spec.Kind,
		OutputDir: spec.OutputDir,
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	objects := spec.Objects
	if len(objects) == 0 {
		r.log.Error().Str("job_id", spec.JobID).Msg("job has no object subset")
		return result
	}

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		result.Attempts = attempt

		if err := clearDir(spec.OutputDir); err != nil {
			r.log.Error().Err(err).Str("job_id", spec.JobID).Msg("failed to clear output dir")
			return result
		}

		metrics.IncAttempt(spec.Kind)
		start := time.Now()
		ok := r.invoker.Invoke(ctx, spec.RenderParams, objects, spec.OutputDir, r.cfg.Timeout)
		metrics.ObserveAttempt(spec.Kind, time.Since(start), ok)

		if ok && r.validArtifact(spec.OutputDir) {
			result.Success = true
			result.Artifacts = &pipeline.Artifacts{
				FirstFrame: filepath.Join(spec.OutputDir, FirstFrameFileName),
				FinalFrame: filepath.Join(spec.OutputDir, FinalFrameFileName),
				Video:      filepath.Join(spec.OutputDir, VideoFileName),
			}
			return result
		}

		r.log.Debug().
			Str("job_id", spec.JobID).
			Int("attempt", attempt).
			Int("max_retries", r.cfg.MaxRetries).
			Msg("render attempt failed")

		if ctx.Err() != nil {
			return result
		}

		// Redraw a fresh subset of the same cardinality for the next
		// attempt. Draws are independent across attempts.
		if attempt < r.cfg.MaxRetries && len(r.pool) > 0 {
			objects = SampleObjects(rng, r.pool, len(objects))
		}
	}

	return result
}

// SampleObjects draws k distinct paths from the pool, fewer when the pool
// is smaller than k.
func SampleObjects(rng *rand.Rand, pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	out := make([]string, 0, k)
	for _, i := range rng.Perm(len(pool))[:k] {
		out = append(out, pool[i])
	}
	return out
}

// validArtifact treats the output video's byte size as a cheap proxy for a
// non-truncated render. A success signal alone is not trusted.
func (r *Retrier) validArtifact(outputDir string) bool {
	info, err := os.Stat(filepath.Join(outputDir, VideoFileName))
	return err == nil && info.Size() > r.cfg.MinVideoSize
}

// clearDir empties the job output directory, creating it if needed. Each
// job's directory is exclusive to that job.
func clearDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
