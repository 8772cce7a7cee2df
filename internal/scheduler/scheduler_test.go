package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

// fakeRunner succeeds or fails per job and tracks worker concurrency and
// output directory usage.
type fakeRunner struct {
	succeed func(spec pipeline.JobSpec) bool
	delay   time.Duration

	mu       sync.Mutex
	dirSeen  map[string]int
	inflight int32
	maxSeen  int32
}

func (f *fakeRunner) Run(ctx context.Context, spec pipeline.JobSpec) pipeline.JobResult {
	cur := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		prev := atomic.LoadInt32(&f.maxSeen)
		if cur <= prev || atomic.CompareAndSwapInt32(&f.maxSeen, prev, cur) {
			break
		}
	}

	f.mu.Lock()
	if f.dirSeen == nil {
		f.dirSeen = map[string]int{}
	}
	f.dirSeen[spec.OutputDir]++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	ok := f.succeed == nil || f.succeed(spec)
	return pipeline.JobResult{JobID: spec.JobID, Kind: spec.Kind, Success: ok, OutputDir: spec.OutputDir, Attempts: 1}
}

func makeSpecs(n int) []pipeline.JobSpec {
	specs := make([]pipeline.JobSpec, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("zoom_consistency_%06d", i)
		specs = append(specs, pipeline.JobSpec{
			JobID:     id,
			Kind:      "zoom_consistency",
			OutputDir: "/scratch/" + id,
		})
	}
	return specs
}

func run(t *testing.T, workers int, runner JobRunner, specs []pipeline.JobSpec) []pipeline.JobResult {
	t.Helper()
	logger := zerolog.Nop()
	return New(workers, runner, &logger).Run(context.Background(), specs)
}

func TestRunYieldsExactlyOneResultPerSpec(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 4, 25, 40} {
		specs := makeSpecs(25)
		results := run(t, workers, &fakeRunner{}, specs)
		if len(results) != 25 {
			t.Fatalf("workers=%d: expected 25 results, got %d", workers, len(results))
		}

		seen := map[string]bool{}
		for _, res := range results {
			if seen[res.JobID] {
				t.Fatalf("workers=%d: duplicate result for %s", workers, res.JobID)
			}
			seen[res.JobID] = true
		}
		for _, spec := range specs {
			if !seen[spec.JobID] {
				t.Fatalf("workers=%d: missing result for %s", workers, spec.JobID)
			}
		}
	}
}

func TestRunEmptySpecList(t *testing.T) {
	t.Parallel()

	if results := run(t, 4, &fakeRunner{}, nil); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestRunCollectsFailures(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{succeed: func(spec pipeline.JobSpec) bool {
		return spec.JobID[len(spec.JobID)-1]%2 == 0
	}}
	results := run(t, 4, runner, makeSpecs(20))

	ok, fail := 0, 0
	for _, res := range results {
		if res.Success {
			ok++
		} else {
			fail++
		}
	}
	if ok+fail != 20 || fail == 0 {
		t.Fatalf("expected mixed outcomes over 20 jobs, got ok=%d fail=%d", ok, fail)
	}
}

func TestRunBoundsConcurrencyAndIsolatesDirs(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{delay: 2 * time.Millisecond}
	results := run(t, 16, runner, makeSpecs(100))

	if len(results) != 100 {
		t.Fatalf("expected 100 results, got %d", len(results))
	}
	if max := atomic.LoadInt32(&runner.maxSeen); max > 16 {
		t.Fatalf("worker bound exceeded: observed %d concurrent jobs", max)
	}
	if len(runner.dirSeen) != 100 {
		t.Fatalf("expected 100 distinct output dirs, got %d", len(runner.dirSeen))
	}
	for dir, n := range runner.dirSeen {
		if n != 1 {
			t.Fatalf("output dir %s used by %d jobs", dir, n)
		}
	}
}
