package dataset

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

func testAssembler(resolution int) *Assembler {
	logger := zerolog.Nop()
	return NewAssembler(resolution, &logger)
}

func TestAssemblePlaceholderForFailedJob(t *testing.T) {
	t.Parallel()

	a := testAssembler(1024)
	pairs := a.Assemble([]pipeline.JobResult{{
		JobID:    "zoom_consistency_000003",
		Kind:     pipeline.TaskZoomConsistency,
		Success:  false,
		Attempts: 3,
	}})
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}

	pair := pairs[0]
	if pair.GroundTruthVideo != "" {
		t.Fatalf("placeholder pair must carry no video reference, got %q", pair.GroundTruthVideo)
	}
	b := pair.FirstImage.Bounds()
	if b.Dx() != 1024 || b.Dy() != 1024 {
		t.Fatalf("placeholder resolution %dx%d, want 1024x1024", b.Dx(), b.Dy())
	}
	r, g, bl, _ := pair.FirstImage.At(512, 512).RGBA()
	if r != 0 || g != 0 || bl != 0 {
		t.Fatalf("placeholder pixel not black: %d %d %d", r, g, bl)
	}
	if pair.Prompt == "" {
		t.Fatal("placeholder pair must still carry a prompt")
	}
}

func TestAssembleSuccessfulJob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	frame := imaging.New(64, 64, color.NRGBA{200, 10, 10, 255})
	first := filepath.Join(dir, "first_frame.png")
	final := filepath.Join(dir, "final_frame.png")
	video := filepath.Join(dir, "ground_truth.mp4")
	if err := imaging.Save(frame, first); err != nil {
		t.Fatalf("save frame: %v", err)
	}
	if err := imaging.Save(frame, final); err != nil {
		t.Fatalf("save frame: %v", err)
	}
	if err := os.WriteFile(video, make([]byte, 100), 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	a := testAssembler(64)
	pairs := a.Assemble([]pipeline.JobResult{{
		JobID:     "shape_extrapolation_000000",
		Kind:      pipeline.TaskShapeExtrapolation,
		Success:   true,
		OutputDir: dir,
		Attempts:  1,
		Artifacts: &pipeline.Artifacts{FirstFrame: first, FinalFrame: final, Video: video},
	}})

	pair := pairs[0]
	if pair.GroundTruthVideo != video {
		t.Fatalf("expected video reference %q, got %q", video, pair.GroundTruthVideo)
	}
	if pair.FirstImage.Bounds().Dx() != 64 {
		t.Fatalf("unexpected frame width %d", pair.FirstImage.Bounds().Dx())
	}
	r, _, _, _ := pair.FirstImage.At(10, 10).RGBA()
	if r>>8 != 200 {
		t.Fatalf("decoded pixel lost: r=%d", r>>8)
	}
}

func TestAssembleUnreadableFrameFallsBackToPlaceholder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first_frame.png")
	if err := os.WriteFile(first, []byte("not a png"), 0644); err != nil {
		t.Fatalf("write bogus frame: %v", err)
	}

	a := testAssembler(32)
	pairs := a.Assemble([]pipeline.JobResult{{
		JobID:     "depth_parallax_000001",
		Kind:      pipeline.TaskDepthParallax,
		Success:   true,
		OutputDir: dir,
		Artifacts: &pipeline.Artifacts{
			FirstFrame: first,
			FinalFrame: filepath.Join(dir, "final_frame.png"),
			Video:      filepath.Join(dir, "ground_truth.mp4"),
		},
	}})

	pair := pairs[0]
	if pair.GroundTruthVideo != "" {
		t.Fatal("fallback pair must drop the video reference")
	}
	if pair.FirstImage.Bounds().Dx() != 32 {
		t.Fatalf("fallback placeholder width %d, want 32", pair.FirstImage.Bounds().Dx())
	}
}

func TestAssemblePromptDeterministic(t *testing.T) {
	t.Parallel()

	res := pipeline.JobResult{JobID: "occlusion_dynamics_000009", Kind: pipeline.TaskOcclusionDynamics}
	a := testAssembler(16)
	p1 := a.Assemble([]pipeline.JobResult{res})[0].Prompt
	p2 := a.Assemble([]pipeline.JobResult{res})[0].Prompt
	if p1 == "" || p1 != p2 {
		t.Fatalf("prompt must be stable per task id: %q vs %q", p1, p2)
	}
}
