package dataset

import (
	"bytes"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

func TestWriteDataset(t *testing.T) {
	t.Parallel()

	scratch := t.TempDir()
	videoSrc := filepath.Join(scratch, "ground_truth.mp4")
	videoBytes := bytes.Repeat([]byte{0xAB}, 4096)
	if err := os.WriteFile(videoSrc, videoBytes, 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	frame := imaging.New(16, 16, color.NRGBA{0, 0, 0, 255})
	pairs := []pipeline.TaskPair{
		{
			TaskID:           "zoom_consistency_000000",
			Domain:           pipeline.TaskZoomConsistency,
			Prompt:           "predict the zoom",
			FirstImage:       frame,
			FinalImage:       frame,
			GroundTruthVideo: videoSrc,
		},
		{
			// Placeholder pair: no video reference.
			TaskID:     "zoom_consistency_000001",
			Domain:     pipeline.TaskZoomConsistency,
			Prompt:     "predict the zoom",
			FirstImage: frame,
			FinalImage: frame,
		},
	}

	base := t.TempDir()
	logger := zerolog.Nop()
	written, err := NewWriter(base, &logger).WriteDataset(pairs)
	if err != nil {
		t.Fatalf("WriteDataset returned error: %v", err)
	}
	if written != 2 {
		t.Fatalf("expected 2 records written, got %d", written)
	}

	kindDir := filepath.Join(base, "zoom_consistency_task")

	var rec pipeline.Record
	b, err := os.ReadFile(filepath.Join(kindDir, "zoom_consistency_000000.json"))
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.Domain != pipeline.TaskZoomConsistency || rec.Prompt != "predict the zoom" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.GroundTruthVideo != "zoom_consistency_000000.mp4" {
		t.Fatalf("unexpected video reference: %q", rec.GroundTruthVideo)
	}

	copied, err := os.ReadFile(filepath.Join(kindDir, rec.GroundTruthVideo))
	if err != nil {
		t.Fatalf("read copied video: %v", err)
	}
	if !bytes.Equal(copied, videoBytes) {
		t.Fatal("video copy must be byte-identical")
	}

	for _, name := range []string{rec.FirstImage, rec.FinalImage} {
		img, err := imaging.Open(filepath.Join(kindDir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		if img.Bounds().Dx() != 16 {
			t.Fatalf("%s: unexpected width %d", name, img.Bounds().Dx())
		}
	}

	// Placeholder record omits the video field entirely.
	b, err = os.ReadFile(filepath.Join(kindDir, "zoom_consistency_000001.json"))
	if err != nil {
		t.Fatalf("read placeholder record: %v", err)
	}
	var placeholder pipeline.Record
	if err := json.Unmarshal(b, &placeholder); err != nil {
		t.Fatalf("decode placeholder record: %v", err)
	}
	if placeholder.GroundTruthVideo != "" {
		t.Fatalf("placeholder record must have no video, got %q", placeholder.GroundTruthVideo)
	}
	if _, err := os.Stat(filepath.Join(kindDir, "zoom_consistency_000001.mp4")); !os.IsNotExist(err) {
		t.Fatal("no video file may exist for a placeholder record")
	}
}

func TestWriteDatasetMissingVideoSource(t *testing.T) {
	t.Parallel()

	frame := imaging.New(8, 8, color.NRGBA{0, 0, 0, 255})
	pairs := []pipeline.TaskPair{{
		TaskID:           "depth_parallax_000000",
		Domain:           pipeline.TaskDepthParallax,
		FirstImage:       frame,
		FinalImage:       frame,
		GroundTruthVideo: filepath.Join(t.TempDir(), "vanished.mp4"),
	}}

	logger := zerolog.Nop()
	if _, err := NewWriter(t.TempDir(), &logger).WriteDataset(pairs); err == nil {
		t.Fatal("expected error when the referenced video is gone")
	}
}
