package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

// Writer persists TaskPairs as one record per pair under a per-task-kind
// directory: <base>/<kind>_task/<task_id>.json plus the frame images and,
// when present, a byte-for-byte copy of the video. Job scratch directories
// are not part of persisted output.
type Writer struct {
	baseDir string
	log     *zerolog.Logger
}

// NewWriter creates a dataset writer rooted at baseDir.
func NewWriter(baseDir string, logger *zerolog.Logger) *Writer {
	wrLog := logger.With().Str("component", "DatasetWriter").Logger()
	return &Writer{baseDir: baseDir, log: &wrLog}
}

// WriteDataset writes every pair and returns the number of records written.
func (w *Writer) WriteDataset(pairs []pipeline.TaskPair) (int, error) {
	written := 0
	for _, pair := range pairs {
		if err := w.writePair(pair); err != nil {
			return written, fmt.Errorf("write record %s: %w", pair.TaskID, err)
		}
		written++
	}
	w.log.Info().Int("records", written).Str("base_dir", w.baseDir).Msg("dataset written")
	return written, nil
}

func (w *Writer) writePair(pair pipeline.TaskPair) error {
	dir := filepath.Join(w.baseDir, pair.Domain+"_task")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}

	rec := pipeline.Record{
		TaskID:     pair.TaskID,
		Domain:     pair.Domain,
		Prompt:     pair.Prompt,
		FirstImage: pair.TaskID + "_first.png",
		FinalImage: pair.TaskID + "_final.png",
	}

	if err := imaging.Save(pair.FirstImage, filepath.Join(dir, rec.FirstImage)); err != nil {
		return fmt.Errorf("save first frame: %w", err)
	}
	if err := imaging.Save(pair.FinalImage, filepath.Join(dir, rec.FinalImage)); err != nil {
		return fmt.Errorf("save final frame: %w", err)
	}

	if pair.GroundTruthVideo != "" {
		rec.GroundTruthVideo = pair.TaskID + ".mp4"
		if err := copyFile(pair.GroundTruthVideo, filepath.Join(dir, rec.GroundTruthVideo)); err != nil {
			return fmt.Errorf("copy video: %w", err)
		}
	}

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, pair.TaskID+".json"), b, 0644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
