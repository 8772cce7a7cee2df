// Package dataset turns terminal job results into uniform task-pair
// records and persists them.
package dataset

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/internal/tasks"
	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

// Assembler converts JobResults into TaskPairs, one-to-one. A failed job is
// represented, never dropped: it maps to a placeholder pair.
type Assembler struct {
	width  int
	height int
	log    *zerolog.Logger
}

// NewAssembler creates an assembler producing square images at the given
// resolution for placeholder pairs.
func NewAssembler(resolution int, logger *zerolog.Logger) *Assembler {
	asmLog := logger.With().Str("component", "DatasetAssembler").Logger()
	return &Assembler{width: resolution, height: resolution, log: &asmLog}
}

// Assemble maps every result to exactly one pair, in input order.
func (a *Assembler) Assemble(results []pipeline.JobResult) []pipeline.TaskPair {
	pairs := make([]pipeline.TaskPair, 0, len(results))
	for _, res := range results {
		pairs = append(pairs, a.pair(res))
	}
	return pairs
}

func (a *Assembler) pair(res pipeline.JobResult) pipeline.TaskPair {
	prompt := ""
	if kind, err := tasks.Get(res.Kind); err == nil {
		prompt = kind.PromptFor(res.JobID)
	} else {
		a.log.Warn().Str("job_id", res.JobID).Str("kind", res.Kind).Msg("unknown task kind in result")
	}

	if !res.Success || res.Artifacts == nil {
		return a.placeholder(res, prompt)
	}

	first, err := loadFrame(res.Artifacts.FirstFrame)
	if err != nil {
		a.log.Warn().Err(err).Str("job_id", res.JobID).Msg("unreadable first frame, using placeholder pair")
		return a.placeholder(res, prompt)
	}
	final, err := loadFrame(res.Artifacts.FinalFrame)
	if err != nil {
		a.log.Warn().Err(err).Str("job_id", res.JobID).Msg("unreadable final frame, using placeholder pair")
		return a.placeholder(res, prompt)
	}

	return pipeline.TaskPair{
		TaskID:           res.JobID,
		Domain:           res.Kind,
		Prompt:           prompt,
		FirstImage:       first,
		FinalImage:       final,
		GroundTruthVideo: res.Artifacts.Video,
	}
}

func (a *Assembler) placeholder(res pipeline.JobResult, prompt string) pipeline.TaskPair {
	blank := imaging.New(a.width, a.height, color.NRGBA{0, 0, 0, 255})
	return pipeline.TaskPair{
		TaskID:     res.JobID,
		Domain:     res.Kind,
		Prompt:     prompt,
		FirstImage: blank,
		FinalImage: blank,
	}
}

// loadFrame decodes a frame image and normalizes it to NRGBA.
func loadFrame(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}
