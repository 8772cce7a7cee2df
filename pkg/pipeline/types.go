package pipeline

import "image"

// Task kind constants. Each kind corresponds to one fixed scene scenario
// rendered by the external renderer.
const (
	TaskShapeExtrapolation = "shape_extrapolation"
	TaskOcclusionDynamics  = "occlusion_dynamics"
	TaskDepthParallax      = "depth_parallax"
	TaskZoomConsistency    = "zoom_consistency"
)

// TaskKinds lists all task kinds in generation order. The "all" CLI mode
// splits the sample count evenly across this list.
var TaskKinds = []string{
	TaskShapeExtrapolation,
	TaskOcclusionDynamics,
	TaskDepthParallax,
	TaskZoomConsistency,
}

// JobSpec describes one unit of render work. Consumed exactly once; retries
// inside the job replace Objects with a fresh draw but keep the same JobID.
type JobSpec struct {
	JobID        string         `json:"job_id"`
	Kind         string         `json:"kind"`
	RenderParams map[string]any `json:"render_params"`
	Objects      []string       `json:"objects"`
	OutputDir    string         `json:"output_dir"`
	Seed         int64          `json:"seed"`
}

// Artifacts are the files a successful render leaves in the job output dir.
type Artifacts struct {
	FirstFrame string `json:"first_frame"`
	FinalFrame string `json:"final_frame"`
	Video      string `json:"video"`
}

// JobResult is the terminal outcome for one JobID, produced after retries
// collapse to a single success or failure.
type JobResult struct {
	JobID     string     `json:"job_id"`
	Kind      string     `json:"kind"`
	Success   bool       `json:"success"`
	OutputDir string     `json:"output_dir"`
	Attempts  int        `json:"attempts"`
	Artifacts *Artifacts `json:"artifacts,omitempty"`
}

// TaskPair is the externally visible dataset unit. Exactly one per job;
// failed jobs carry placeholder images and no video reference.
type TaskPair struct {
	TaskID           string
	Domain           string
	Prompt           string
	FirstImage       image.Image
	FinalImage       image.Image
	GroundTruthVideo string
}

// Record is the persisted JSON form of a TaskPair. Image and video fields
// hold paths relative to the record file.
type Record struct {
	TaskID           string `json:"task_id"`
	Domain           string `json:"domain"`
	Prompt           string `json:"prompt"`
	FirstImage       string `json:"first_image"`
	FinalImage       string `json:"final_image"`
	GroundTruthVideo string `json:"ground_truth_video,omitempty"`
}
