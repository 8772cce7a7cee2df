// Package tasks holds the fixed task-kind registry: per-kind render
// parameters, object subset cardinality and prompt template sets.
package tasks

import (
	"fmt"
	"hash/fnv"

	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

// Kind describes one scenario type the renderer understands.
type Kind struct {
	Name       string
	NumObjects int
	Prompts    []string

	// params returns the renderer-facing camera/geometry parameters for
	// this kind, excluding the shared resolution/fps/duration fields.
	params func() map[string]any
}

var registry = map[string]Kind{
	pipeline.TaskShapeExtrapolation: {
		Name:       pipeline.TaskShapeExtrapolation,
		NumObjects: 1,
		Prompts:    shapeExtrapolationPrompts,
		params: func() map[string]any {
			return map[string]any{
				"camera_distance":  3.5,
				"camera_elevation": 25.0,
				"rotations":        1.0,
			}
		},
	},
	pipeline.TaskOcclusionDynamics: {
		Name:       pipeline.TaskOcclusionDynamics,
		NumObjects: 2,
		Prompts:    occlusionDynamicsPrompts,
		params: func() map[string]any {
			return map[string]any{
				"camera_distance":  4.5,
				"camera_elevation": 20.0,
				"rotations":        1.0,
				"object_positions": [][]float64{{0.8, 0.0, 0}, {-0.8, 0.0, 0}},
				"object_scales":    []float64{1.5, 1.5},
			}
		},
	},
	pipeline.TaskDepthParallax: {
		Name:       pipeline.TaskDepthParallax,
		NumObjects: 3,
		Prompts:    depthParallaxPrompts,
		params: func() map[string]any {
			return map[string]any{
				"camera_distance":         3.0,
				"camera_elevation":        20.0,
				"lateral_range":           3.5,
				"camera_forward_distance": 5.5,
				"camera_height":           1.8,
				"look_at":                 []float64{0.1, 1.0, 0},
				"object_positions":        [][]float64{{-1.0, -0.5, 0}, {0.3, 1.0, 0}, {1.2, 2.5, 0}},
				"object_scales":           []float64{1.8, 1.8, 1.8},
			}
		},
	},
	pipeline.TaskZoomConsistency: {
		Name:       pipeline.TaskZoomConsistency,
		NumObjects: 1,
		Prompts:    zoomConsistencyPrompts,
		params: func() map[string]any {
			return map[string]any{
				"camera_elevation": 20.0,
				"camera_azimuth":   15.0,
				"start_distance":   4.0,
				"end_distance":     1.8,
				"camera_distance":  4.0,
			}
		},
	},
}

// Get returns the registry entry for a task kind.
func Get(name string) (Kind, error) {
	k, ok := registry[name]
	if !ok {
		return Kind{}, fmt.Errorf("unknown task kind: %s (available: %v)", name, pipeline.TaskKinds)
	}
	return k, nil
}

// RenderParams builds the full renderer configuration for this kind. The
// resolution/fps/duration fields are shared across kinds; the rest comes
// from the per-kind camera/geometry defaults.
func (k Kind) RenderParams(resolution int, fps int, duration float64) map[string]any {
	p := k.params()
	p["task_type"] = k.Name
	p["resolution"] = resolution
	p["fps"] = fps
	p["duration"] = duration
	return p
}

// PromptFor picks a prompt template for one task. Selection is seeded from
// the task ID so a rerun with the same IDs reproduces the same text while
// phrasing still varies across tasks.
func (k Kind) PromptFor(taskID string) string {
	if len(k.Prompts) == 0 {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(taskID))
	return k.Prompts[int(h.Sum32())%len(k.Prompts)]
}
