// render-stub is a development stand-in for the real renderer. It honors
// the renderer subprocess contract (flags, artifacts, completion signal)
// so the pipeline can be exercised end to end without Blender.
//
// RENDER_STUB_MODE selects the behavior: success (default), fail,
// undersized, or hang.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

const stubVideoSize = 64 * 1024

func main() {
	taskConfig := flag.String("task_config", "", "JSON task configuration")
	objectPaths := flag.String("object_paths", "", "JSON list of object file paths")
	outputDir := flag.String("output_dir", "", "output directory")
	flag.Parse()

	if *taskConfig == "" || *objectPaths == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "task_config, object_paths and output_dir are required")
		os.Exit(2)
	}

	var cfg map[string]any
	if err := json.Unmarshal([]byte(*taskConfig), &cfg); err != nil {
		fail(*outputDir, fmt.Sprintf("bad task_config: %v", err))
	}
	var objects []string
	if err := json.Unmarshal([]byte(*objectPaths), &objects); err != nil {
		fail(*outputDir, fmt.Sprintf("bad object_paths: %v", err))
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fail(*outputDir, fmt.Sprintf("mkdir: %v", err))
	}

	switch os.Getenv("RENDER_STUB_MODE") {
	case "fail":
		fail(*outputDir, "simulated render failure")
	case "hang":
		time.Sleep(time.Hour)
	case "undersized":
		writeArtifacts(*outputDir, cfg, objects, 100)
		succeed(*outputDir)
	default:
		writeArtifacts(*outputDir, cfg, objects, stubVideoSize)
		succeed(*outputDir)
	}
}

func writeArtifacts(dir string, cfg map[string]any, objects []string, videoSize int) {
	resolution := 1024
	if v, ok := cfg["resolution"].(float64); ok {
		resolution = int(v)
	}

	frame := imaging.New(resolution, resolution, color.NRGBA{90, 90, 96, 255})
	for _, name := range []string{"first_frame.png", "final_frame.png"} {
		if err := imaging.Save(frame, filepath.Join(dir, name)); err != nil {
			fail(dir, fmt.Sprintf("write %s: %v", name, err))
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "ground_truth.mp4"), make([]byte, videoSize), 0644); err != nil {
		fail(dir, fmt.Sprintf("write video: %v", err))
	}

	meta := map[string]any{
		"task_type":   cfg["task_type"],
		"num_objects": len(objects),
		"resolution":  resolution,
		"config":      cfg,
		"stub":        true,
	}
	b, _ := json.MarshalIndent(meta, "", "  ")
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), b, 0644); err != nil {
		fail(dir, fmt.Sprintf("write metadata: %v", err))
	}
}

func succeed(dir string) {
	writeResult(dir, "success", "")
	fmt.Println("RENDER_SUCCESS")
	os.Exit(0)
}

func fail(dir, reason string) {
	writeResult(dir, "failed", reason)
	fmt.Println("RENDER_FAILED")
	fmt.Fprintln(os.Stderr, reason)
	os.Exit(1)
}

func writeResult(dir, status, reason string) {
	res := map[string]string{"status": status}
	if reason != "" {
		res["reason"] = reason
	}
	b, _ := json.Marshal(res)
	_ = os.WriteFile(filepath.Join(dir, "render_result.json"), b, 0644)
}
