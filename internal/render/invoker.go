// Package render drives the external renderer subprocess: one invocation
// per attempt, a bounded retry loop above it.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Artifact names the renderer must produce in the job output directory.
const (
	VideoFileName      = "ground_truth.mp4"
	FirstFrameFileName = "first_frame.png"
	FinalFrameFileName = "final_frame.png"
	MetadataFileName   = "metadata.json"

	// ResultFileName is the structured completion signal written by the
	// renderer. Older renderer scripts only print SuccessSentinel.
	ResultFileName  = "render_result.json"
	SuccessSentinel = "RENDER_SUCCESS"
)

// Invoker launches one renderer subprocess per call. All failure modes
// (timeout, crash, nonzero exit, missing completion signal) collapse to a
// false return; the caller cannot distinguish them.
type Invoker struct {
	binary string
	script string // optional render script for Blender-style binaries
	log    *zerolog.Logger
}

// NewInvoker creates an invoker for the given renderer binary. When script
// is non-empty the binary is launched as
// `<binary> --background --python <script> -- <args>`.
func NewInvoker(binary, script string, logger *zerolog.Logger) *Invoker {
	invLog := logger.With().Str("component", "RenderInvoker").Logger()
	return &Invoker{binary: binary, script: script, log: &invLog}
}

// Invoke serializes the task config and object paths, runs the renderer
// pointed at outputDir and blocks until exit or timeout. Returns true only
// on a clean exit with a valid completion signal.
func (iv *Invoker) Invoke(ctx context.Context, params map[string]any, objectPaths []string, outputDir string, timeout time.Duration) bool {
	cfgJSON, err := json.Marshal(params)
	if err != nil {
		iv.log.Error().Err(err).Msg("failed to encode task config")
		return false
	}
	objJSON, err := json.Marshal(objectPaths)
	if err != nil {
		iv.log.Error().Err(err).Msg("failed to encode object paths")
		return false
	}

	var args []string
	if iv.script != "" {
		args = append(args, "--background", "--python", iv.script, "--")
	}
	args = append(args,
		"--task_config", string(cfgJSON),
		"--object_paths", string(objJSON),
		"--output_dir", outputDir,
	)

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, iv.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Don't let a grandchild holding the output pipes stall the worker
	// past the kill.
	cmd.WaitDelay = 10 * time.Second

	if err := cmd.Run(); err != nil {
		iv.log.Debug().
			Err(err).
			Str("output_dir", outputDir).
			Bool("timed_out", cctx.Err() == context.DeadlineExceeded).
			Str("stderr", truncate(stderr.String(), 512)).
			Msg("render subprocess failed")
		return false
	}

	return iv.completed(outputDir, stdout.String())
}

// completed checks the renderer's completion signal. A structured result
// file is authoritative when present; the stdout sentinel is accepted for
// renderer scripts that predate it.
func (iv *Invoker) completed(outputDir, stdout string) bool {
	b, err := os.ReadFile(filepath.Join(outputDir, ResultFileName))
	if err == nil {
		var res struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(b, &res); err != nil {
			iv.log.Debug().Err(err).Msg("malformed render result file")
			return false
		}
		return res.Status == "success"
	}

	return strings.Contains(stdout, SuccessSentinel)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
