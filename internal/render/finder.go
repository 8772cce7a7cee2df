package render

import (
	"fmt"
	"os"
	"os/exec"
)

var rendererCandidates = []string{
	"/tmp/blender-3.6.0-linux-x64/blender",
	"/usr/local/bin/blender",
	"/usr/bin/blender",
}

// FindRenderer locates the renderer binary. The override path wins when it
// exists; otherwise fixed install locations are probed before PATH.
func FindRenderer(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override, nil
		}
	}

	for _, p := range rendererCandidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	if p, err := exec.LookPath("blender"); err == nil {
		return p, nil
	}

	return "", fmt.Errorf("renderer binary not found: install Blender 3.6+ or pass -renderer path")
}
