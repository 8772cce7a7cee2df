// Package config assembles the run configuration from CLI flags,
// environment variables (a .env file is honored) and an optional YAML
// overrides file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tendant/simple-render-pipeline/pkg/pipeline"
)

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type RenderConfig struct {
	BinaryPath   string        `yaml:"binary_path"`
	ScriptPath   string        `yaml:"script_path"`
	Timeout      time.Duration `yaml:"timeout"`
	MinVideoSize int64         `yaml:"min_video_size"`
	MaxRetries   int           `yaml:"max_retries"`
}

type ResolverConfig struct {
	URL string `yaml:"url"`
}

type LedgerConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

type Config struct {
	Task       string
	NumSamples int
	OutputDir  string
	Seed       int64
	Workers    int
	Resolution int
	FPS        int
	Duration   float64
	ObjectList string

	MetricsAddr string

	Log      LogConfig      `yaml:"log"`
	Render   RenderConfig   `yaml:"render"`
	Resolver ResolverConfig `yaml:"resolver"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

// Load parses flags from args (not including the program name), applies
// the optional YAML overrides file, then environment fallbacks, then
// defaults, and validates.
func Load(args []string) (*Config, error) {
	var cfg Config
	var cfgPath string

	fs := flag.NewFlagSet("render-generate", flag.ContinueOnError)
	fs.StringVar(&cfg.Task, "task", "", fmt.Sprintf("task kind: %v, or 'all'", pipeline.TaskKinds))
	fs.IntVar(&cfg.NumSamples, "num-samples", 0, "number of samples (split evenly for 'all')")
	fs.StringVar(&cfg.OutputDir, "output", "data/questions", "dataset output directory")
	fs.Int64Var(&cfg.Seed, "seed", 0, "random seed (0 = time-based)")
	fs.IntVar(&cfg.Workers, "workers", 16, "worker concurrency bound")
	fs.IntVar(&cfg.Resolution, "resolution", 1024, "square frame resolution")
	fs.IntVar(&cfg.FPS, "fps", 16, "video frame rate")
	fs.Float64Var(&cfg.Duration, "duration", 4.0, "video duration in seconds")
	fs.StringVar(&cfg.Render.BinaryPath, "renderer", "", "renderer binary path override")
	fs.StringVar(&cfg.ObjectList, "objects", "", "object list path override")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "listen address for /metrics (disabled when empty)")
	fs.StringVar(&cfgPath, "config", "", "path to YAML overrides file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment fallbacks for fields not set by flag or file.
	if cfg.Render.BinaryPath == "" {
		cfg.Render.BinaryPath = os.Getenv("RENDERER_PATH")
	}
	if cfg.Render.ScriptPath == "" {
		cfg.Render.ScriptPath = os.Getenv("RENDER_SCRIPT")
	}
	if cfg.ObjectList == "" {
		cfg.ObjectList = os.Getenv("OBJECT_LIST")
	}
	if cfg.Resolver.URL == "" {
		cfg.Resolver.URL = os.Getenv("ASSET_RESOLVER_URL")
	}
	if cfg.Ledger.DatabaseURL == "" {
		cfg.Ledger.DatabaseURL = os.Getenv("LEDGER_DATABASE_URL")
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Render.Timeout <= 0 {
		cfg.Render.Timeout = 10 * time.Minute
	}
	if cfg.Render.MinVideoSize <= 0 {
		cfg.Render.MinVideoSize = 50_000
	}
	if cfg.Render.MaxRetries <= 0 {
		cfg.Render.MaxRetries = 3
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 16
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	// Minimal validation
	if cfg.Task == "" {
		return nil, errors.New("-task is required")
	}
	if cfg.Task != "all" {
		if _, ok := knownKind(cfg.Task); !ok {
			return nil, fmt.Errorf("unknown task kind: %s (available: %v, all)", cfg.Task, pipeline.TaskKinds)
		}
	}
	if cfg.NumSamples <= 0 {
		return nil, errors.New("-num-samples must be positive")
	}
	if cfg.ObjectList == "" {
		return nil, errors.New("-objects (or OBJECT_LIST) is required")
	}

	return &cfg, nil
}

func knownKind(name string) (string, bool) {
	for _, k := range pipeline.TaskKinds {
		if k == name {
			return k, true
		}
	}
	return "", false
}
